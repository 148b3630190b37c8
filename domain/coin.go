package domain

import (
	"errors"
)

var (
	MessageSuccessGetBalance      = "coin balance retrieved successfully"
	MessageSuccessGetCoinPackages = "coin packages retrieved successfully"
	MessageSuccessPurchaseCoins   = "coins purchased successfully"
	MessageSuccessCreateInvoice   = "payment invoice created successfully"
	MessageSuccessRestore         = "purchases restored successfully"

	MessageFailedGetBalance      = "failed to retrieve coin balance"
	MessageFailedGetCoinPackages = "failed to retrieve coin packages"
	MessageFailedPurchaseCoins   = "failed to purchase coins"
	MessageFailedCreateInvoice   = "failed to create payment invoice"
	MessageFailedRestore         = "failed to restore purchases"

	ErrInsufficientCoins  = errors.New("insufficient coins")
	ErrInvalidCoinAmount  = errors.New("coin amount must be positive")
	ErrInvalidCoinPackage = errors.New("invalid coin package")
	ErrPaymentFailed      = errors.New("payment processing failed")
	ErrInvalidSignature   = errors.New("invalid payment notification signature")
	ErrOrderNotFound      = errors.New("purchase order not found")
)

// TransformCost is the number of coins one transformation consumes.
const TransformCost = 1

type (
	// CoinPackage is static catalog data; never persisted.
	CoinPackage struct {
		ID          string  `json:"id"`
		Coins       int     `json:"coins"`
		Price       string  `json:"price"`
		PriceAmount float64 `json:"priceAmount"`
	}

	BalanceResponse struct {
		Coins int `json:"coins"`
	}

	PurchaseCoinRequest struct {
		PackageID string `json:"package_id" validate:"required"`
	}

	PurchaseCoinResponse struct {
		Success bool `json:"success"`
		Coins   int  `json:"coins"`
		Balance int  `json:"balance"`
	}

	CreateInvoiceRequest struct {
		PackageID string `json:"package_id" validate:"required"`
		Email     string `json:"email" validate:"required,email"`
	}

	CreateInvoiceResponse struct {
		OrderID    string `json:"order_id"`
		InvoiceURL string `json:"invoice_url"`
	}
)

// CoinPackages mirrors the client catalog; ids double as store product ids.
var CoinPackages = []CoinPackage{
	{ID: "coins_10", Coins: 10, Price: "$0.99", PriceAmount: 0.99},
	{ID: "coins_50", Coins: 50, Price: "$2.99", PriceAmount: 2.99},
	{ID: "coins_100", Coins: 100, Price: "$4.99", PriceAmount: 4.99},
}

// FindCoinPackage returns the catalog entry for id.
func FindCoinPackage(id string) (CoinPackage, bool) {
	for _, pkg := range CoinPackages {
		if pkg.ID == id {
			return pkg, true
		}
	}
	return CoinPackage{}, false
}
