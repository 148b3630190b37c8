package iap

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"ghibli-backend/internal/utils"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type (
	// MidtransGateway wraps the Snap API for the real-money purchase path:
	// an invoice the user pays in the browser, settled via webhook.
	MidtransGateway interface {
		CreateInvoice(ctx context.Context, orderID string, grossAmt int64, email string) (string, error)
		VerifySignature(n PaymentNotification) bool
	}

	// PaymentNotification is the subset of the Midtrans webhook payload the
	// coin service needs.
	PaymentNotification struct {
		OrderID           string `json:"order_id"`
		StatusCode        string `json:"status_code"`
		GrossAmount       string `json:"gross_amount"`
		SignatureKey      string `json:"signature_key"`
		TransactionStatus string `json:"transaction_status"`
	}

	midtransGateway struct {
		snapClient snap.Client
		serverKey  string
	}
)

func NewMidtransGateway() MidtransGateway {
	serverKey := utils.GetConfig("SERVER_KEY")
	env := midtrans.Sandbox
	if utils.GetConfig("IsProd") == "true" {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(serverKey, env)

	return &midtransGateway{
		snapClient: client,
		serverKey:  serverKey,
	}
}

func (g *midtransGateway) CreateInvoice(_ context.Context, orderID string, grossAmt int64, email string) (string, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: grossAmt,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: email,
		},
	}

	resp, snapErr := g.snapClient.CreateTransaction(req)
	if snapErr != nil {
		return "", fmt.Errorf("create snap transaction: %w", snapErr)
	}
	return resp.RedirectURL, nil
}

// VerifySignature checks the sha512(order_id + status_code + gross_amount +
// server_key) signature Midtrans attaches to every notification.
func (g *midtransGateway) VerifySignature(n PaymentNotification) bool {
	payload := n.OrderID + n.StatusCode + n.GrossAmount + g.serverKey
	sum := sha512.Sum512([]byte(payload))
	return hex.EncodeToString(sum[:]) == n.SignatureKey
}
