package coin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ghibli-backend/domain"
	"ghibli-backend/entities"
	"ghibli-backend/pkg/iap"
	"ghibli-backend/pkg/kvstore"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	CoinService interface {
		GetBalance(ctx context.Context) int
		AddCoins(ctx context.Context, amount int) error
		UseCoins(ctx context.Context, amount int) (bool, error)

		GetCoinPackages(ctx context.Context) ([]domain.CoinPackage, error)
		PurchaseCoins(ctx context.Context, req domain.PurchaseCoinRequest) (*domain.PurchaseCoinResponse, error)
		CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest) (*domain.CreateInvoiceResponse, error)
		HandlePaymentNotification(ctx context.Context, n iap.PaymentNotification) error
		RestorePurchases(ctx context.Context) error

		Subscribe() <-chan struct{}
	}

	coinService struct {
		mu    sync.Mutex
		coins int

		kv             kvstore.Store
		provider       iap.Provider
		gateway        iap.MidtransGateway
		coinRepository CoinRepository

		subMu sync.Mutex
		subs  []chan struct{}
	}

	coinSnapshot struct {
		Coins int `json:"coins"`
	}
)

// NewCoinService loads the persisted balance (default 0 when no snapshot
// exists) and returns a ledger whose debit is atomic with respect to
// concurrent callers.
func NewCoinService(
	kv kvstore.Store,
	provider iap.Provider,
	gateway iap.MidtransGateway,
	coinRepository CoinRepository,
) (CoinService, error) {
	s := &coinService{
		kv:             kv,
		provider:       provider,
		gateway:        gateway,
		coinRepository: coinRepository,
	}

	data, found, err := kv.Get(context.Background(), kvstore.CoinsNamespace)
	if err != nil {
		return nil, fmt.Errorf("load coin snapshot: %w", err)
	}
	if found {
		var snap coinSnapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decode coin snapshot: %w", err)
		}
		s.coins = snap.Coins
	}

	return s, nil
}

func (s *coinService) GetBalance(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coins
}

func (s *coinService) AddCoins(ctx context.Context, amount int) error {
	if amount <= 0 {
		return domain.ErrInvalidCoinAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.coins += amount
	if err := s.persistLocked(ctx); err != nil {
		s.coins -= amount
		return err
	}

	s.notify()
	return nil
}

// UseCoins debits the balance. Insufficient funds is signaled through the
// boolean, not an error; the balance is left unchanged.
func (s *coinService) UseCoins(ctx context.Context, amount int) (bool, error) {
	if amount <= 0 {
		return false, domain.ErrInvalidCoinAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.coins < amount {
		return false, nil
	}

	s.coins -= amount
	if err := s.persistLocked(ctx); err != nil {
		s.coins += amount
		return false, err
	}

	s.notify()
	return true, nil
}

func (s *coinService) GetCoinPackages(ctx context.Context) ([]domain.CoinPackage, error) {
	return s.provider.GetProducts(ctx)
}

func (s *coinService) PurchaseCoins(ctx context.Context, req domain.PurchaseCoinRequest) (*domain.PurchaseCoinResponse, error) {
	pkg, ok := domain.FindCoinPackage(req.PackageID)
	if !ok {
		return nil, domain.ErrInvalidCoinPackage
	}

	approved, err := s.provider.Purchase(ctx, pkg.ID)
	if err != nil {
		return nil, domain.ErrPaymentFailed
	}
	if !approved {
		return &domain.PurchaseCoinResponse{
			Success: false,
			Balance: s.GetBalance(ctx),
		}, nil
	}

	if err := s.AddCoins(ctx, pkg.Coins); err != nil {
		return nil, err
	}

	return &domain.PurchaseCoinResponse{
		Success: true,
		Coins:   pkg.Coins,
		Balance: s.GetBalance(ctx),
	}, nil
}

func (s *coinService) CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest) (*domain.CreateInvoiceResponse, error) {
	pkg, ok := domain.FindCoinPackage(req.PackageID)
	if !ok {
		return nil, domain.ErrInvalidCoinPackage
	}

	order := &entities.PurchaseOrder{
		ID:        uuid.New(),
		PackageID: pkg.ID,
		Coins:     pkg.Coins,
		GrossAmt:  int64(pkg.PriceAmount * 100),
		Email:     req.Email,
		Status:    entities.PurchaseOrderPending,
		Timestamp: entities.Timestamp{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
	if err := s.coinRepository.CreatePurchaseOrder(ctx, order); err != nil {
		return nil, err
	}

	invoiceURL, err := s.gateway.CreateInvoice(ctx, order.ID.String(), order.GrossAmt, req.Email)
	if err != nil {
		_ = s.coinRepository.UpdatePurchaseOrderStatus(ctx, order.ID.String(), entities.PurchaseOrderFailed)
		return nil, domain.ErrPaymentFailed
	}

	return &domain.CreateInvoiceResponse{
		OrderID:    order.ID.String(),
		InvoiceURL: invoiceURL,
	}, nil
}

// HandlePaymentNotification settles a Midtrans order. Settlement credits
// the package's coins exactly once; repeated notifications are no-ops.
func (s *coinService) HandlePaymentNotification(ctx context.Context, n iap.PaymentNotification) error {
	if !s.gateway.VerifySignature(n) {
		return domain.ErrInvalidSignature
	}

	order, err := s.coinRepository.GetPurchaseOrderByID(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOrderNotFound
		}
		return err
	}
	if order.Status != entities.PurchaseOrderPending {
		return nil
	}

	switch n.TransactionStatus {
	case "capture", "settlement":
		if err := s.coinRepository.UpdatePurchaseOrderStatus(ctx, order.ID.String(), entities.PurchaseOrderSettled); err != nil {
			return err
		}
		if err := s.AddCoins(ctx, order.Coins); err != nil {
			return err
		}
		log.Infof("purchase order %s settled, credited %d coins", order.ID, order.Coins)
	case "deny", "cancel", "expire", "failure":
		if err := s.coinRepository.UpdatePurchaseOrderStatus(ctx, order.ID.String(), entities.PurchaseOrderFailed); err != nil {
			return err
		}
	}

	return nil
}

func (s *coinService) RestorePurchases(ctx context.Context) error {
	return s.provider.RestorePurchases(ctx)
}

// Subscribe returns a channel that receives a signal after every committed
// balance change. The channel is never closed and drops signals when the
// receiver lags.
func (s *coinService) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()
	return ch
}

func (s *coinService) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(coinSnapshot{Coins: s.coins})
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, kvstore.CoinsNamespace, data)
}

func (s *coinService) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
