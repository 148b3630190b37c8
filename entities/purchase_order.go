package entities

import (
	"github.com/google/uuid"
)

const (
	PurchaseOrderPending = "Pending"
	PurchaseOrderSettled = "Settled"
	PurchaseOrderFailed  = "Failed"
)

// PurchaseOrder tracks a Midtrans invoice from creation to settlement.
// Coins are credited exactly once, when the order moves to Settled.
type PurchaseOrder struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PackageID string    `json:"package_id"`
	Coins     int       `json:"coins"`
	GrossAmt  int64     `json:"gross_amount"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`

	Timestamp
}
