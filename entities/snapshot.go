package entities

// StateSnapshot holds one serialized ledger snapshot per namespace. The
// ledgers rewrite the whole row on every mutation; reads happen only at
// startup.
type StateSnapshot struct {
	Namespace string `gorm:"primary_key" json:"namespace"`
	Data      []byte `gorm:"type:bytea" json:"data"`

	Timestamp
}
