package kvstore

import (
	"context"
)

// Store is the persistence substrate for the ledgers: a key-value store
// addressed by namespace, holding one serialized snapshot per namespace.
// The ledgers keep live state in memory and write the full snapshot
// through on every mutation.
type Store interface {
	// Get returns the snapshot for namespace; found is false when the
	// namespace has never been written.
	Get(ctx context.Context, namespace string) (data []byte, found bool, err error)

	// Set replaces the snapshot for namespace.
	Set(ctx context.Context, namespace string, data []byte) error
}

// Ledger namespaces, kept identical to the mobile client's storage keys so
// an exported snapshot stays recognizable.
const (
	CoinsNamespace  = "ghibli-coins-storage"
	PhotosNamespace = "ghibli-photos-storage"
)
