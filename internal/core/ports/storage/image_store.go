package storage

import "context"

// ChequeImageStore is the object-storage collaborator for cheque images.
// Images are stored strictly before the atomic batch is constructed; a
// stored image whose batch later fails is an accepted orphan, never a
// rollback concern.
type ChequeImageStore interface {
	// Save persists an image and returns the path the cheque should record.
	Save(ctx context.Context, chequeNumber string, data []byte) (string, error)
}
