// Package ports defines the backend contracts the gateway depends on.
package ports

import (
	"context"

	"paaa/internal/paaa/models"
)

// Authorization validates bearer tokens against an external identity system.
type Authorization interface {
	// Health reports dependency name to status ("ok" or a failure description).
	Health(ctx context.Context) map[string]string
	// IsTokenValid reports whether token grants access to service for patronID.
	// A rejected token is (false, nil); err is reserved for backend failures.
	IsTokenValid(ctx context.Context, service, patronID, token string) (bool, error)
}

// ILS performs patron lifecycle operations against the library system of record.
// A nil record with a nil error means the backend produced no result.
type ILS interface {
	Health(ctx context.Context) map[string]string
	Signup(ctx context.Context, patron *models.Patron) (*models.Patron, error)
	NewPatron(ctx context.Context, patron *models.Patron) (*models.Patron, error)
	UpdatePatron(ctx context.Context, patron *models.Patron) (*models.Patron, error)
	BlockPatron(ctx context.Context, patron *models.Patron, block *models.Block) (*models.Patron, error)
	UnblockPatron(ctx context.Context, patron *models.Patron, block *models.Block) (*models.Patron, error)
	DeletePatron(ctx context.Context, patron *models.Patron) (*models.Patron, error)
	NewFee(ctx context.Context, patron *models.Patron, fee *models.Fee) (*models.Fee, error)
}
