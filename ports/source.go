package ports

import (
	"context"

	"regpulse/domain/table"
)

// TableSource provides the raw record tables the analytics engine
// consumes, keyed by logical source name (enrollment, demographic,
// biometric). A source with no discoverable files simply has no entry;
// the engine degrades per-source rather than aborting.
type TableSource interface {
	LoadAll(ctx context.Context) (map[string]*table.Table, error)
}
