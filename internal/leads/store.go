package leads

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/model"
)

// Store persists lead records, one row per profile URL across repeated runs.
type Store interface {
	// Upsert writes the record, keyed on its normalized URL. An existing
	// row is overwritten in place with Date Added preserved; otherwise a
	// new row is appended with Date Added = Last Updated = now.
	Upsert(ctx context.Context, rec *model.LeadRecord) (model.UpsertResult, error)

	// List returns every stored record.
	List(ctx context.Context) ([]*model.LeadRecord, error)

	Close() error
}

// Open creates the lead store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "xlsx":
		return NewXLSX(cfg.Path, cfg.Worksheet), nil
	case "sqlite":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("leads: unknown store driver %q", cfg.Driver)
	}
}
