package app

import (
	"fmt"

	"github.com/shrimpsizemoose/entregas/internal/store"
	"github.com/shrimpsizemoose/entregas/internal/store/postgres"
	"github.com/shrimpsizemoose/entregas/internal/store/sqlite"
)

// NewStore opens the report archive. An empty DSN disables archiving and
// yields a nil store. The driver comes from cfg.Type, or from the DSN when
// no type is set.
func NewStore(cfg store.DBConfig) (store.ReportStore, error) {
	if cfg.DSN == "" {
		return nil, nil
	}

	dbType := cfg.Type
	if dbType == "" {
		dbType = store.DetectType(cfg.DSN)
	}

	switch dbType {
	case store.DBTypePostgres:
		s, err := postgres.NewPostgresStore(cfg.DSN, cfg.MigrationsDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case store.DBTypeSQLite:
		s, err := sqlite.NewSQLiteStore(cfg.DSN, cfg.MigrationsDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database type %q", dbType)
	}
}
