package auth

import (
	"context"
	"database/sql"
	"io/fs"

	"github.com/goliatone/go-errors"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// RegisterModels registers the package models with the persistence layer so
// relations resolve before any query runs.
func RegisterModels() {
	persistence.RegisterModel((*User)(nil))
	persistence.RegisterModel((*AccessToken)(nil))
	persistence.RegisterModel((*VerificationToken)(nil))
	persistence.RegisterModel((*Company)(nil))
	persistence.RegisterModel((*Category)(nil))
	persistence.RegisterModel((*Post)(nil))
	persistence.RegisterModel((*Job)(nil))
	persistence.RegisterModel((*JobApplication)(nil))
	persistence.RegisterModel((*CompanyReview)(nil))
	persistence.RegisterModel((*CompanyImage)(nil))
}

// NewPersistenceClient wires a database handle to the package models and the
// embedded migrations.
func NewPersistenceClient(cfg persistence.Config, db *sql.DB) (*persistence.Client, error) {
	RegisterModels()

	client, err := persistence.New(cfg, db, sqlitedialect.New())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create persistence client")
	}

	migrations, err := fs.Sub(GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load embedded migrations")
	}

	client.RegisterDialectMigrations(
		migrations,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	return client, nil
}

// OpenDatabase opens a sqlite backed bun handle. Production deployments pass
// their own *bun.DB to the repositories instead.
func OpenDatabase(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open database")
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Migrate runs the embedded migrations against the client's database.
func Migrate(ctx context.Context, client *persistence.Client) error {
	if err := client.ValidateDialects(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "migration dialect validation failed")
	}
	return client.Migrate(ctx)
}
