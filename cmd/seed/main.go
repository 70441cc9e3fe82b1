// Package main provides a CLI tool for preparing the database schema and
// seeding demo data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/blade"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/client"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/numerator"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/storage/postgres"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/storage/postgres/document_repo"
	"github.com/sebastiansledz/qrsaws-sub000/pkg/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS cat_clients (
		id UUID PRIMARY KEY,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version INTEGER NOT NULL DEFAULT 1,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		nip TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		postal_code TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		updated_by TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_cat_clients_code
		ON cat_clients (code) WHERE NOT deletion_mark`,

	`CREATE TABLE IF NOT EXISTS cat_blades (
		id UUID PRIMARY KEY,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version INTEGER NOT NULL DEFAULT 1,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		client_id UUID REFERENCES cat_clients (id),
		width_mm NUMERIC(10,2) NOT NULL DEFAULT 0,
		thickness_mm NUMERIC(10,2) NOT NULL DEFAULT 0,
		length_mm NUMERIC(10,2) NOT NULL DEFAULT 0,
		pitch TEXT NOT NULL DEFAULT '',
		tooth_type TEXT NOT NULL DEFAULT '',
		system TEXT NOT NULL DEFAULT '',
		machine_type TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'c0',
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		updated_by TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_cat_blades_code
		ON cat_blades (code) WHERE NOT deletion_mark`,

	`CREATE TABLE IF NOT EXISTS doc_wzpz (
		id UUID PRIMARY KEY,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version INTEGER NOT NULL DEFAULT 1,
		doc_type TEXT NOT NULL,
		client_id UUID NOT NULL REFERENCES cat_clients (id),
		client_code TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		sequence BIGINT NOT NULL,
		number TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		closed_at TIMESTAMPTZ,
		closed_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		updated_by TEXT NOT NULL DEFAULT '',
		UNIQUE (doc_type, client_id, year, month, sequence)
	)`,
	`CREATE INDEX IF NOT EXISTS ix_doc_wzpz_open
		ON doc_wzpz (doc_type, client_id, created_at DESC) WHERE status = 'open'`,

	`CREATE TABLE IF NOT EXISTS doc_wzpz_items (
		document_id UUID NOT NULL REFERENCES doc_wzpz (id),
		blade_id UUID NOT NULL REFERENCES cat_blades (id),
		added_at TIMESTAMPTZ NOT NULL,
		added_by TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (document_id, blade_id)
	)`,

	`CREATE TABLE IF NOT EXISTS reg_movements (
		id UUID PRIMARY KEY,
		blade_id UUID NOT NULL REFERENCES cat_blades (id),
		op_code TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT '',
		machine TEXT NOT NULL DEFAULT '',
		hours_worked NUMERIC(10,2),
		document_id UUID REFERENCES doc_wzpz (id),
		document_number TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		actor_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_reg_movements_blade
		ON reg_movements (blade_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS doc_counters (
		doc_type TEXT NOT NULL,
		client_id UUID NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		current_val BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (doc_type, client_id, year, month)
	)`,

	`CREATE TABLE IF NOT EXISTS sys_sequences (
		key TEXT PRIMARY KEY,
		current_val BIGINT NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS sys_audit (
		id UUID PRIMARY KEY,
		entity_type TEXT NOT NULL,
		entity_id UUID NOT NULL,
		action TEXT NOT NULL,
		actor_id TEXT NOT NULL DEFAULT '',
		changes JSONB,
		changes_compressed BYTEA,
		compression_algo TEXT NOT NULL DEFAULT 'none',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_sys_audit_entity
		ON sys_audit (entity_type, entity_id, created_at DESC)`,
}

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("connected to database")

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalw("failed to apply schema", "error", err)
		}
	}
	log.Info("schema ensured")

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	txManager := postgres.NewTxManager(pool)
	allocator := numerator.New(pool.Pool)

	clientRepo := catalog_repo.NewClientRepo(txManager)
	documentRepo := document_repo.NewWZPZRepo(txManager)
	clientService := client.NewService(clientRepo, txManager, allocator, documentRepo, nil)

	bladeRepo := catalog_repo.NewBladeRepo(txManager)
	bladeService := blade.NewService(bladeRepo, txManager, allocator, nil)

	demo := client.New("AB", "Tartak Abramowski")
	demo.NIP = "5260305006"
	demo.City = "Hajnowka"
	if err := clientService.Create(ctx, demo); err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeConflict {
			log.Info("demo data already present, skipping")
			return nil
		}
		return err
	}
	log.Infow("demo client created", "code", demo.Code)

	specs := []struct {
		name  string
		width string
	}{
		{"Pila tasmowa 35", "35"},
		{"Pila tasmowa 40", "40"},
	}
	for _, spec := range specs {
		b := blade.New("", spec.name)
		b.ClientID = &demo.ID
		b.Width = decimal.RequireFromString(spec.width)
		b.Thickness = decimal.RequireFromString("1.1")
		b.Length = decimal.RequireFromString("4000")
		if err := bladeService.Create(ctx, b); err != nil {
			return err
		}
		log.Infow("demo blade created", "code", b.Code)
	}

	return nil
}
