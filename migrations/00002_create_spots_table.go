package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateSpotsTable, downCreateSpotsTable)
}

func upCreateSpotsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE spots (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			address TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			country TEXT NOT NULL,
			lat DOUBLE PRECISION,
			lng DOUBLE PRECISION,
			name VARCHAR(50) NOT NULL,
			description TEXT NOT NULL,
			price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_spots_owner_id ON spots(owner_id);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateSpotsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS spots;`
	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}
