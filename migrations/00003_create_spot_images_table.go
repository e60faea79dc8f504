package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateSpotImagesTable, downCreateSpotImagesTable)
}

func upCreateSpotImagesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE spot_images (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			spot_id UUID NOT NULL REFERENCES spots(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			preview BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_spot_images_spot_id ON spot_images(spot_id);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateSpotImagesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS spot_images;`)
	return err
}
