package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateReviewImagesTable, downCreateReviewImagesTable)
}

func upCreateReviewImagesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS review_images (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			review_id UUID NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_review_images_review_id ON review_images(review_id);
	`)
	return err
}

func downCreateReviewImagesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS review_images;`)
	return err
}
