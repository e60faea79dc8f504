package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateReviewsTable, downCreateReviewsTable)
}

func upCreateReviewsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			spot_id UUID NOT NULL REFERENCES spots(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			review TEXT NOT NULL,
			stars INT NOT NULL CHECK (stars >= 1 AND stars <= 5),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			-- One review per user per spot
			UNIQUE (spot_id, user_id)
		);

		CREATE INDEX IF NOT EXISTS idx_reviews_spot_id ON reviews(spot_id);
		CREATE INDEX IF NOT EXISTS idx_reviews_user_id ON reviews(user_id);
	`)
	return err
}

func downCreateReviewsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS reviews;`)
	return err
}
