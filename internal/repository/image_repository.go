package repository // repository defines data access for review images

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions

	"github.com/ryofujimura/Oshiri-sub000/internal/model"
)

// ErrImageNotFound is returned when an image lookup yields no rows.
var ErrImageNotFound = errors.New("image not found")

// ImageRepo provides methods to work with review images in the
// database. Images are inserted PENDING and only the moderation
// action mutates them afterwards.
type ImageRepo struct {
	db *sql.DB
}

// NewImageRepo constructs an ImageRepo with the given DB handle.
func NewImageRepo(db *sql.DB) *ImageRepo {
	return &ImageRepo{db: db}
}

const imageCols = `id, review_id, url, storage_key, width, height, format,
	moderation_status, moderated_by, moderated_at, is_visible`

func scanImage(sc interface{ Scan(...any) error }) (*model.Image, error) {
	var img model.Image
	err := sc.Scan(
		&img.ID, &img.ReviewID, &img.URL, &img.StorageKey, &img.Width, &img.Height,
		&img.Format, &img.ModerationStatus, &img.ModeratedBy, &img.ModeratedAt, &img.IsVisible,
	)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// Create registers an uploaded image with moderation_status PENDING.
// On success the image's ID is populated.
func (r *ImageRepo) Create(ctx context.Context, img *model.Image) error {
	const q = `INSERT INTO images
	           (review_id, url, storage_key, width, height, format, moderation_status, is_visible)
	           VALUES (?, ?, ?, ?, ?, ?, 'PENDING', TRUE)`
	res, err := r.db.ExecContext(ctx, q,
		img.ReviewID, img.URL, img.StorageKey, img.Width, img.Height, img.Format)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	img.ID = uint64(id)
	img.ModerationStatus = model.ModerationPending
	img.IsVisible = true
	return nil
}

// GetByID retrieves an image by its id.
func (r *ImageRepo) GetByID(ctx context.Context, id uint64) (*model.Image, error) {
	const q = `SELECT ` + imageCols + ` FROM images WHERE id = ?`
	img, err := scanImage(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return img, nil
}

// ListByReview returns all images of a review, newest first. Callers
// apply the visibility projection before returning them to non-admin,
// non-owner viewers.
func (r *ImageRepo) ListByReview(ctx context.Context, reviewID uint64) ([]model.Image, error) {
	const q = `SELECT ` + imageCols + ` FROM images WHERE review_id = ? ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Moderate records an admin decision, stamping the deciding admin and
// time. Re-moderation is allowed: each call simply overwrites the
// previous decision.
func (r *ImageRepo) Moderate(ctx context.Context, id uint64, status string, adminID uint64) error {
	const q = `UPDATE images
	           SET moderation_status = ?, moderated_by = ?, moderated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, adminID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
