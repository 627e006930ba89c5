package repository // repository defines data access for seat reviews

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions
	"strings"      // strings assembles dynamic UPDATE clauses

	"github.com/ryofujimura/Oshiri-sub000/internal/model"
)

// ErrReviewNotFound is returned when a review lookup yields no rows.
var ErrReviewNotFound = errors.New("review not found")

// relevanceExpr mirrors model.RelevanceScore in SQL so listings can be
// ordered inside the database. The +1 inside LOG10 avoids log(0).
const relevanceExpr = `CASE WHEN upvotes + downvotes = 0 THEN 0
	ELSE (upvotes / (upvotes + downvotes)) * LOG10(upvotes + downvotes + 1) END`

// ReviewRepo provides methods to work with seat reviews in the database.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo constructs a ReviewRepo with the given DB handle.
func NewReviewRepo(db *sql.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

const reviewCols = `id, establishment_id, author_id, seat_type, capacity, comfort_rating,
	has_power_outlet, noise_level, description, upvotes, downvotes, is_visible, status,
	created_at, updated_at`

func scanReview(sc interface{ Scan(...any) error }) (*model.Review, error) {
	var rv model.Review
	err := sc.Scan(
		&rv.ID, &rv.EstablishmentID, &rv.AuthorID, &rv.SeatType, &rv.Capacity, &rv.ComfortRating,
		&rv.HasPowerOutlet, &rv.NoiseLevel, &rv.Description, &rv.Upvotes, &rv.Downvotes,
		&rv.IsVisible, &rv.Status, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// Create inserts a review record. Counters start at zero, the review
// is visible and ACTIVE. On success the review's ID is populated.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	const q = `INSERT INTO reviews
	           (establishment_id, author_id, seat_type, capacity, comfort_rating,
	            has_power_outlet, noise_level, description, upvotes, downvotes, is_visible, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, TRUE, 'ACTIVE')`
	res, err := r.db.ExecContext(ctx, q,
		rv.EstablishmentID, rv.AuthorID, rv.SeatType, rv.Capacity, rv.ComfortRating,
		rv.HasPowerOutlet, rv.NoiseLevel, rv.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// GetByID retrieves a review by its id regardless of status or
// visibility. Callers apply the visibility projection themselves.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	const q = `SELECT ` + reviewCols + ` FROM reviews WHERE id = ?`
	rv, err := scanReview(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return rv, nil
}

// ListByEstablishment returns the ACTIVE reviews of a venue the given
// viewer is allowed to see, ordered by relevance score descending.
// The visibility projection is pushed into the WHERE clause: hidden
// reviews still surface for their author and for admins.
func (r *ReviewRepo) ListByEstablishment(ctx context.Context, establishmentID uint64, viewer model.Viewer) ([]model.Review, error) {
	q := `SELECT ` + reviewCols + ` FROM reviews WHERE establishment_id = ? AND status = 'ACTIVE'`
	args := []any{establishmentID}
	if !viewer.IsAdmin {
		q += ` AND (is_visible = TRUE OR author_id = ?)`
		args = append(args, viewer.UserID)
	}
	q += ` ORDER BY ` + relevanceExpr + ` DESC, created_at DESC`
	return r.queryReviews(ctx, q, args...)
}

// ListByAuthor returns every review written by the given user,
// including hidden ones. Deleted reviews stay excluded.
func (r *ReviewRepo) ListByAuthor(ctx context.Context, authorID uint64) ([]model.Review, error) {
	const q = `SELECT ` + reviewCols + ` FROM reviews
	           WHERE author_id = ? AND status = 'ACTIVE'
	           ORDER BY created_at DESC`
	return r.queryReviews(ctx, q, authorID)
}

// ListAll returns every non-deleted review. Admin listings only.
func (r *ReviewRepo) ListAll(ctx context.Context) ([]model.Review, error) {
	const q = `SELECT ` + reviewCols + ` FROM reviews
	           WHERE status = 'ACTIVE'
	           ORDER BY created_at DESC`
	return r.queryReviews(ctx, q)
}

func (r *ReviewRepo) queryReviews(ctx context.Context, q string, args ...any) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetVisibility flips the is_visible flag. The operation is
// idempotent: setting the current value again succeeds. Zero affected
// rows therefore only means not-found after an existence check.
func (r *ReviewRepo) SetVisibility(ctx context.Context, id uint64, isVisible bool) error {
	const q = `UPDATE reviews SET is_visible = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, isVisible, id)
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

// Vote bumps one counter by exactly one in a single atomic statement
// so concurrent votes never lose an increment. It returns the updated
// counters. There is no per-user deduplication.
func (r *ReviewRepo) Vote(ctx context.Context, id uint64, upvote bool) (up, down uint32, err error) {
	col := "downvotes"
	if upvote {
		col = "upvotes"
	}
	q := `UPDATE reviews SET ` + col + ` = ` + col + ` + 1 WHERE id = ? AND status = 'ACTIVE'`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, 0, ErrReviewNotFound
	}
	err = r.db.QueryRowContext(ctx, `SELECT upvotes, downvotes FROM reviews WHERE id = ?`, id).
		Scan(&up, &down)
	return up, down, err
}

// ApplyEdit overwrites the proposed (non-nil) fields on the review and
// bumps updated_at. Nil fields are left untouched; there is no way to
// clear a field to empty through this path.
func (r *ReviewRepo) ApplyEdit(ctx context.Context, id uint64, p model.ProposedFields) error {
	sets := []string{}
	args := []any{}
	if p.SeatType != nil {
		sets = append(sets, "seat_type = ?")
		args = append(args, *p.SeatType)
	}
	if p.Capacity != nil {
		sets = append(sets, "capacity = ?")
		args = append(args, *p.Capacity)
	}
	if p.ComfortRating != nil {
		sets = append(sets, "comfort_rating = ?")
		args = append(args, *p.ComfortRating)
	}
	if p.HasPowerOutlet != nil {
		sets = append(sets, "has_power_outlet = ?")
		args = append(args, *p.HasPowerOutlet)
	}
	if p.NoiseLevel != nil {
		sets = append(sets, "noise_level = ?")
		args = append(args, *p.NoiseLevel)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	q := `UPDATE reviews SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, q, args...)
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

// SoftDelete moves the review to DELETED. Deleting an already deleted
// review is a no-op as long as the row exists.
func (r *ReviewRepo) SoftDelete(ctx context.Context, id uint64) error {
	const q = `UPDATE reviews SET status = 'DELETED', updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = 'ACTIVE'`
	res, err := r.db.ExecContext(ctx, q, id)
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
