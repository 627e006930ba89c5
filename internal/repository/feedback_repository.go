package repository // repository defines data access for user feedback

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions

	"github.com/ryofujimura/Oshiri-sub000/internal/model"
)

// ErrFeedbackNotFound is returned when a feedback lookup yields no rows.
var ErrFeedbackNotFound = errors.New("feedback not found")

// FeedbackRepo provides methods to work with the feedback table.
type FeedbackRepo struct {
	db *sql.DB
}

// NewFeedbackRepo constructs a FeedbackRepo with the given DB handle.
func NewFeedbackRepo(db *sql.DB) *FeedbackRepo {
	return &FeedbackRepo{db: db}
}

const feedbackCols = `id, author_id, content, category, upvotes, downvotes, status,
	created_at, updated_at`

func scanFeedback(sc interface{ Scan(...any) error }) (*model.Feedback, error) {
	var f model.Feedback
	err := sc.Scan(
		&f.ID, &f.AuthorID, &f.Content, &f.Category, &f.Upvotes, &f.Downvotes,
		&f.Status, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a feedback item with zero counters and PENDING
// status. On success the item's ID is populated.
func (r *FeedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	const q = `INSERT INTO feedback (author_id, content, category, upvotes, downvotes, status)
	           VALUES (?, ?, ?, 0, 0, 'PENDING')`
	res, err := r.db.ExecContext(ctx, q, f.AuthorID, f.Content, f.Category)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	f.Status = model.FeedbackPending
	return nil
}

// GetByID retrieves a feedback item by its id.
func (r *FeedbackRepo) GetByID(ctx context.Context, id uint64) (*model.Feedback, error) {
	const q = `SELECT ` + feedbackCols + ` FROM feedback WHERE id = ?`
	f, err := scanFeedback(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return f, nil
}

// List returns all feedback items, most recent first. Feedback status
// is informational only and never gates listing.
func (r *FeedbackRepo) List(ctx context.Context) ([]model.Feedback, error) {
	const q = `SELECT ` + feedbackCols + ` FROM feedback ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Vote bumps one counter by exactly one in a single atomic statement
// and returns the updated counters. Same ledger rules as review votes:
// no deduplication, no retraction.
func (r *FeedbackRepo) Vote(ctx context.Context, id uint64, upvote bool) (up, down uint32, err error) {
	col := "downvotes"
	if upvote {
		col = "upvotes"
	}
	q := `UPDATE feedback SET ` + col + ` = ` + col + ` + 1 WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, 0, ErrFeedbackNotFound
	}
	err = r.db.QueryRowContext(ctx, `SELECT upvotes, downvotes FROM feedback WHERE id = ?`, id).
		Scan(&up, &down)
	return up, down, err
}

// SetStatus records the admin's workflow status for an item.
func (r *FeedbackRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE feedback SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
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
