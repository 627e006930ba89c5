package repository // repository defines data access for edit requests

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions

	"github.com/ryofujimura/Oshiri-sub000/internal/model"
)

// ErrRequestNotFound is returned when an edit-request lookup yields no rows.
var ErrRequestNotFound = errors.New("edit request not found")

// EditRequestRepo provides methods to work with the edit_requests
// table. Rows are inserted PENDING and mutated exactly once by
// MarkResolved; they are never physically deleted.
type EditRequestRepo struct {
	db *sql.DB
}

// NewEditRequestRepo constructs an EditRequestRepo with the given DB handle.
func NewEditRequestRepo(db *sql.DB) *EditRequestRepo {
	return &EditRequestRepo{db: db}
}

const requestCols = `id, review_id, requester_id, request_type,
	proposed_seat_type, proposed_capacity, proposed_comfort_rating,
	proposed_has_power_outlet, proposed_noise_level, proposed_description,
	status, resolved_by, created_at, updated_at`

func scanRequest(sc interface{ Scan(...any) error }) (*model.EditRequest, error) {
	var er model.EditRequest
	err := sc.Scan(
		&er.ID, &er.ReviewID, &er.RequesterID, &er.RequestType,
		&er.Proposed.SeatType, &er.Proposed.Capacity, &er.Proposed.ComfortRating,
		&er.Proposed.HasPowerOutlet, &er.Proposed.NoiseLevel, &er.Proposed.Description,
		&er.Status, &er.ResolvedBy, &er.CreatedAt, &er.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &er, nil
}

// Create inserts a PENDING edit request. Unset proposed fields are
// stored as NULL, which downstream means "no change". On success the
// request's ID is populated.
func (r *EditRequestRepo) Create(ctx context.Context, er *model.EditRequest) error {
	const q = `INSERT INTO edit_requests
	           (review_id, requester_id, request_type,
	            proposed_seat_type, proposed_capacity, proposed_comfort_rating,
	            proposed_has_power_outlet, proposed_noise_level, proposed_description,
	            status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 'PENDING')`
	res, err := r.db.ExecContext(ctx, q,
		er.ReviewID, er.RequesterID, er.RequestType,
		er.Proposed.SeatType, er.Proposed.Capacity, er.Proposed.ComfortRating,
		er.Proposed.HasPowerOutlet, er.Proposed.NoiseLevel, er.Proposed.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	er.ID = uint64(id)
	er.Status = model.RequestStatusPending
	return nil
}

// GetByID retrieves an edit request by its id.
func (r *EditRequestRepo) GetByID(ctx context.Context, id uint64) (*model.EditRequest, error) {
	const q = `SELECT ` + requestCols + ` FROM edit_requests WHERE id = ?`
	er, err := scanRequest(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return er, nil
}

// PendingRequestRow is a pending request joined with its review,
// establishment and requester for the admin queue listing.
type PendingRequestRow struct {
	Request           model.EditRequest `json:"request"`
	ReviewSeatType    string            `json:"review_seat_type"`
	ReviewAuthorID    uint64            `json:"review_author_id"`
	EstablishmentID   uint64            `json:"establishment_id"`
	EstablishmentName string            `json:"establishment_name"`
	RequesterName     string            `json:"requester_name"`
}

// ListPending returns all PENDING requests with their joined context,
// oldest first so the moderation queue is worked in arrival order.
func (r *EditRequestRepo) ListPending(ctx context.Context) ([]PendingRequestRow, error) {
	const q = `SELECT er.id, er.review_id, er.requester_id, er.request_type,
	                  er.proposed_seat_type, er.proposed_capacity, er.proposed_comfort_rating,
	                  er.proposed_has_power_outlet, er.proposed_noise_level, er.proposed_description,
	                  er.status, er.resolved_by, er.created_at, er.updated_at,
	                  rv.seat_type, rv.author_id, e.id, e.name, u.username
	           FROM edit_requests er
	           JOIN reviews rv ON rv.id = er.review_id
	           JOIN establishments e ON e.id = rv.establishment_id
	           JOIN users u ON u.id = er.requester_id
	           WHERE er.status = 'PENDING'
	           ORDER BY er.created_at ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PendingRequestRow
	for rows.Next() {
		var row PendingRequestRow
		er := &row.Request
		if err := rows.Scan(
			&er.ID, &er.ReviewID, &er.RequesterID, &er.RequestType,
			&er.Proposed.SeatType, &er.Proposed.Capacity, &er.Proposed.ComfortRating,
			&er.Proposed.HasPowerOutlet, &er.Proposed.NoiseLevel, &er.Proposed.Description,
			&er.Status, &er.ResolvedBy, &er.CreatedAt, &er.UpdatedAt,
			&row.ReviewSeatType, &row.ReviewAuthorID, &row.EstablishmentID,
			&row.EstablishmentName, &row.RequesterName,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkResolved claims the PENDING -> terminal transition. The UPDATE
// is guarded by the current status so two concurrent resolutions can
// never both succeed: the loser sees zero affected rows and gets
// ErrAlreadyProcessed (or ErrRequestNotFound for an unknown id).
func (r *EditRequestRepo) MarkResolved(ctx context.Context, id uint64, status string, adminID uint64) error {
	const q = `UPDATE edit_requests
	           SET status = ?, resolved_by = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = 'PENDING'`
	res, err := r.db.ExecContext(ctx, q, status, adminID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyProcessed
	}
	return nil
}
