package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryofujimura/Oshiri-sub000/internal/model"
)

func newRequestRepo(t *testing.T) (*EditRequestRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewEditRequestRepo(db), mock
}

func requestRows(status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "review_id", "requester_id", "request_type",
		"proposed_seat_type", "proposed_capacity", "proposed_comfort_rating",
		"proposed_has_power_outlet", "proposed_noise_level", "proposed_description",
		"status", "resolved_by", "created_at", "updated_at",
	}).AddRow(7, 1, 100, "EDIT", "patio", nil, nil, nil, nil, nil, status, nil, now, now)
}

func TestEditRequestRepo_Create_InsertsPending(t *testing.T) {
	repo, mock := newRequestRepo(t)

	seat := "patio"
	mock.ExpectExec(`(?s)INSERT INTO edit_requests.+VALUES \(\?, \?, \?, \?, \?, \?, \?, \?, \?, 'PENDING'\)`).
		WithArgs(uint64(1), uint64(100), "EDIT", "patio", nil, nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(7, 1))

	er := &model.EditRequest{
		ReviewID:    1,
		RequesterID: 100,
		RequestType: model.RequestTypeEdit,
		Proposed:    model.ProposedFields{SeatType: &seat},
	}
	err := repo.Create(context.Background(), er)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), er.ID)
	assert.Equal(t, model.RequestStatusPending, er.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEditRequestRepo_MarkResolved_ClaimsTransition(t *testing.T) {
	repo, mock := newRequestRepo(t)

	mock.ExpectExec(`(?s)UPDATE edit_requests.+WHERE id = \? AND status = 'PENDING'`).
		WithArgs("APPROVED", uint64(5), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkResolved(context.Background(), 7, model.RequestStatusApproved, 5)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEditRequestRepo_MarkResolved_AlreadyProcessed(t *testing.T) {
	repo, mock := newRequestRepo(t)

	// the conditional update misses because the row left PENDING; the
	// follow-up read distinguishes conflict from not-found
	mock.ExpectExec(`(?s)UPDATE edit_requests.+status = 'PENDING'`).
		WithArgs("REJECTED", uint64(5), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`(?s)SELECT .+ FROM edit_requests WHERE id = \?`).
		WithArgs(uint64(7)).
		WillReturnRows(requestRows("APPROVED"))

	err := repo.MarkResolved(context.Background(), 7, model.RequestStatusRejected, 5)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEditRequestRepo_MarkResolved_UnknownID(t *testing.T) {
	repo, mock := newRequestRepo(t)

	mock.ExpectExec(`(?s)UPDATE edit_requests.+status = 'PENDING'`).
		WithArgs("APPROVED", uint64(5), uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`(?s)SELECT .+ FROM edit_requests WHERE id = \?`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.MarkResolved(context.Background(), 99, model.RequestStatusApproved, 5)
	assert.ErrorIs(t, err, ErrRequestNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEditRequestRepo_ListPending_JoinedRows(t *testing.T) {
	repo, mock := newRequestRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "review_id", "requester_id", "request_type",
		"proposed_seat_type", "proposed_capacity", "proposed_comfort_rating",
		"proposed_has_power_outlet", "proposed_noise_level", "proposed_description",
		"status", "resolved_by", "created_at", "updated_at",
		"seat_type", "author_id", "e_id", "name", "username",
	}).AddRow(7, 1, 100, "DELETE", nil, nil, nil, nil, nil, nil,
		"PENDING", nil, now, now, "booth", 100, 10, "Blue Bottle", "alice")

	mock.ExpectQuery(`(?s)FROM edit_requests er.+JOIN reviews rv.+WHERE er\.status = 'PENDING'.+ORDER BY er\.created_at ASC`).
		WillReturnRows(rows)

	got, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(7), got[0].Request.ID)
	assert.Equal(t, "Blue Bottle", got[0].EstablishmentName)
	assert.Equal(t, "alice", got[0].RequesterName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
