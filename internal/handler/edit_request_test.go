package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryofujimura/Oshiri-sub000/internal/model"
	"github.com/ryofujimura/Oshiri-sub000/internal/repository"
	"github.com/ryofujimura/Oshiri-sub000/internal/service"
	"github.com/ryofujimura/Oshiri-sub000/internal/utils"
)

// in-memory stores backing the workflow under test

type memReviews struct {
	m map[uint64]*model.Review
}

func (s *memReviews) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	rv, ok := s.m[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	cp := *rv
	return &cp, nil
}

func (s *memReviews) ApplyEdit(ctx context.Context, id uint64, p model.ProposedFields) error {
	rv, ok := s.m[id]
	if !ok {
		return repository.ErrReviewNotFound
	}
	p.ApplyTo(rv)
	return nil
}

func (s *memReviews) SoftDelete(ctx context.Context, id uint64) error {
	rv, ok := s.m[id]
	if !ok {
		return repository.ErrReviewNotFound
	}
	rv.Status = model.ReviewStatusDeleted
	return nil
}

type memRequests struct {
	m      map[uint64]*model.EditRequest
	nextID uint64
}

func (s *memRequests) Create(ctx context.Context, er *model.EditRequest) error {
	s.nextID++
	er.ID = s.nextID
	er.Status = model.RequestStatusPending
	er.CreatedAt = time.Now()
	cp := *er
	s.m[er.ID] = &cp
	return nil
}

func (s *memRequests) GetByID(ctx context.Context, id uint64) (*model.EditRequest, error) {
	er, ok := s.m[id]
	if !ok {
		return nil, repository.ErrRequestNotFound
	}
	cp := *er
	return &cp, nil
}

func (s *memRequests) MarkResolved(ctx context.Context, id uint64, status string, adminID uint64) error {
	er, ok := s.m[id]
	if !ok {
		return repository.ErrRequestNotFound
	}
	if er.Status != model.RequestStatusPending {
		return repository.ErrAlreadyProcessed
	}
	er.Status = status
	er.ResolvedBy = &adminID
	return nil
}

func newWorkflowEnv() (*echo.Echo, *EditRequestHandler, *memReviews, *memRequests) {
	reviews := &memReviews{m: map[uint64]*model.Review{
		1: {ID: 1, EstablishmentID: 10, AuthorID: 100, SeatType: "booth", Capacity: 4,
			ComfortRating: "comfortable", IsVisible: true, Status: model.ReviewStatusActive},
	}}
	requests := &memRequests{m: map[uint64]*model.EditRequest{}}
	w := service.NewWriteWorkflow(reviews, requests, nil)
	h := &EditRequestHandler{Workflow: w}

	e := echo.New()
	e.Validator = utils.NewRequestValidator()
	return e, h, reviews, requests
}

func callSubmit(t *testing.T, e *echo.Echo, h *EditRequestHandler, userID uint64, role, reviewID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/reviews/"+reviewID+"/requests", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(reviewID)
	c.Set("user_id", userID)
	c.Set("role", role)
	require.NoError(t, h.Submit(c))
	return rec
}

func callResolve(t *testing.T, e *echo.Echo, h *EditRequestHandler, userID uint64, role, requestID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/requests/"+requestID+"/resolve", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(requestID)
	c.Set("user_id", userID)
	c.Set("role", role)
	require.NoError(t, h.Resolve(c))
	return rec
}

func TestSubmit_AdminAppliesImmediately(t *testing.T) {
	e, h, reviews, requests := newWorkflowEnv()

	rec := callSubmit(t, e, h, 1, model.RoleAdmin, "1",
		`{"request_type": "EDIT", "seat_type": "counter"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "counter", resp["seat_type"])

	assert.Equal(t, "counter", reviews.m[1].SeatType)
	assert.Empty(t, requests.m)
}

func TestSubmit_AuthorGets201Pending(t *testing.T) {
	e, h, reviews, requests := newWorkflowEnv()

	rec := callSubmit(t, e, h, 100, model.RoleUser, "1",
		`{"request_type": "EDIT", "seat_type": "counter"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, "booth", reviews.m[1].SeatType)
	require.Len(t, requests.m, 1)
	assert.Equal(t, model.RequestStatusPending, requests.m[1].Status)
}

func TestSubmit_ErrorMapping(t *testing.T) {
	e, h, _, _ := newWorkflowEnv()

	// stranger touching someone else's review
	rec := callSubmit(t, e, h, 200, model.RoleUser, "1",
		`{"request_type": "DELETE"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// unknown review
	rec = callSubmit(t, e, h, 100, model.RoleUser, "99",
		`{"request_type": "DELETE"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// bogus request type
	rec = callSubmit(t, e, h, 100, model.RoleUser, "1",
		`{"request_type": "REPLACE"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// edit proposing nothing
	rec = callSubmit(t, e, h, 100, model.RoleUser, "1",
		`{"request_type": "EDIT"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolve_ApproveThenConflict(t *testing.T) {
	e, h, reviews, requests := newWorkflowEnv()

	rec := callSubmit(t, e, h, 100, model.RoleUser, "1", `{"request_type": "DELETE"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, requests.m, 1)

	rec = callResolve(t, e, h, 1, model.RoleAdmin, "1", `{"action": "approve"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ReviewStatusDeleted, reviews.m[1].Status)

	// the second admin races in after the decision landed
	rec = callResolve(t, e, h, 2, model.RoleAdmin, "1", `{"action": "reject"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, model.RequestStatusApproved, requests.m[1].Status)
}

func TestResolve_NonAdminAndUnknownRequest(t *testing.T) {
	e, h, _, _ := newWorkflowEnv()

	rec := callSubmit(t, e, h, 100, model.RoleUser, "1", `{"request_type": "DELETE"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = callResolve(t, e, h, 100, model.RoleUser, "1", `{"action": "approve"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = callResolve(t, e, h, 1, model.RoleAdmin, "42", `{"action": "approve"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = callResolve(t, e, h, 1, model.RoleAdmin, "1", `{"action": "postpone"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
