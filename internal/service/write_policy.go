package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ryofujimura/Oshiri-sub000/internal/model"
	"github.com/ryofujimura/Oshiri-sub000/internal/queue"
	"github.com/ryofujimura/Oshiri-sub000/internal/repository"
)

// ErrInvalidInput is returned for malformed request types, actions or
// proposed field values. Handlers translate it into HTTP 400.
var ErrInvalidInput = errors.New("invalid input")

// Principal is the authenticated actor a mutation runs as.
type Principal struct {
	UserID uint64
	Role   string
}

// IsAdmin reports whether the principal holds the admin capability.
func (p Principal) IsAdmin() bool { return p.Role == model.RoleAdmin }

// ReviewStore is the slice of the review repository the workflow
// needs. Implementations must make SoftDelete idempotent and apply
// only non-nil proposed fields in ApplyEdit.
type ReviewStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Review, error)
	ApplyEdit(ctx context.Context, id uint64, p model.ProposedFields) error
	SoftDelete(ctx context.Context, id uint64) error
}

// RequestStore is the slice of the edit-request repository the
// workflow needs. MarkResolved must be conditional on the PENDING
// status and report ErrAlreadyProcessed when the transition was
// already taken.
type RequestStore interface {
	Create(ctx context.Context, er *model.EditRequest) error
	GetByID(ctx context.Context, id uint64) (*model.EditRequest, error)
	MarkResolved(ctx context.Context, id uint64, status string, adminID uint64) error
}

// WriteWorkflow is the single source of truth for how a change to a
// review becomes persistent. Admins write through directly; everyone
// else stages a proposal that an admin later resolves. The branch is
// chosen once, by capability, instead of scattering role checks
// through the handlers.
type WriteWorkflow struct {
	Reviews  ReviewStore
	Requests RequestStore
	Events   EventPublisher // nil disables event publishing
}

// NewWriteWorkflow wires the workflow over its stores.
func NewWriteWorkflow(reviews ReviewStore, requests RequestStore, events EventPublisher) *WriteWorkflow {
	return &WriteWorkflow{Reviews: reviews, Requests: requests, Events: events}
}

// SubmitOutcome reports what a submission did: either the change was
// applied immediately (admin branch, Review holds the fresh state) or
// it was staged (Request holds the new PENDING row).
type SubmitOutcome struct {
	Applied bool
	Review  *model.Review
	Request *model.EditRequest
}

// writePolicy is the strategy selected per submission.
type writePolicy interface {
	submit(ctx context.Context, w *WriteWorkflow, actor Principal, rv *model.Review,
		requestType string, fields model.ProposedFields) (*SubmitOutcome, error)
}

// directWrite mutates the review immediately. Admin capability only;
// ownership is deliberately not checked on this branch.
type directWrite struct{}

func (directWrite) submit(ctx context.Context, w *WriteWorkflow, actor Principal, rv *model.Review,
	requestType string, fields model.ProposedFields) (*SubmitOutcome, error) {
	if requestType == model.RequestTypeDelete {
		if err := w.Reviews.SoftDelete(ctx, rv.ID); err != nil {
			return nil, err
		}
	} else {
		if err := w.Reviews.ApplyEdit(ctx, rv.ID, fields); err != nil {
			return nil, err
		}
	}
	fresh, err := w.Reviews.GetByID(ctx, rv.ID)
	if err != nil {
		return nil, err
	}
	return &SubmitOutcome{Applied: true, Review: fresh}, nil
}

// proposeChange stages a PENDING edit request. Only the review's
// author may propose; the review itself is untouched.
type proposeChange struct{}

func (proposeChange) submit(ctx context.Context, w *WriteWorkflow, actor Principal, rv *model.Review,
	requestType string, fields model.ProposedFields) (*SubmitOutcome, error) {
	if actor.UserID != rv.AuthorID {
		return nil, repository.ErrForbidden
	}
	er := &model.EditRequest{
		ReviewID:    rv.ID,
		RequesterID: actor.UserID,
		RequestType: requestType,
		Proposed:    fields,
	}
	if err := w.Requests.Create(ctx, er); err != nil {
		return nil, err
	}
	return &SubmitOutcome{Request: er}, nil
}

// policyFor selects the write strategy from the actor's capability.
func policyFor(actor Principal) writePolicy {
	if actor.IsAdmin() {
		return directWrite{}
	}
	return proposeChange{}
}

// SubmitChange runs one edit/delete submission against a review.
// Validation happens up front so both branches see the same inputs:
// the request type must be EDIT or DELETE, an EDIT must propose at
// least one field, and a proposed capacity must be at least 1.
// Deleted reviews are reported as absent, matching every listing.
func (w *WriteWorkflow) SubmitChange(ctx context.Context, actor Principal, reviewID uint64,
	requestType string, fields model.ProposedFields) (*SubmitOutcome, error) {
	requestType = strings.ToUpper(strings.TrimSpace(requestType))
	if requestType != model.RequestTypeEdit && requestType != model.RequestTypeDelete {
		return nil, ErrInvalidInput
	}
	if requestType == model.RequestTypeEdit {
		if fields.Empty() {
			return nil, ErrInvalidInput
		}
		if fields.Capacity != nil && *fields.Capacity < 1 {
			return nil, ErrInvalidInput
		}
	} else {
		fields = model.ProposedFields{}
	}

	rv, err := w.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv.Status != model.ReviewStatusActive {
		return nil, repository.ErrReviewNotFound
	}
	return policyFor(actor).submit(ctx, w, actor, rv, requestType, fields)
}

// Resolve takes a pending request to its terminal state. The
// transition is claimed first through the conditional update in
// MarkResolved, so a racing second resolve fails with
// ErrAlreadyProcessed before any effect is applied. Approving an EDIT
// overwrites only the proposed fields; approving a DELETE soft
// deletes the review; rejecting touches nothing but the request row.
func (w *WriteWorkflow) Resolve(ctx context.Context, actor Principal, requestID uint64, action string) (*model.EditRequest, error) {
	if !actor.IsAdmin() {
		return nil, repository.ErrForbidden
	}
	var status string
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "approve":
		status = model.RequestStatusApproved
	case "reject":
		status = model.RequestStatusRejected
	default:
		return nil, ErrInvalidInput
	}

	er, err := w.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := w.Requests.MarkResolved(ctx, requestID, status, actor.UserID); err != nil {
		return nil, err
	}

	if status == model.RequestStatusApproved {
		if er.RequestType == model.RequestTypeDelete {
			err = w.Reviews.SoftDelete(ctx, er.ReviewID)
		} else {
			err = w.Reviews.ApplyEdit(ctx, er.ReviewID, er.Proposed)
		}
		if err != nil {
			return nil, err
		}
	}

	w.publishResolution(ctx, er, status, actor.UserID)

	resolved, err := w.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// publishResolution emits the audit event for a decided request.
// Failures are swallowed: the decision is already durable in the
// database and the publisher logs its own errors.
func (w *WriteWorkflow) publishResolution(ctx context.Context, er *model.EditRequest, status string, adminID uint64) {
	if w.Events == nil {
		return
	}
	_ = w.Events.PublishModerationDecided(ctx, queue.ModerationDecidedEvent{
		Kind:      queue.EventEditRequestResolved,
		SubjectID: er.ID,
		ReviewID:  er.ReviewID,
		AdminID:   adminID,
		Decision:  status,
		Type:      er.RequestType,
		DecidedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
