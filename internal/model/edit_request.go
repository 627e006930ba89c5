package model

import "time"

// Edit request kinds and states.  PENDING is the only non-terminal
// state: once a request is approved or rejected it never changes
// again, and a second resolution attempt is a conflict.
const (
    RequestTypeEdit   = "EDIT"
    RequestTypeDelete = "DELETE"

    RequestStatusPending  = "PENDING"
    RequestStatusApproved = "APPROVED"
    RequestStatusRejected = "REJECTED"
)

// ProposedFields carries the partial change set of an EDIT request.
// Every field is a pointer; nil means "not proposed, leave the
// review's value untouched".  There is deliberately no way to clear
// a field to empty through this path.
type ProposedFields struct {
    SeatType       *string `json:"seat_type,omitempty"`
    Capacity       *uint32 `json:"capacity,omitempty"`
    ComfortRating  *string `json:"comfort_rating,omitempty"`
    HasPowerOutlet *bool   `json:"has_power_outlet,omitempty"`
    NoiseLevel     *string `json:"noise_level,omitempty"`
    Description    *string `json:"description,omitempty"`
}

// Empty reports whether no field is proposed at all.
func (p ProposedFields) Empty() bool {
    return p.SeatType == nil && p.Capacity == nil && p.ComfortRating == nil &&
        p.HasPowerOutlet == nil && p.NoiseLevel == nil && p.Description == nil
}

// ApplyTo overwrites the review's fields with every non-nil proposed
// value and leaves the rest alone.  It does not touch counters,
// visibility, status or timestamps; callers bump updated_at when
// persisting.
func (p ProposedFields) ApplyTo(r *Review) {
    if p.SeatType != nil {
        r.SeatType = *p.SeatType
    }
    if p.Capacity != nil {
        r.Capacity = *p.Capacity
    }
    if p.ComfortRating != nil {
        r.ComfortRating = *p.ComfortRating
    }
    if p.HasPowerOutlet != nil {
        r.HasPowerOutlet = *p.HasPowerOutlet
    }
    if p.NoiseLevel != nil {
        r.NoiseLevel = p.NoiseLevel
    }
    if p.Description != nil {
        r.Description = p.Description
    }
}

// EditRequest is a staged, admin-reviewable proposal to modify or
// delete a review.  It is created when a non-admin author submits a
// change and is mutated exactly once, by the resolution action.
// Rows are never physically deleted.  This struct corresponds to a
// row in the `edit_requests` table.
//
// Fields:
//  ID          – primary key identifier.
//  ReviewID    – review the proposal targets.
//  RequesterID – author who submitted the proposal.
//  RequestType – EDIT or DELETE.
//  Proposed    – partial field set for EDIT requests.
//  Status      – PENDING, APPROVED or REJECTED.
//  ResolvedBy  – admin who resolved the request (nil while pending).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp (bumped by resolution).
type EditRequest struct {
    ID          uint64         // edit_requests.id
    ReviewID    uint64         // edit_requests.review_id
    RequesterID uint64         // edit_requests.requester_id
    RequestType string         // edit_requests.request_type
    Proposed    ProposedFields // proposed_* columns (each nullable)
    Status      string         // edit_requests.status
    ResolvedBy  *uint64        // edit_requests.resolved_by (nullable)
    CreatedAt   time.Time      // edit_requests.created_at
    UpdatedAt   time.Time      // edit_requests.updated_at
}
