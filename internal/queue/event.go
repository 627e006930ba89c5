// Package queue defines message payloads exchanged over the message broker.
package queue

// Moderation event kinds. One event is published per admin decision
// so the audit trail covers every content mutation choke point.
const (
    EventEditRequestResolved = "edit_request.resolved"
    EventImageModerated      = "image.moderated"
)

// ModerationDecidedEvent is published whenever an admin decides the
// fate of user-generated content: resolving an edit request or
// moderating an image. It carries enough information for downstream
// consumers to log or trigger analytics without querying the primary
// database.
type ModerationDecidedEvent struct {
    Kind      string `json:"kind"`                 // EventEditRequestResolved or EventImageModerated
    SubjectID uint64 `json:"subject_id"`           // edit request id or image id
    ReviewID  uint64 `json:"review_id"`            // review the content belongs to
    AdminID   uint64 `json:"admin_id"`             // admin who decided
    Decision  string `json:"decision"`             // APPROVED or REJECTED
    Type      string `json:"type,omitempty"`       // EDIT or DELETE for edit requests
    DecidedAt string `json:"decided_at"`           // RFC3339 timestamp
}
