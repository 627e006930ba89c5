package model

import "time"

// Feedback workflow states.  Unlike review moderation these are
// purely informational: status never gates visibility.
const (
    FeedbackPending    = "PENDING"
    FeedbackInProgress = "IN_PROGRESS"
    FeedbackCompleted  = "COMPLETED"
    FeedbackDeclined   = "DECLINED"
)

// Feedback is a standalone suggestion or bug report with its own
// vote ledger and an admin-settable status.  There is no approval
// workflow for feedback.  This struct corresponds to a row in the
// `feedback` table.
//
// Fields:
//  ID        – primary key identifier.
//  AuthorID  – user who submitted the feedback.
//  Content   – free-form text.
//  Category  – caller-supplied grouping label.
//  Upvotes   – monotonically non-decreasing up counter.
//  Downvotes – monotonically non-decreasing down counter.
//  Status    – PENDING, IN_PROGRESS, COMPLETED or DECLINED.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Feedback struct {
    ID        uint64    // feedback.id
    AuthorID  uint64    // feedback.author_id
    Content   string    // feedback.content
    Category  string    // feedback.category
    Upvotes   uint32    // feedback.upvotes
    Downvotes uint32    // feedback.downvotes
    Status    string    // feedback.status
    CreatedAt time.Time // feedback.created_at
    UpdatedAt time.Time // feedback.updated_at
}
