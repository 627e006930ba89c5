package model

import "time"

// Per-image moderation states.  Every upload starts PENDING and is
// hidden from the public until an admin approves it.
const (
    ModerationPending  = "PENDING"
    ModerationApproved = "APPROVED"
    ModerationRejected = "REJECTED"
)

// Image is a photo attached to a review.  Rows are created at upload
// time and mutated only by the moderation action.  An image is shown
// to non-owning, non-admin viewers only when it has been approved and
// its visibility flag is still set.  This struct corresponds to a
// row in the `images` table.
//
// Fields:
//  ID               – primary key identifier.
//  ReviewID         – review the photo belongs to.
//  URL              – public URL at the image host.
//  StorageKey       – our key at the image host (uuid).
//  Width            – pixel width if known.
//  Height           – pixel height if known.
//  Format           – encoding (jpg, png, ...) if known.
//  ModerationStatus – PENDING, APPROVED or REJECTED.
//  ModeratedBy      – admin who last decided (nil while pending).
//  ModeratedAt      – when the decision was made (nil while pending).
//  IsVisible        – visibility flag, independent of moderation.
type Image struct {
    ID               uint64     // images.id
    ReviewID         uint64     // images.review_id
    URL              string     // images.url
    StorageKey       string     // images.storage_key
    Width            *uint32    // images.width (nullable)
    Height           *uint32    // images.height (nullable)
    Format           *string    // images.format (nullable)
    ModerationStatus string     // images.moderation_status
    ModeratedBy      *uint64    // images.moderated_by (nullable)
    ModeratedAt      *time.Time // images.moderated_at (nullable)
    IsVisible        bool       // images.is_visible
}
