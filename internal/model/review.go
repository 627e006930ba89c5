package model

import (
    "math"
    "time"
)

// Review lifecycle states.  Deletion is soft: a DELETED review keeps
// its row but is excluded from every listing regardless of the
// is_visible flag.  The status is a tagged state rather than a
// boolean so future states (e.g. ARCHIVED) fit without schema churn.
const (
    ReviewStatusActive  = "ACTIVE"
    ReviewStatusDeleted = "DELETED"
)

// Review represents a user's rating of one seating option at an
// establishment.  Vote counters only ever grow through the voting
// endpoint; there is no retraction.  This struct corresponds to a
// row in the `reviews` table.
//
// Fields:
//  ID              – primary key identifier.
//  EstablishmentID – venue this seat belongs to.
//  AuthorID        – user who wrote the review.
//  SeatType        – kind of seating (booth, counter, patio, ...).
//  Capacity        – how many people the seat fits (>= 1).
//  ComfortRating   – author's comfort verdict.
//  HasPowerOutlet  – whether a power outlet is reachable.
//  NoiseLevel      – optional noise description.
//  Description     – optional free-form text.
//  Upvotes         – monotonically non-decreasing up counter.
//  Downvotes       – monotonically non-decreasing down counter.
//  IsVisible       – admin-controlled visibility flag.
//  Status          – ACTIVE or DELETED.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Review struct {
    ID              uint64    // reviews.id
    EstablishmentID uint64    // reviews.establishment_id
    AuthorID        uint64    // reviews.author_id
    SeatType        string    // reviews.seat_type
    Capacity        uint32    // reviews.capacity
    ComfortRating   string    // reviews.comfort_rating
    HasPowerOutlet  bool      // reviews.has_power_outlet
    NoiseLevel      *string   // reviews.noise_level (nullable)
    Description     *string   // reviews.description (nullable)
    Upvotes         uint32    // reviews.upvotes
    Downvotes       uint32    // reviews.downvotes
    IsVisible       bool      // reviews.is_visible
    Status          string    // reviews.status
    CreatedAt       time.Time // reviews.created_at
    UpdatedAt       time.Time // reviews.updated_at
}

// RelevanceScore orders review listings.  It rewards both a high
// approval ratio and higher vote volume:
//
//	score = (up / (up+down)) * log10(up+down+1)
//
// and is defined as 0 when no votes have been cast.  The +1 inside
// the log keeps a single-vote review off log10(1)=0.
func RelevanceScore(upvotes, downvotes uint32) float64 {
    total := float64(upvotes) + float64(downvotes)
    if total == 0 {
        return 0
    }
    return (float64(upvotes) / total) * math.Log10(total+1)
}

// Score returns the review's relevance score.
func (r *Review) Score() float64 {
    return RelevanceScore(r.Upvotes, r.Downvotes)
}
