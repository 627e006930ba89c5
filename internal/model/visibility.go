package model

// Viewer identifies who is asking for data.  The zero value is the
// anonymous viewer.  Handlers build it from the JWT claims injected
// by the auth middleware; every read path that returns reviews or
// images filters through this projection.
type Viewer struct {
    UserID  uint64 // 0 for anonymous
    IsAdmin bool
}

// Anonymous is the viewer used when no valid session is present.
var Anonymous = Viewer{}

// ReviewVisibleTo reports whether the review may be shown to the
// viewer.  Deleted reviews are hidden from everyone; hidden reviews
// remain visible to their author and to admins.
func ReviewVisibleTo(r *Review, v Viewer) bool {
    if r.Status != ReviewStatusActive {
        return false
    }
    return r.IsVisible || v.IsAdmin || (v.UserID != 0 && v.UserID == r.AuthorID)
}

// ImageVisibleTo reports whether the image may be shown to the viewer
// together with its parent review.  Admins and the review's author
// see every image regardless of moderation state; everyone else only
// sees approved, visible ones.
func ImageVisibleTo(img *Image, parent *Review, v Viewer) bool {
    if !ReviewVisibleTo(parent, v) {
        return false
    }
    if v.IsAdmin || (v.UserID != 0 && v.UserID == parent.AuthorID) {
        return true
    }
    return img.ModerationStatus == ModerationApproved && img.IsVisible
}
