package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewVisibleTo(t *testing.T) {
	authorID := uint64(100)
	tests := []struct {
		name      string
		status    string
		isVisible bool
		viewer    Viewer
		want      bool
	}{
		{"visible active to anonymous", ReviewStatusActive, true, Anonymous, true},
		{"hidden active to anonymous", ReviewStatusActive, false, Anonymous, false},
		{"hidden active to other user", ReviewStatusActive, false, Viewer{UserID: 200}, false},
		{"hidden active to author", ReviewStatusActive, false, Viewer{UserID: authorID}, true},
		{"hidden active to admin", ReviewStatusActive, false, Viewer{UserID: 1, IsAdmin: true}, true},
		{"deleted to author", ReviewStatusDeleted, true, Viewer{UserID: authorID}, false},
		{"deleted to admin", ReviewStatusDeleted, true, Viewer{UserID: 1, IsAdmin: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Review{AuthorID: authorID, IsVisible: tt.isVisible, Status: tt.status}
			assert.Equal(t, tt.want, ReviewVisibleTo(r, tt.viewer))
		})
	}
}

func TestImageVisibleTo(t *testing.T) {
	parent := &Review{AuthorID: 100, IsVisible: true, Status: ReviewStatusActive}
	tests := []struct {
		name       string
		moderation string
		isVisible  bool
		viewer     Viewer
		want       bool
	}{
		{"approved visible to anonymous", ModerationApproved, true, Anonymous, true},
		{"approved hidden to anonymous", ModerationApproved, false, Anonymous, false},
		{"pending to anonymous", ModerationPending, true, Anonymous, false},
		{"rejected to anonymous", ModerationRejected, true, Anonymous, false},
		{"pending to review author", ModerationPending, true, Viewer{UserID: 100}, true},
		{"rejected to admin", ModerationRejected, true, Viewer{UserID: 1, IsAdmin: true}, true},
		{"pending to other user", ModerationPending, true, Viewer{UserID: 200}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := &Image{ReviewID: parent.ID, ModerationStatus: tt.moderation, IsVisible: tt.isVisible}
			assert.Equal(t, tt.want, ImageVisibleTo(img, parent, tt.viewer))
		})
	}
}

func TestImageVisibleTo_HiddenParentHidesEverything(t *testing.T) {
	parent := &Review{AuthorID: 100, IsVisible: false, Status: ReviewStatusActive}
	img := &Image{ModerationStatus: ModerationApproved, IsVisible: true}

	// other users lose the image with the review
	assert.False(t, ImageVisibleTo(img, parent, Viewer{UserID: 200}))
	// author and admin still see both
	assert.True(t, ImageVisibleTo(img, parent, Viewer{UserID: 100}))
	assert.True(t, ImageVisibleTo(img, parent, Viewer{UserID: 1, IsAdmin: true}))

	// a deleted parent hides images from everyone
	parent.Status = ReviewStatusDeleted
	assert.False(t, ImageVisibleTo(img, parent, Viewer{UserID: 1, IsAdmin: true}))
}

func TestProposedFieldsApplyTo(t *testing.T) {
	noise := "quiet"
	seat := "counter"
	r := &Review{SeatType: "booth", Capacity: 4, ComfortRating: "comfortable", HasPowerOutlet: true}

	p := ProposedFields{SeatType: &seat, NoiseLevel: &noise}
	assert.False(t, p.Empty())
	p.ApplyTo(r)

	assert.Equal(t, "counter", r.SeatType)
	assert.Equal(t, &noise, r.NoiseLevel)
	// nil fields leave the review alone
	assert.Equal(t, uint32(4), r.Capacity)
	assert.Equal(t, "comfortable", r.ComfortRating)
	assert.True(t, r.HasPowerOutlet)

	assert.True(t, ProposedFields{}.Empty())
}
