package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevanceScore(t *testing.T) {
	tests := []struct {
		name string
		up   uint32
		down uint32
		want float64
	}{
		{"no votes", 0, 0, 0},
		{"single upvote", 1, 0, 0.30103},
		{"single downvote", 0, 1, 0},
		{"nine up one down", 9, 1, 0.93725},
		{"even split", 5, 5, 0.52070},
		{"all down", 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RelevanceScore(tt.up, tt.down), 1e-4)
		})
	}
}

func TestRelevanceScore_VolumeBreaksRatioTies(t *testing.T) {
	// same 100% approval, more votes ranks higher
	assert.Greater(t, RelevanceScore(10, 0), RelevanceScore(1, 0))
	// a well-voted mixed review outranks a single lonely upvote
	assert.Greater(t, RelevanceScore(9, 1), RelevanceScore(1, 0))
}

func TestScoreMatchesRelevanceScore(t *testing.T) {
	r := &Review{Upvotes: 7, Downvotes: 3}
	assert.Equal(t, RelevanceScore(7, 3), r.Score())
}
