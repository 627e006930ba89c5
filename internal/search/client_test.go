package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryofujimura/Oshiri-sub000/internal/repository"
)

func TestSearch_MapsBusinesses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/businesses/search", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "coffee", r.URL.Query().Get("term"))
		assert.Equal(t, "37.8", r.URL.Query().Get("latitude"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"businesses": [
			{"id": "abc-1", "name": "Blue Bottle",
			 "location": {"address1": "1 Main St", "city": "Oakland", "state": "CA", "zip_code": "94607"},
			 "coordinates": {"latitude": 37.8, "longitude": -122.27},
			 "rating": 4.5, "display_phone": "(510) 555-0100"},
			{"id": "abc-2", "name": "No Coordinates Cafe",
			 "location": {"address1": "2 Side St", "city": "Oakland", "state": "CA", "zip_code": "94607"},
			 "coordinates": {}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", time.Second)
	got, err := c.Search(context.Background(), Query{Term: "coffee", Latitude: 37.8, Longitude: -122.27, Limit: 5})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "abc-1", got[0].ExternalID)
	assert.Equal(t, "Blue Bottle", got[0].Name)
	require.NotNil(t, got[0].Latitude)
	assert.InDelta(t, 37.8, *got[0].Latitude, 1e-9)
	require.NotNil(t, got[0].ExternalRating)
	assert.InDelta(t, 4.5, *got[0].ExternalRating, 1e-9)

	// absent provider fields stay nil instead of zero
	assert.Nil(t, got[1].Latitude)
	assert.Nil(t, got[1].ExternalRating)
}

func TestSearch_ProviderErrorCarriesDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"description": "Please specify a location"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.Search(context.Background(), Query{Term: "coffee"})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrDependencyFailure)
	assert.Contains(t, err.Error(), "Please specify a location")
}

func TestSearch_OpaqueProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.Search(context.Background(), Query{Term: "coffee"})
	assert.ErrorIs(t, err, repository.ErrDependencyFailure)
	assert.Contains(t, err.Error(), "status 500")
}

func TestSearch_TimeoutSurfacesAsDependencyFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 20*time.Millisecond)
	_, err := c.Search(context.Background(), Query{Term: "coffee"})
	assert.ErrorIs(t, err, repository.ErrDependencyFailure)
}

func TestSearch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"businesses": [`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.Search(context.Background(), Query{Term: "coffee"})
	assert.ErrorIs(t, err, repository.ErrDependencyFailure)
}
