// Package search wraps the external business directory the app pulls
// venue data from. The provider is treated as a fallible, possibly
// slow dependency: every call runs under a timeout and failures map
// to the dependency-failure error kind instead of hanging a request.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ryofujimura/Oshiri-sub000/internal/model"
	"github.com/ryofujimura/Oshiri-sub000/internal/repository"
)

// Client calls the directory's business-search endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewClient builds a directory client with the given timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Query is the subset of provider search filters the app exposes.
type Query struct {
	Term      string
	Latitude  float64
	Longitude float64
	Limit     int
}

// provider wire format (businesses/search response)
type searchResponse struct {
	Businesses []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Location struct {
			Address1 string `json:"address1"`
			City     string `json:"city"`
			State    string `json:"state"`
			ZipCode  string `json:"zip_code"`
		} `json:"location"`
		Coordinates struct {
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		} `json:"coordinates"`
		Rating       *float64 `json:"rating"`
		DisplayPhone string   `json:"display_phone"`
	} `json:"businesses"`
}

type errorResponse struct {
	Error struct {
		Description string `json:"description"`
	} `json:"error"`
}

// Search queries the directory and maps results onto local
// establishment values ready for find-or-create. Timeouts, transport
// errors and non-2xx answers all surface as ErrDependencyFailure,
// carrying the provider's description when it sent one.
func (c *Client) Search(ctx context.Context, q Query) ([]model.Establishment, error) {
	params := url.Values{}
	params.Set("term", q.Term)
	params.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/businesses/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrDependencyFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		if json.NewDecoder(resp.Body).Decode(&er) == nil && er.Error.Description != "" {
			return nil, fmt.Errorf("%w: %s", repository.ErrDependencyFailure, er.Error.Description)
		}
		return nil, fmt.Errorf("%w: provider returned status %d", repository.ErrDependencyFailure, resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: malformed provider response", repository.ErrDependencyFailure)
	}

	out := make([]model.Establishment, 0, len(sr.Businesses))
	for _, b := range sr.Businesses {
		out = append(out, model.Establishment{
			ExternalID:     b.ID,
			Name:           b.Name,
			Address:        b.Location.Address1,
			City:           b.Location.City,
			State:          b.Location.State,
			ZipCode:        b.Location.ZipCode,
			Latitude:       b.Coordinates.Latitude,
			Longitude:      b.Coordinates.Longitude,
			ExternalRating: b.Rating,
			Phone:          b.DisplayPhone,
		})
	}
	return out, nil
}
