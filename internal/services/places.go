package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"encoding/json"
)

// Adapter failures are non-fatal for the poll loop: the caller treats
// either error as "no new information" and keeps the session pending.
var (
	ErrSourceUnavailable = errors.New("review source unavailable")
	ErrSourceRejected    = errors.New("review source rejected request")
)

// CandidateReview is one review fetched from the external platform.
// Candidates are never persisted; only a matched one is copied into a
// Review record.
type CandidateReview struct {
	Rating   int
	Text     string
	Author   string
	PostedAt time.Time
	ReviewID string
}

// ReviewSource lists recent reviews for a venue, newest first.
type ReviewSource interface {
	ListRecentReviews(ctx context.Context, placeID string) ([]CandidateReview, error)
}

// PlacesService queries the Google Places Details API for venue reviews.
type PlacesService struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewPlacesService(baseURL, apiKey string) *PlacesService {
	return &PlacesService{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type placeDetailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Reviews []placeReview `json:"reviews"`
	} `json:"result"`
}

type placeReview struct {
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Text       string `json:"text"`
	Time       int64  `json:"time"` // unix seconds
}

func (s *PlacesService) ListRecentReviews(ctx context.Context, placeID string) ([]CandidateReview, error) {
	endpoint := fmt.Sprintf("%s/place/details/json?place_id=%s&fields=reviews&reviews_sort=newest&key=%s",
		s.baseURL, url.QueryEscape(placeID), url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrSourceRejected, resp.StatusCode)
	}

	var details placeDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	switch details.Status {
	case "OK", "ZERO_RESULTS":
	case "OVER_QUERY_LIMIT", "REQUEST_DENIED", "INVALID_REQUEST", "NOT_FOUND":
		return nil, fmt.Errorf("%w: %s %s", ErrSourceRejected, details.Status, details.ErrorMessage)
	default:
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, details.Status)
	}

	candidates := make([]CandidateReview, 0, len(details.Result.Reviews))
	for _, r := range details.Result.Reviews {
		candidates = append(candidates, CandidateReview{
			Rating:   r.Rating,
			Text:     r.Text,
			Author:   r.AuthorName,
			PostedAt: time.Unix(r.Time, 0),
		})
	}

	// The API usually returns newest first; the matcher depends on it.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PostedAt.After(candidates[j].PostedAt)
	})

	return candidates, nil
}
