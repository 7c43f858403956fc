package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestListRecentReviewsParsesAndSorts(t *testing.T) {
	now := time.Now().Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("place_id"); got != "ChIJ123" {
			t.Errorf("unexpected place_id %q", got)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("unexpected api key %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"result": {"reviews": [
				{"author_name": "Older", "rating": 5, "text": "good", "time": ` + strconv.FormatInt(now-600, 10) + `},
				{"author_name": "Newest", "rating": 4, "text": "great", "time": ` + strconv.FormatInt(now, 10) + `}
			]}
		}`))
	}))
	defer server.Close()

	svc := NewPlacesService(server.URL, "test-key")
	reviews, err := svc.ListRecentReviews(context.Background(), "ChIJ123")
	if err != nil {
		t.Fatalf("ListRecentReviews failed: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
	if reviews[0].Author != "Newest" {
		t.Errorf("expected newest first, got %q", reviews[0].Author)
	}
	if reviews[0].Rating != 4 || reviews[1].Rating != 5 {
		t.Errorf("rating mismatch: %d / %d", reviews[0].Rating, reviews[1].Rating)
	}
}

func TestListRecentReviewsZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "result": {}}`))
	}))
	defer server.Close()

	svc := NewPlacesService(server.URL, "test-key")
	reviews, err := svc.ListRecentReviews(context.Background(), "ChIJ123")
	if err != nil {
		t.Fatalf("ZERO_RESULTS is not an error: %v", err)
	}
	if len(reviews) != 0 {
		t.Errorf("expected no reviews, got %d", len(reviews))
	}
}

func TestListRecentReviewsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "bad key"}`))
	}))
	defer server.Close()

	svc := NewPlacesService(server.URL, "bad-key")
	if _, err := svc.ListRecentReviews(context.Background(), "ChIJ123"); !errors.Is(err, ErrSourceRejected) {
		t.Errorf("expected ErrSourceRejected, got %v", err)
	}
}

func TestListRecentReviewsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewPlacesService(server.URL, "test-key")
	if _, err := svc.ListRecentReviews(context.Background(), "ChIJ123"); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestListRecentReviewsUnreachable(t *testing.T) {
	svc := NewPlacesService("http://127.0.0.1:1", "test-key")
	if _, err := svc.ListRecentReviews(context.Background(), "ChIJ123"); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}
