package services

import (
	"testing"
	"time"

	"github.com/reviewrise/reviewrise-backend/internal/models"
)

func TestTextScore(t *testing.T) {
	tests := []struct {
		name      string
		draft     string
		candidate string
		want      float64
	}{
		{"exact match", "Great coffee!", "great coffee!", 1.0},
		{"exact with whitespace", "  loved it  ", "loved it", 1.0},
		{"full word overlap", "great coffee fast service", "Great coffee, really fast service here", 1.0},
		{"partial overlap", "great coffee fast service", "great place, fast delivery", 0.5},
		{"no overlap", "amazing pasta dinner", "terrible experience overall", 0.0},
		{"empty draft", "", "any review text at all", 0.7},
		{"only short words", "it is ok", "whatever they wrote", 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := textScore(tt.draft, tt.candidate)
			if got != tt.want {
				t.Errorf("textScore(%q, %q) = %v, want %v", tt.draft, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestRatingQualifies(t *testing.T) {
	for rating, want := range map[int]bool{1: false, 3: false, 4: true, 5: true} {
		if got := ratingQualifies(rating); got != want {
			t.Errorf("ratingQualifies(%d) = %v, want %v", rating, got, want)
		}
	}
}

func TestPostedWithinWindow(t *testing.T) {
	created := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if !postedWithinWindow(created, created.Add(2*time.Minute)) {
		t.Error("review posted after session start should qualify")
	}
	if !postedWithinWindow(created, created.Add(-10*time.Minute)) {
		t.Error("review posted within the grace window should qualify")
	}
	if postedWithinWindow(created, created.Add(-20*time.Minute)) {
		t.Error("review posted well before the session should not qualify")
	}
}

func TestMatchReviewSkipsLowRatings(t *testing.T) {
	session := &models.VerificationSession{
		ReviewText: "great coffee",
		CreatedAt:  time.Now(),
	}
	candidates := []CandidateReview{
		{Rating: 3, Text: "great coffee", PostedAt: time.Now()},
		{Rating: 2, Text: "great coffee", PostedAt: time.Now()},
	}

	if _, _, ok := MatchReview(session, candidates); ok {
		t.Error("candidates below 4 stars must never match")
	}
}

func TestMatchReviewSkipsStaleCandidates(t *testing.T) {
	now := time.Now()
	session := &models.VerificationSession{
		ReviewText: "great coffee",
		CreatedAt:  now,
	}
	candidates := []CandidateReview{
		{Rating: 5, Text: "great coffee", PostedAt: now.Add(-20 * time.Minute)},
	}

	if _, _, ok := MatchReview(session, candidates); ok {
		t.Error("a review posted 20 minutes before the session must not match")
	}
}

func TestMatchReviewFirstQualifyingWins(t *testing.T) {
	now := time.Now()
	session := &models.VerificationSession{
		ReviewText: "great coffee and fast service",
		CreatedAt:  now,
	}
	// Newest first, as the source delivers them.
	candidates := []CandidateReview{
		{Rating: 2, Text: "great coffee and fast service", PostedAt: now.Add(3 * time.Minute)},
		{Rating: 5, Text: "Great coffee, fast service, will be back", PostedAt: now.Add(2 * time.Minute), Author: "winner"},
		{Rating: 5, Text: "great coffee and fast service", PostedAt: now.Add(1 * time.Minute), Author: "older"},
	}

	matched, stars, ok := MatchReview(session, candidates)
	if !ok {
		t.Fatal("expected a match")
	}
	if matched.Author != "winner" {
		t.Errorf("expected the most recent qualifying candidate, got %q", matched.Author)
	}
	if stars != 5 {
		t.Errorf("expected 5 stars, got %d", stars)
	}
}

func TestMatchReviewEmptyDraft(t *testing.T) {
	now := time.Now()
	session := &models.VerificationSession{
		ReviewText: "",
		CreatedAt:  now,
	}
	candidates := []CandidateReview{
		{Rating: 4, Text: "nice place", PostedAt: now.Add(time.Minute)},
	}

	matched, stars, ok := MatchReview(session, candidates)
	if !ok {
		t.Fatal("empty draft should still match on rating and recency")
	}
	if matched == nil || stars != 4 {
		t.Errorf("expected 4-star match, got stars=%d", stars)
	}
}

func TestMatchReviewNoTextOverlap(t *testing.T) {
	now := time.Now()
	session := &models.VerificationSession{
		ReviewText: "amazing pasta dinner tonight",
		CreatedAt:  now,
	}
	candidates := []CandidateReview{
		{Rating: 5, Text: "worst service ever seen", PostedAt: now.Add(time.Minute)},
	}

	if _, _, ok := MatchReview(session, candidates); ok {
		t.Error("zero text overlap must not match")
	}
}
