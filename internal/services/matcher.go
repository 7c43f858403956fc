package services

import (
	"strings"
	"time"

	"github.com/reviewrise/reviewrise-backend/internal/models"
)

// The matcher links an external review to a session without any
// authenticated identity link, triangulating via rating, recency and the
// customer's self-reported draft text.
const (
	// MinRewardStars is the lowest rating eligible for the reward path.
	// 1-3 star reviews route to private feedback instead.
	MinRewardStars = 4

	// matchGraceWindow tolerates clock skew between our session clock
	// and the platform's review timestamps.
	matchGraceWindow = 15 * time.Minute

	// matchScoreThreshold is the minimum text score for a candidate to
	// qualify.
	matchScoreThreshold = 0.5

	// shortDraftScore is assigned when the draft has no usable words;
	// rating and recency carry the signal on their own.
	shortDraftScore = 0.7

	// minUsableWordLen: draft words this short ("a", "is", "ok") are
	// too common to discriminate and are ignored.
	minUsableWordLen = 2
)

// ratingQualifies rejects candidates below the reward threshold.
func ratingQualifies(rating int) bool {
	return rating >= MinRewardStars
}

// postedWithinWindow rejects reviews posted before the session started,
// minus the grace window.
func postedWithinWindow(sessionCreated, posted time.Time) bool {
	return !posted.Before(sessionCreated.Add(-matchGraceWindow))
}

// textScore scores how well a candidate's text matches the session draft.
// Exact (case/space-insensitive) equality scores 1.0. Otherwise the score
// is the fraction of usable draft words found as substrings of the
// candidate text. Drafts with no usable words score shortDraftScore.
func textScore(draft, candidate string) float64 {
	draft = strings.ToLower(strings.TrimSpace(draft))
	candidate = strings.ToLower(strings.TrimSpace(candidate))

	if draft != "" && draft == candidate {
		return 1.0
	}

	var usable []string
	for _, word := range strings.Fields(draft) {
		if len(word) > minUsableWordLen {
			usable = append(usable, word)
		}
	}
	if len(usable) == 0 {
		return shortDraftScore
	}

	found := 0
	for _, word := range usable {
		if strings.Contains(candidate, word) {
			found++
		}
	}
	return float64(found) / float64(len(usable))
}

// MatchReview picks at most one candidate for the session. Candidates are
// assumed newest first, so the most recent qualifying review wins. The
// returned int is the matched star rating.
func MatchReview(session *models.VerificationSession, candidates []CandidateReview) (*CandidateReview, int, bool) {
	for i := range candidates {
		c := &candidates[i]
		if !ratingQualifies(c.Rating) {
			continue
		}
		if !postedWithinWindow(session.CreatedAt, c.PostedAt) {
			continue
		}
		if textScore(session.ReviewText, c.Text) < matchScoreThreshold {
			continue
		}
		return c, c.Rating, true
	}
	return nil, 0, false
}
