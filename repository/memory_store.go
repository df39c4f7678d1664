package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voxgeo/server/models"
)

// MemoryStore keeps everything in process. It enforces the same unique
// constraints as the database schema.
type MemoryStore struct {
	mu        sync.RWMutex
	now       func() time.Time
	nextVote  uint
	votes     []models.VoteIntention
	surveys   []models.Survey
	responses []models.SurveyResponse
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now, nextVote: 1}
}

// WithClock replaces the timestamp source; used by tests to get distinct,
// ordered creation times.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) CreateVote(_ context.Context, vote *models.VoteIntention) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if vote.VoterCPF != nil {
		for _, v := range s.votes {
			if v.VoterCPF != nil && *v.VoterCPF == *vote.VoterCPF {
				return fmt.Errorf("create vote: %w", ErrDuplicate)
			}
		}
	}
	s.insertVote(vote)
	return nil
}

func (s *MemoryStore) insertVote(vote *models.VoteIntention) {
	vote.ID = s.nextVote
	s.nextVote++
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = s.now()
	}
	s.votes = append(s.votes, *vote)
}

func (s *MemoryStore) ListMarkers(_ context.Context) ([]models.Marker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Marker, 0, len(s.votes))
	for _, v := range s.votes {
		out = append(out, models.Marker{CandidateID: v.CandidateID, Latitude: v.Latitude, Longitude: v.Longitude})
	}
	return out, nil
}

func (s *MemoryStore) ListVotes(_ context.Context, limit int) ([]models.VoteIntention, error) {
	s.mu.RLock()
	out := append([]models.VoteIntention(nil), s.votes...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return truncate(out, limit), nil
}

func (s *MemoryStore) ResetVotes(_ context.Context, rows []models.VoteIntention) error {
	seen := map[string]bool{}
	for _, r := range rows {
		if r.VoterCPF == nil {
			continue
		}
		if seen[*r.VoterCPF] {
			return fmt.Errorf("reset votes: %w", ErrDuplicate)
		}
		seen[*r.VoterCPF] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes = nil
	for i := range rows {
		s.insertVote(&rows[i])
	}
	return nil
}

func (s *MemoryStore) CreateSurvey(_ context.Context, survey *models.Survey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.surveys {
		if existing.Slug == survey.Slug {
			return fmt.Errorf("create survey: %w", ErrDuplicate)
		}
	}
	if survey.ID == "" {
		survey.ID = uuid.NewString()
	}
	if survey.CreatedAt.IsZero() {
		survey.CreatedAt = s.now()
	}
	s.surveys = append(s.surveys, *survey)
	return nil
}

func (s *MemoryStore) ListSurveys(_ context.Context, limit int) ([]models.Survey, error) {
	s.mu.RLock()
	out := make([]models.Survey, 0, len(s.surveys))
	for i := len(s.surveys) - 1; i >= 0; i-- {
		out = append(out, s.surveys[i])
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

func (s *MemoryStore) GetSurveyBySlug(_ context.Context, slug string) (*models.Survey, error) {
	return s.findSurvey(func(sv models.Survey) bool { return sv.Slug == slug })
}

func (s *MemoryStore) GetSurveyByID(_ context.Context, id string) (*models.Survey, error) {
	return s.findSurvey(func(sv models.Survey) bool { return sv.ID == id })
}

func (s *MemoryStore) LatestActiveSurvey(ctx context.Context) (*models.Survey, error) {
	surveys, _ := s.ListSurveys(ctx, 0)
	for _, sv := range surveys {
		if sv.Active {
			return &sv, nil
		}
	}
	return nil, fmt.Errorf("latest active survey: %w", ErrNotFound)
}

func (s *MemoryStore) findSurvey(match func(models.Survey) bool) (*models.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sv := range s.surveys {
		if match(sv) {
			found := sv
			return &found, nil
		}
	}
	return nil, fmt.Errorf("get survey: %w", ErrNotFound)
}

func (s *MemoryStore) CreateResponse(_ context.Context, response *models.SurveyResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if response.ID == "" {
		response.ID = uuid.NewString()
	}
	if response.OriginSource == "" {
		response.OriginSource = models.OriginDirect
	}
	if response.CreatedAt.IsZero() {
		response.CreatedAt = s.now()
	}
	s.responses = append(s.responses, *response)
	return nil
}

func (s *MemoryStore) ListResponses(_ context.Context, surveyID string, limit int) ([]models.SurveyResponse, error) {
	s.mu.RLock()
	var out []models.SurveyResponse
	for i := len(s.responses) - 1; i >= 0; i-- {
		if s.responses[i].SurveyID == surveyID {
			out = append(out, s.responses[i])
		}
	}
	s.mu.RUnlock()

	// walked backwards so equal timestamps stay newest first
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	if items == nil {
		return []T{}
	}
	return items
}
