package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/voxgeo/server/models"
)

func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func cpf(s string) *string { return &s }

func TestMemoryStoreVotes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore().WithClock(tickingClock())

	require.NoError(t, s.CreateVote(ctx, &models.VoteIntention{CandidateID: 1, VoterCPF: cpf("11122233344")}))
	require.NoError(t, s.CreateVote(ctx, &models.VoteIntention{CandidateID: 2, VoterCPF: cpf("55566677788")}))
	require.NoError(t, s.CreateVote(ctx, &models.VoteIntention{CandidateID: 2}))
	require.NoError(t, s.CreateVote(ctx, &models.VoteIntention{CandidateID: 1}))

	err := s.CreateVote(ctx, &models.VoteIntention{CandidateID: 2, VoterCPF: cpf("11122233344")})
	require.ErrorIs(t, err, ErrDuplicate)

	votes, err := s.ListVotes(ctx, 0)
	require.NoError(t, err)
	require.Len(t, votes, 4)
	require.Equal(t, uint(4), votes[0].ID)
	require.Equal(t, uint(1), votes[3].ID)

	votes, err = s.ListVotes(ctx, 2)
	require.NoError(t, err)
	require.Len(t, votes, 2)

	markers, err := s.ListMarkers(ctx)
	require.NoError(t, err)
	require.Len(t, markers, 4)
}

func TestMemoryStoreConcurrentDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.CreateVote(ctx, &models.VoteIntention{CandidateID: 1, VoterCPF: cpf("11122233344")})
		}()
	}
	wg.Wait()
	close(errs)

	ok, dup := 0, 0
	for err := range errs {
		if err == nil {
			ok++
		} else if errors.Is(err, ErrDuplicate) {
			dup++
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 9, dup)
}

func TestMemoryStoreResetVotes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateVote(ctx, &models.VoteIntention{CandidateID: 1, VoterCPF: cpf("11122233344")}))

	rows := make([]models.VoteIntention, 0, 3)
	for i := 0; i < 3; i++ {
		rows = append(rows, models.VoteIntention{CandidateID: 2, VoterCPF: cpf(fmt.Sprintf("%011d", i))})
	}
	require.NoError(t, s.ResetVotes(ctx, rows))

	votes, err := s.ListVotes(ctx, 0)
	require.NoError(t, err)
	require.Len(t, votes, 3)
	for _, v := range votes {
		require.Equal(t, 2, v.CandidateID)
	}

	err = s.ResetVotes(ctx, []models.VoteIntention{{VoterCPF: cpf("1")}, {VoterCPF: cpf("1")}})
	require.ErrorIs(t, err, ErrDuplicate)
	votes, _ = s.ListVotes(ctx, 0)
	require.Len(t, votes, 3)
}

func TestMemoryStoreSurveys(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore().WithClock(tickingClock())

	first := &models.Survey{Title: "A", Slug: "a-1", Active: true, QuestionsSchema: datatypes.JSONSlice[models.Question]{}}
	second := &models.Survey{Title: "B", Slug: "b-1", Active: false}
	require.NoError(t, s.CreateSurvey(ctx, first))
	require.NoError(t, s.CreateSurvey(ctx, second))
	require.NotEmpty(t, first.ID)

	err := s.CreateSurvey(ctx, &models.Survey{Title: "C", Slug: "a-1"})
	require.ErrorIs(t, err, ErrDuplicate)

	list, err := s.ListSurveys(ctx, MaxSurveyList)
	require.NoError(t, err)
	require.Equal(t, []string{"B", "A"}, []string{list[0].Title, list[1].Title})

	got, err := s.GetSurveyBySlug(ctx, "a-1")
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)

	_, err = s.GetSurveyBySlug(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	latest, err := s.LatestActiveSurvey(ctx)
	require.NoError(t, err)
	require.Equal(t, "A", latest.Title)
}

func TestMemoryStoreResponsesNewestFirst(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore().WithClock(func() time.Time { return fixed })

	for _, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, s.CreateResponse(ctx, &models.SurveyResponse{ID: id, SurveyID: "s"}))
	}
	require.NoError(t, s.CreateResponse(ctx, &models.SurveyResponse{ID: "other", SurveyID: "t"}))

	got, err := s.ListResponses(ctx, "s", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"r3", "r2", "r1"}, []string{got[0].ID, got[1].ID, got[2].ID})
	require.Equal(t, models.OriginDirect, got[0].OriginSource)

	empty, err := s.ListResponses(ctx, "none", 0)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	require.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	require.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	require.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: vote_intentions.voter_cpf")))
	require.False(t, IsUniqueViolation(errors.New("connection refused")))
	require.False(t, IsUniqueViolation(nil))
}

func TestTranslate(t *testing.T) {
	require.ErrorIs(t, translate("op", gorm.ErrRecordNotFound), ErrNotFound)
	require.ErrorIs(t, translate("op", &pgconn.PgError{Code: "23505"}), ErrDuplicate)
	boom := errors.New("boom")
	require.ErrorIs(t, translate("op", boom), boom)
}
