// Package repository is the record store: vote intentions, surveys and
// survey responses.
package repository

import (
	"context"
	"errors"

	"github.com/voxgeo/server/models"
)

var (
	// ErrDuplicate reports a unique-constraint violation (CPF or slug).
	ErrDuplicate = errors.New("duplicate record")
	ErrNotFound  = errors.New("record not found")
)

// Limits applied by the list endpoints.
const (
	MaxVoterList  = 1000
	MaxSurveyList = 50
)

type Store interface {
	CreateVote(ctx context.Context, vote *models.VoteIntention) error
	ListMarkers(ctx context.Context) ([]models.Marker, error)
	// ListVotes returns the newest votes first.
	ListVotes(ctx context.Context, limit int) ([]models.VoteIntention, error)
	// ResetVotes deletes every vote intention and inserts rows, atomically
	// where the backend allows it.
	ResetVotes(ctx context.Context, rows []models.VoteIntention) error

	CreateSurvey(ctx context.Context, survey *models.Survey) error
	ListSurveys(ctx context.Context, limit int) ([]models.Survey, error)
	GetSurveyBySlug(ctx context.Context, slug string) (*models.Survey, error)
	GetSurveyByID(ctx context.Context, id string) (*models.Survey, error)
	// LatestActiveSurvey returns ErrNotFound when no survey is active.
	LatestActiveSurvey(ctx context.Context) (*models.Survey, error)

	CreateResponse(ctx context.Context, response *models.SurveyResponse) error
	// ListResponses returns the newest responses first; limit <= 0 means all.
	ListResponses(ctx context.Context, surveyID string, limit int) ([]models.SurveyResponse, error)

	Ping(ctx context.Context) error
}
