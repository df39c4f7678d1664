package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/voxgeo/server/models"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the three tables.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(
		&models.VoteIntention{},
		&models.Survey{},
		&models.SurveyResponse{},
	)
}

func (s *GormStore) CreateVote(ctx context.Context, vote *models.VoteIntention) error {
	if err := s.db.WithContext(ctx).Create(vote).Error; err != nil {
		return translate("create vote", err)
	}
	return nil
}

func (s *GormStore) ListMarkers(ctx context.Context) ([]models.Marker, error) {
	var markers []models.Marker
	err := s.db.WithContext(ctx).
		Model(&models.VoteIntention{}).
		Select("candidate_id, latitude, longitude").
		Scan(&markers).Error
	if err != nil {
		return nil, translate("list markers", err)
	}
	return markers, nil
}

func (s *GormStore) ListVotes(ctx context.Context, limit int) ([]models.VoteIntention, error) {
	var votes []models.VoteIntention
	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&votes).Error; err != nil {
		return nil, translate("list votes", err)
	}
	return votes, nil
}

func (s *GormStore) ResetVotes(ctx context.Context, rows []models.VoteIntention) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id <> ?", 0).Delete(&models.VoteIntention{}).Error; err != nil {
			return fmt.Errorf("clear vote intentions: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("insert vote intentions: %w", err)
		}
		return nil
	})
	if err != nil {
		return translate("reset votes", err)
	}
	return nil
}

func (s *GormStore) CreateSurvey(ctx context.Context, survey *models.Survey) error {
	if survey.ID == "" {
		survey.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(survey).Error; err != nil {
		return translate("create survey", err)
	}
	return nil
}

func (s *GormStore) ListSurveys(ctx context.Context, limit int) ([]models.Survey, error) {
	var surveys []models.Survey
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&surveys).Error; err != nil {
		return nil, translate("list surveys", err)
	}
	return surveys, nil
}

func (s *GormStore) GetSurveyBySlug(ctx context.Context, slug string) (*models.Survey, error) {
	return s.firstSurvey(ctx, "get survey by slug", "slug = ?", slug)
}

func (s *GormStore) GetSurveyByID(ctx context.Context, id string) (*models.Survey, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return s.firstSurvey(ctx, "get survey by id", "id = ?", id)
}

func (s *GormStore) LatestActiveSurvey(ctx context.Context) (*models.Survey, error) {
	var survey models.Survey
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		First(&survey).Error
	if err != nil {
		return nil, translate("latest active survey", err)
	}
	return &survey, nil
}

func (s *GormStore) firstSurvey(ctx context.Context, op, query string, arg any) (*models.Survey, error) {
	var survey models.Survey
	if err := s.db.WithContext(ctx).Where(query, arg).First(&survey).Error; err != nil {
		return nil, translate(op, err)
	}
	return &survey, nil
}

func (s *GormStore) CreateResponse(ctx context.Context, response *models.SurveyResponse) error {
	if response.ID == "" {
		response.ID = uuid.NewString()
	}
	if response.OriginSource == "" {
		response.OriginSource = models.OriginDirect
	}
	if err := s.db.WithContext(ctx).Create(response).Error; err != nil {
		return translate("create survey response", err)
	}
	return nil
}

func (s *GormStore) ListResponses(ctx context.Context, surveyID string, limit int) ([]models.SurveyResponse, error) {
	var responses []models.SurveyResponse
	q := s.db.WithContext(ctx).Where("survey_id = ?", surveyID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&responses).Error; err != nil {
		return nil, translate("list survey responses", err)
	}
	return responses, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// translate maps driver errors onto the package sentinels.
func translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsUniqueViolation recognises postgres and sqlite unique-constraint errors.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
