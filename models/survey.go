package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionText     QuestionType = "text"
	QuestionSelect   QuestionType = "select"
	QuestionRadio    QuestionType = "radio"
	QuestionDropdown QuestionType = "dropdown"
	QuestionScale    QuestionType = "scale"
)

// Valid reports whether the builder accepts t.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionSelect, QuestionRadio, QuestionDropdown, QuestionScale:
		return true
	}
	return false
}

// HasOptions reports whether questions of type t carry an option list.
func (t QuestionType) HasOptions() bool {
	return t == QuestionSelect || t == QuestionRadio || t == QuestionDropdown
}

type Question struct {
	ID      string       `json:"id"`
	Type    QuestionType `json:"type"`
	Label   string       `json:"label"`
	Options []string     `json:"options,omitempty"`
}

// LegacySurveyID is the sentinel that selects the vote_intentions table.
const LegacySurveyID = "legacy"

type Survey struct {
	ID              string                        `gorm:"column:id;primaryKey;size:36" json:"id"`
	Title           string                        `gorm:"column:title;size:255;not null" json:"title"`
	Description     string                        `gorm:"column:description;type:text" json:"description"`
	Slug            string                        `gorm:"column:slug;size:255;not null;uniqueIndex" json:"slug"`
	QuestionsSchema datatypes.JSONSlice[Question] `gorm:"column:questions_schema" json:"questions_schema"`
	Active          bool                          `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt       time.Time                     `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`

	Responses []SurveyResponse `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Survey) TableName() string {
	return "surveys"
}

// LegacySurvey is the pseudo-survey listed ahead of the real ones.
func LegacySurvey() Survey {
	return Survey{
		ID:              LegacySurveyID,
		Title:           "Pesquisa Original (Legado)",
		Description:     "Dados históricos da tabela original",
		Slug:            LegacySurveyID,
		QuestionsSchema: datatypes.JSONSlice[Question]{},
		Active:          true,
		CreatedAt:       time.Unix(0, 0).UTC(),
	}
}
