package models

import (
	"time"

	"gorm.io/datatypes"
)

// OriginDirect is stored when the client does not tag the response origin.
const OriginDirect = "direct"

type SurveyResponse struct {
	ID             string            `gorm:"column:id;primaryKey;size:36" json:"id"`
	SurveyID       string            `gorm:"column:survey_id;size:36;not null;index" json:"survey_id"`
	RespondentData datatypes.JSONMap `gorm:"column:respondent_data" json:"respondent_data"`
	Latitude       *float64          `gorm:"column:latitude" json:"latitude"`
	Longitude      *float64          `gorm:"column:longitude" json:"longitude"`
	OriginSource   string            `gorm:"column:origin_source;size:50;default:'direct'" json:"origin_source"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (SurveyResponse) TableName() string {
	return "survey_responses"
}
