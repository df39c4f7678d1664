package models

import "time"

// Candidate identifiers accepted by the voting form.
const (
	CandidateBlue  = 1
	CandidateGreen = 2
)

type VoteIntention struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CandidateID    int       `gorm:"column:candidate_id;not null;index" json:"candidate_id"`
	Latitude       float64   `gorm:"column:latitude;not null" json:"latitude"`
	Longitude      float64   `gorm:"column:longitude;not null" json:"longitude"`
	IPAddress      string    `gorm:"column:ip_address;size:64" json:"ip_address"`
	VoterName      string    `gorm:"column:voter_name;size:255" json:"voter_name"`
	VoterCPF       *string   `gorm:"column:voter_cpf;size:11;uniqueIndex" json:"voter_cpf"`
	VoterWhatsapp  string    `gorm:"column:voter_whatsapp;size:11" json:"voter_whatsapp"`
	VoterGender    string    `gorm:"column:voter_gender;size:20" json:"voter_gender"`
	VoterAgeRange  string    `gorm:"column:voter_age_range;size:20" json:"voter_age_range"`
	VoterEducation string    `gorm:"column:voter_education;size:100" json:"voter_education"`
	VoterIncome    string    `gorm:"column:voter_income;size:100" json:"voter_income"`
	MainConcern    string    `gorm:"column:main_concern;size:100" json:"main_concern"`
	VoteCertainty  int       `gorm:"column:vote_certainty;default:3" json:"vote_certainty"`
	IsVolunteer    bool      `gorm:"column:is_volunteer;default:false" json:"is_volunteer"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (VoteIntention) TableName() string {
	return "vote_intentions"
}

// Marker is the projection served to the public map.
type Marker struct {
	CandidateID int     `json:"candidate_id"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}
