package models

import (
	"strings"
	"time"
)

type ContractType string

const (
	ContractCDI       ContractType = "CDI"
	ContractCDD       ContractType = "CDD"
	ContractFreelance ContractType = "Freelance"
	ContractStage     ContractType = "Stage"
)

// Profile is a job profile opened inside a project.
type Profile struct {
	ID              int64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProjectID       int64        `gorm:"column:project_id;index" json:"projectId"`
	Title           string       `gorm:"column:title;type:text;not null" json:"title"`
	ContractType    ContractType `gorm:"column:contract_type;type:text" json:"contractType"`
	Location        string       `gorm:"column:location;type:text" json:"location"`
	Experience      float64      `gorm:"column:experience" json:"experience"`
	Description     string       `gorm:"column:description;type:text" json:"description"`
	TechnicalSkills string       `gorm:"column:technical_skills;type:text" json:"technicalSkills"`
	SoftSkills      string       `gorm:"column:soft_skills;type:text" json:"softSkills"`
	Languages       string       `gorm:"column:languages;type:text" json:"languages"`
	StartDate       string       `gorm:"column:start_date;type:text" json:"startDate"`
	CreationDate    time.Time    `gorm:"column:creation_date;type:timestamptz" json:"creationDate"`
}

func (Profile) TableName() string { return "profiles" }

func (p Profile) Clone() Profile { return p }

type CreateProfileInput struct {
	ProjectID       int64        `json:"projectId" validate:"required,gt=0"`
	Title           string       `json:"title" validate:"required"`
	ContractType    ContractType `json:"contractType" validate:"omitempty,oneof=CDI CDD Freelance Stage"`
	Location        string       `json:"location"`
	Experience      float64      `json:"experience" validate:"min=0"`
	Description     string       `json:"description"`
	TechnicalSkills string       `json:"technicalSkills"`
	SoftSkills      string       `json:"softSkills"`
	Languages       string       `json:"languages"`
	StartDate       string       `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
}

func (in *CreateProfileInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	return validate.Struct(in)
}

func (in CreateProfileInput) ToProfile(now time.Time) Profile {
	return Profile{
		ProjectID:       in.ProjectID,
		Title:           in.Title,
		ContractType:    in.ContractType,
		Location:        in.Location,
		Experience:      in.Experience,
		Description:     in.Description,
		TechnicalSkills: in.TechnicalSkills,
		SoftSkills:      in.SoftSkills,
		Languages:       in.Languages,
		StartDate:       in.StartDate,
		CreationDate:    now.UTC(),
	}
}
