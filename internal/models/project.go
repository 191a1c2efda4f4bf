package models

import (
	"slices"
	"strings"
	"time"

	"github.com/lib/pq"
)

type ProjectStatus string

const (
	ProjectOpen   ProjectStatus = "Open"
	ProjectClosed ProjectStatus = "Closed"
	ProjectOnHold ProjectStatus = "On Hold"
)

type Project struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"column:title;type:text;not null" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Department  string `gorm:"column:department;type:text" json:"department"`
	StartDate   string `gorm:"column:start_date;type:text" json:"startDate"`
	EndDate     string `gorm:"column:end_date;type:text" json:"endDate"`

	// Manager mirrors Managers[0] for older clients.
	Manager  string         `gorm:"column:manager;type:text" json:"manager"`
	Managers pq.StringArray `gorm:"column:managers;type:text[]" json:"managers"`

	Status       ProjectStatus `gorm:"column:status;type:text" json:"status"`
	CreationDate time.Time     `gorm:"column:creation_date;type:timestamptz" json:"creationDate"`
}

func (Project) TableName() string { return "projects" }

func (p Project) Clone() Project {
	p.Managers = slices.Clone(p.Managers)
	return p
}

type CreateProjectInput struct {
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description"`
	Department  string        `json:"department"`
	StartDate   string        `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string        `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Manager     string        `json:"manager"`
	Managers    []string      `json:"managers"`
	Status      ProjectStatus `json:"status" validate:"omitempty,oneof=Open Closed 'On Hold'"`
}

func (in *CreateProjectInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	return validate.Struct(in)
}

// ToProject applies creation defaults; ID is left for the store.
func (in CreateProjectInput) ToProject(now time.Time) Project {
	managers := pq.StringArray{}
	for _, m := range in.Managers {
		if m = strings.TrimSpace(m); m != "" {
			managers = append(managers, m)
		}
	}

	manager := strings.TrimSpace(in.Manager)
	if manager == "" && len(managers) > 0 {
		manager = managers[0]
	}

	status := in.Status
	if status == "" {
		status = ProjectOpen
	}

	return Project{
		Title:        in.Title,
		Description:  in.Description,
		Department:   in.Department,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Manager:      manager,
		Managers:     managers,
		Status:       status,
		CreationDate: now.UTC(),
	}
}
