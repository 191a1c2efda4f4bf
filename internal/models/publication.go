package models

import (
	"strings"
	"time"
)

type Platform string

const (
	PlatformLinkedIn Platform = "linkedin"
	PlatformIndeed   Platform = "indeed"
	PlatformCompany  Platform = "company"
	PlatformMonster  Platform = "monster"
)

var platformNames = map[Platform]string{
	PlatformLinkedIn: "LinkedIn",
	PlatformIndeed:   "Indeed",
	PlatformCompany:  "Site entreprise",
	PlatformMonster:  "Monster",
}

func (p Platform) Valid() bool {
	_, ok := platformNames[p]
	return ok
}

// DisplayName is the label shown next to a publication.
func (p Platform) DisplayName() string {
	if n, ok := platformNames[p]; ok {
		return n
	}
	return "Plateforme"
}

type PublicationStatus string

const (
	PublicationDraft     PublicationStatus = "draft"
	PublicationPublished PublicationStatus = "published"
)

type Publication struct {
	ID           int64             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProfileID    int64             `gorm:"column:profile_id;index" json:"profileId"`
	Title        string            `gorm:"column:title;type:text;not null" json:"title"`
	Content      string            `gorm:"column:content;type:text" json:"content"`
	Platform     Platform          `gorm:"column:platform;type:text" json:"platform,omitempty"`
	Status       PublicationStatus `gorm:"column:status;type:text;index" json:"status"`
	CreationDate time.Time         `gorm:"column:creation_date;type:timestamptz" json:"creationDate"`
	PublishDate  *time.Time        `gorm:"column:publish_date;type:timestamptz" json:"publishDate,omitempty"`
}

func (Publication) TableName() string { return "publications" }

func (p Publication) Clone() Publication {
	if p.PublishDate != nil {
		t := *p.PublishDate
		p.PublishDate = &t
	}
	return p
}

type CreatePublicationInput struct {
	ProfileID int64    `json:"profileId" validate:"min=0"`
	Title     string   `json:"title" validate:"required"`
	Content   string   `json:"content"`
	Platform  Platform `json:"platform" validate:"omitempty,oneof=linkedin indeed company monster"`
}

func (in *CreatePublicationInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	return validate.Struct(in)
}

// ToPublication always starts in draft; publishing is a separate transition.
func (in CreatePublicationInput) ToPublication(now time.Time) Publication {
	return Publication{
		ProfileID:    in.ProfileID,
		Title:        in.Title,
		Content:      in.Content,
		Platform:     in.Platform,
		Status:       PublicationDraft,
		CreationDate: now.UTC(),
	}
}
