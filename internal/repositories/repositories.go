// Package repositories defines the persistence contract shared by the memory,
// postgres and mongo backends. Lookups return utils.ErrNotFound when no row matches.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/recruitdesk/internal/models"
)

// ErrAlreadyPublished is returned by Publish when republishing is disallowed.
var ErrAlreadyPublished = errors.New("publication already published")

// ErrStatusChanged is returned by FinishProcessing when the CV left the processing state.
var ErrStatusChanged = errors.New("cv status changed")

type ProjectRepository interface {
	Insert(ctx context.Context, p *models.Project) error
	List(ctx context.Context) ([]models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
}

type ProfileRepository interface {
	Insert(ctx context.Context, p *models.Profile) error
	List(ctx context.Context) ([]models.Profile, error)
	GetByID(ctx context.Context, id int64) (*models.Profile, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Profile, error)
}

type PublicationRepository interface {
	Insert(ctx context.Context, p *models.Publication) error
	List(ctx context.Context) ([]models.Publication, error)
	GetByID(ctx context.Context, id int64) (*models.Publication, error)
	ListByProfile(ctx context.Context, profileID int64) ([]models.Publication, error)
	ListByStatus(ctx context.Context, status models.PublicationStatus) ([]models.Publication, error)
	Publish(ctx context.Context, id int64, platform models.Platform, at time.Time, allowRepublish bool) (*models.Publication, error)
}

type CVRepository interface {
	Insert(ctx context.Context, cv *models.CV) error
	List(ctx context.Context) ([]models.CV, error)
	GetByID(ctx context.Context, id int64) (*models.CV, error)
	SetAnalysis(ctx context.Context, id int64, a *models.CVAnalysis, at time.Time) (*models.CV, error)
	SetStatus(ctx context.Context, id int64, status models.CVStatus, at time.Time) (*models.CV, error)
	// FinishProcessing stores the analysis only while the CV is still processing.
	FinishProcessing(ctx context.Context, id int64, a *models.CVAnalysis, at time.Time) (*models.CV, error)
	AddMatch(ctx context.Context, id, profileID int64, at time.Time) (*models.CV, error)
}

// Set bundles one repository per entity kind.
type Set struct {
	Projects     ProjectRepository
	Profiles     ProfileRepository
	Publications PublicationRepository
	CVs          CVRepository
}
