package services

import (
	"context"

	"github.com/yoockh/recruitdesk/internal/metrics"
	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories"
	"github.com/yoockh/recruitdesk/internal/utils"
)

type ProfileService interface {
	Create(ctx context.Context, in models.CreateProfileInput) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Get(ctx context.Context, id int64) (*models.Profile, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Profile, error)
}

type profileService struct {
	profiles repositories.ProfileRepository
	projects repositories.ProjectRepository
	opts     Options
}

func NewProfileService(profiles repositories.ProfileRepository, projects repositories.ProjectRepository, opts Options) ProfileService {
	return &profileService{profiles: profiles, projects: projects, opts: opts}
}

func (s *profileService) Create(ctx context.Context, in models.CreateProfileInput) (*models.Profile, error) {
	const op = "ProfileService.Create"

	if err := in.Validate(); err != nil {
		return nil, utils.Invalid(op, "invalid profile", err)
	}
	if s.opts.StrictReferences {
		parent, err := s.projects.GetByID(ctx, in.ProjectID)
		if parent, err = lookup(op, "project", parent, err); err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, unknownReference(op, "projectId", "projectId references an unknown project")
		}
	}

	p := in.ToProfile(s.opts.now())
	if err := s.profiles.Insert(ctx, &p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create profile", err)
	}
	metrics.EntitiesCreatedTotal.WithLabelValues("profile").Inc()
	return &p, nil
}

func (s *profileService) List(ctx context.Context) ([]models.Profile, error) {
	const op = "ProfileService.List"

	rows, err := s.profiles.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list profiles", err)
	}
	return rows, nil
}

func (s *profileService) Get(ctx context.Context, id int64) (*models.Profile, error) {
	const op = "ProfileService.Get"

	if err := requireID(op, "id", id); err != nil {
		return nil, err
	}
	p, err := s.profiles.GetByID(ctx, id)
	return lookup(op, "profile", p, err)
}

func (s *profileService) ListByProject(ctx context.Context, projectID int64) ([]models.Profile, error) {
	const op = "ProfileService.ListByProject"

	if err := requireID(op, "projectId", projectID); err != nil {
		return nil, err
	}
	rows, err := s.profiles.ListByProject(ctx, projectID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list profiles", err)
	}
	return rows, nil
}
