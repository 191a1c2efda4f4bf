package services

import (
	"context"

	"github.com/yoockh/recruitdesk/internal/metrics"
	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories"
	"github.com/yoockh/recruitdesk/internal/utils"
)

type ProjectService interface {
	Create(ctx context.Context, in models.CreateProjectInput) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	// Get returns nil without error when the project does not exist.
	Get(ctx context.Context, id int64) (*models.Project, error)
	Progress(ctx context.Context, id int64) (*ProjectProgress, error)
}

type ProjectProgress struct {
	ProjectID    int64 `json:"projectId"`
	ProfileCount int   `json:"profileCount"`
	Percent      int   `json:"progress"`
}

type projectService struct {
	projects repositories.ProjectRepository
	profiles repositories.ProfileRepository
	progress ProgressFormula
	opts     Options
}

func NewProjectService(projects repositories.ProjectRepository, profiles repositories.ProfileRepository, progress ProgressFormula, opts Options) ProjectService {
	return &projectService{projects: projects, profiles: profiles, progress: progress, opts: opts}
}

func (s *projectService) Create(ctx context.Context, in models.CreateProjectInput) (*models.Project, error) {
	const op = "ProjectService.Create"

	if err := in.Validate(); err != nil {
		return nil, utils.Invalid(op, "invalid project", err)
	}

	p := in.ToProject(s.opts.now())
	if err := s.projects.Insert(ctx, &p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create project", err)
	}
	metrics.EntitiesCreatedTotal.WithLabelValues("project").Inc()
	return &p, nil
}

func (s *projectService) List(ctx context.Context) ([]models.Project, error) {
	const op = "ProjectService.List"

	rows, err := s.projects.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list projects", err)
	}
	return rows, nil
}

func (s *projectService) Get(ctx context.Context, id int64) (*models.Project, error) {
	const op = "ProjectService.Get"

	if err := requireID(op, "id", id); err != nil {
		return nil, err
	}
	p, err := s.projects.GetByID(ctx, id)
	return lookup(op, "project", p, err)
}

func (s *projectService) Progress(ctx context.Context, id int64) (*ProjectProgress, error) {
	const op = "ProjectService.Progress"

	if err := requireID(op, "id", id); err != nil {
		return nil, err
	}
	profiles, err := s.profiles.ListByProject(ctx, id)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list profiles", err)
	}
	return &ProjectProgress{
		ProjectID:    id,
		ProfileCount: len(profiles),
		Percent:      s.progress.Percent(len(profiles)),
	}, nil
}
