package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yoockh/recruitdesk/internal/metrics"
	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories"
	"github.com/yoockh/recruitdesk/internal/utils"
)

// StatusAll disables the status filter of PublicationService.List.
const StatusAll = "all"

type PublicationService interface {
	Create(ctx context.Context, in models.CreatePublicationInput) (*models.Publication, error)
	// List filters by status: "" or "all", "draft", "published".
	List(ctx context.Context, status string) ([]models.Publication, error)
	Get(ctx context.Context, id int64) (*models.Publication, error)
	ListByProfile(ctx context.Context, profileID int64) ([]models.Publication, error)
	Publish(ctx context.Context, id int64, platform models.Platform) (*models.Publication, error)
}

type publicationService struct {
	publications repositories.PublicationRepository
	profiles     repositories.ProfileRepository
	opts         Options
}

func NewPublicationService(publications repositories.PublicationRepository, profiles repositories.ProfileRepository, opts Options) PublicationService {
	return &publicationService{publications: publications, profiles: profiles, opts: opts}
}

func (s *publicationService) Create(ctx context.Context, in models.CreatePublicationInput) (*models.Publication, error) {
	const op = "PublicationService.Create"

	if err := in.Validate(); err != nil {
		return nil, utils.Invalid(op, "invalid publication", err)
	}
	if s.opts.StrictReferences {
		if in.ProfileID <= 0 {
			return nil, unknownReference(op, "profileId", "profileId is required")
		}
		parent, err := s.profiles.GetByID(ctx, in.ProfileID)
		if parent, err = lookup(op, "profile", parent, err); err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, unknownReference(op, "profileId", "profileId references an unknown profile")
		}
	}

	p := in.ToPublication(s.opts.now())
	if err := s.publications.Insert(ctx, &p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create publication", err)
	}
	metrics.EntitiesCreatedTotal.WithLabelValues("publication").Inc()
	return &p, nil
}

func (s *publicationService) List(ctx context.Context, status string) ([]models.Publication, error) {
	const op = "PublicationService.List"

	var (
		rows []models.Publication
		err  error
	)
	switch st := models.PublicationStatus(strings.ToLower(strings.TrimSpace(status))); st {
	case "", StatusAll:
		rows, err = s.publications.List(ctx)
	case models.PublicationDraft, models.PublicationPublished:
		rows, err = s.publications.ListByStatus(ctx, st)
	default:
		return nil, utils.E(utils.CodeInvalidArgument, op, "status must be one of all, draft, published", nil)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list publications", err)
	}
	return rows, nil
}

func (s *publicationService) Get(ctx context.Context, id int64) (*models.Publication, error) {
	const op = "PublicationService.Get"

	if err := requireID(op, "id", id); err != nil {
		return nil, err
	}
	p, err := s.publications.GetByID(ctx, id)
	return lookup(op, "publication", p, err)
}

func (s *publicationService) ListByProfile(ctx context.Context, profileID int64) ([]models.Publication, error) {
	const op = "PublicationService.ListByProfile"

	if err := requireID(op, "profileId", profileID); err != nil {
		return nil, err
	}
	rows, err := s.publications.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list publications", err)
	}
	return rows, nil
}

func (s *publicationService) Publish(ctx context.Context, id int64, platform models.Platform) (*models.Publication, error) {
	const op = "PublicationService.Publish"

	if err := requireID(op, "id", id); err != nil {
		return nil, err
	}
	if !platform.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "platform must be one of linkedin, indeed, company, monster", nil)
	}

	p, err := s.publications.Publish(ctx, id, platform, s.opts.now(), !s.opts.OneWayPublish)
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadyPublished) {
			return nil, utils.E(utils.CodeConflict, op, "publication is already published", err)
		}
		return nil, mutation(op, "publication", err)
	}
	metrics.PublicationsPublishedTotal.WithLabelValues(string(platform)).Inc()
	return p, nil
}
