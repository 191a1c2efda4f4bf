package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/recruitdesk/internal/cache"
	"github.com/yoockh/recruitdesk/internal/jobad"
	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories"
	"github.com/yoockh/recruitdesk/internal/utils"
)

const jobAdTTL = 24 * time.Hour

// JobAd is a generated draft for a profile.
type JobAd struct {
	ProfileID   int64     `json:"profileId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generatedAt"`
	Regenerated bool      `json:"regenerated"`
}

type JobAdService interface {
	// Draft returns the cached draft for the profile, generating it on a miss.
	Draft(ctx context.Context, profileID int64) (*JobAd, error)
	// Regenerate always re-renders and replaces the cached draft.
	Regenerate(ctx context.Context, profileID int64) (*JobAd, error)
}

type jobAdService struct {
	profiles repositories.ProfileRepository
	gen      *jobad.Generator
	cache    cache.Cache
	log      *logrus.Logger
	opts     Options
}

// NewJobAdService accepts a nil cache; drafts are then generated on every call.
func NewJobAdService(profiles repositories.ProfileRepository, gen *jobad.Generator, c cache.Cache, l *logrus.Logger, opts Options) JobAdService {
	if l == nil {
		l = logrus.New()
	}
	return &jobAdService{profiles: profiles, gen: gen, cache: c, log: l, opts: opts}
}

func (s *jobAdService) profile(ctx context.Context, op string, id int64) (*models.Profile, error) {
	if err := requireID(op, "profileId", id); err != nil {
		return nil, err
	}
	p, err := s.profiles.GetByID(ctx, id)
	if p, err = lookup(op, "profile", p, err); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.E(utils.CodeNotFound, op, "profile not found", utils.ErrNotFound)
	}
	return p, nil
}

func (s *jobAdService) Draft(ctx context.Context, profileID int64) (*JobAd, error) {
	const op = "JobAdService.Draft"

	p, err := s.profile(ctx, op, profileID)
	if err != nil {
		return nil, err
	}

	key := cache.JobAdKey(profileID)
	if s.cache != nil {
		var cached JobAd
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.log.WithError(err).WithField("key", key).Warn("job ad cache read failed")
		}
		if hit {
			return &cached, nil
		}
	}

	ad := &JobAd{
		ProfileID:   p.ID,
		Title:       p.Title,
		Content:     s.gen.Generate(*p),
		GeneratedAt: s.opts.now(),
	}
	s.store(ctx, key, ad)
	return ad, nil
}

func (s *jobAdService) Regenerate(ctx context.Context, profileID int64) (*JobAd, error) {
	const op = "JobAdService.Regenerate"

	p, err := s.profile(ctx, op, profileID)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	ad := &JobAd{
		ProfileID:   p.ID,
		Title:       p.Title,
		Content:     s.gen.Regenerate(*p, now),
		GeneratedAt: now,
		Regenerated: true,
	}
	s.store(ctx, cache.JobAdKey(profileID), ad)
	return ad, nil
}

func (s *jobAdService) store(ctx context.Context, key string, ad *JobAd) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, ad, jobAdTTL); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("job ad cache write failed")
	}
}
