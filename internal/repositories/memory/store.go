// Package memory is the process-local entity store. Each collection has its own
// lock; every value handed out is a deep copy of the stored row.
package memory

import (
	"context"
	"time"

	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories"
)

type Store struct {
	projects     *table[models.Project]
	profiles     *table[models.Profile]
	publications *table[models.Publication]
	cvs          *table[models.CV]
}

func NewStore() *Store {
	return &Store{
		projects:     newTable(func(p *models.Project) *int64 { return &p.ID }, models.Project.Clone),
		profiles:     newTable(func(p *models.Profile) *int64 { return &p.ID }, models.Profile.Clone),
		publications: newTable(func(p *models.Publication) *int64 { return &p.ID }, models.Publication.Clone),
		cvs:          newTable(func(c *models.CV) *int64 { return &c.ID }, models.CV.Clone),
	}
}

// Set exposes the store through the repository contract.
func (s *Store) Set() repositories.Set {
	return repositories.Set{
		Projects:     &projectRepo{t: s.projects},
		Profiles:     &profileRepo{t: s.profiles},
		Publications: &publicationRepo{t: s.publications},
		CVs:          &cvRepo{t: s.cvs},
	}
}

// Reset empties every collection. Id counters keep running.
func (s *Store) Reset() {
	s.projects.reset()
	s.profiles.reset()
	s.publications.reset()
	s.cvs.reset()
}

// Counts reports the number of rows per collection.
func (s *Store) Counts() map[string]int {
	return map[string]int{
		"projects":     s.projects.count(),
		"profiles":     s.profiles.count(),
		"publications": s.publications.count(),
		"cvs":          s.cvs.count(),
	}
}

type projectRepo struct{ t *table[models.Project] }

func (r *projectRepo) Insert(_ context.Context, p *models.Project) error {
	r.t.insert(p)
	return nil
}

func (r *projectRepo) List(context.Context) ([]models.Project, error) { return r.t.all(), nil }

func (r *projectRepo) GetByID(_ context.Context, id int64) (*models.Project, error) {
	return r.t.get(id)
}

type profileRepo struct{ t *table[models.Profile] }

func (r *profileRepo) Insert(_ context.Context, p *models.Profile) error {
	r.t.insert(p)
	return nil
}

func (r *profileRepo) List(context.Context) ([]models.Profile, error) { return r.t.all(), nil }

func (r *profileRepo) GetByID(_ context.Context, id int64) (*models.Profile, error) {
	return r.t.get(id)
}

func (r *profileRepo) ListByProject(_ context.Context, projectID int64) ([]models.Profile, error) {
	return r.t.filter(func(p models.Profile) bool { return p.ProjectID == projectID }), nil
}

type publicationRepo struct{ t *table[models.Publication] }

func (r *publicationRepo) Insert(_ context.Context, p *models.Publication) error {
	r.t.insert(p)
	return nil
}

func (r *publicationRepo) List(context.Context) ([]models.Publication, error) {
	return r.t.all(), nil
}

func (r *publicationRepo) GetByID(_ context.Context, id int64) (*models.Publication, error) {
	return r.t.get(id)
}

func (r *publicationRepo) ListByProfile(_ context.Context, profileID int64) ([]models.Publication, error) {
	return r.t.filter(func(p models.Publication) bool { return p.ProfileID == profileID }), nil
}

func (r *publicationRepo) ListByStatus(_ context.Context, status models.PublicationStatus) ([]models.Publication, error) {
	return r.t.filter(func(p models.Publication) bool { return p.Status == status }), nil
}

func (r *publicationRepo) Publish(_ context.Context, id int64, platform models.Platform, at time.Time, allowRepublish bool) (*models.Publication, error) {
	return r.t.update(id, func(p *models.Publication) error {
		if !allowRepublish && p.Status == models.PublicationPublished {
			return repositories.ErrAlreadyPublished
		}
		at := at.UTC()
		p.Status = models.PublicationPublished
		p.Platform = platform
		p.PublishDate = &at
		return nil
	})
}

type cvRepo struct{ t *table[models.CV] }

func (r *cvRepo) Insert(_ context.Context, cv *models.CV) error {
	r.t.insert(cv)
	return nil
}

func (r *cvRepo) List(context.Context) ([]models.CV, error) { return r.t.all(), nil }

func (r *cvRepo) GetByID(_ context.Context, id int64) (*models.CV, error) { return r.t.get(id) }

func (r *cvRepo) SetAnalysis(_ context.Context, id int64, a *models.CVAnalysis, at time.Time) (*models.CV, error) {
	return r.t.update(id, func(cv *models.CV) error {
		applyAnalysis(cv, a, at)
		return nil
	})
}

func (r *cvRepo) FinishProcessing(_ context.Context, id int64, a *models.CVAnalysis, at time.Time) (*models.CV, error) {
	return r.t.update(id, func(cv *models.CV) error {
		if cv.Status != models.CVProcessing {
			return repositories.ErrStatusChanged
		}
		applyAnalysis(cv, a, at)
		return nil
	})
}

func applyAnalysis(cv *models.CV, a *models.CVAnalysis, at time.Time) {
	at = at.UTC()
	cv.Analysis = a
	cv.Status = models.CVAnalyzed
	cv.AnalyzedDate = &at
	cv.LastModified = at
}

func (r *cvRepo) SetStatus(_ context.Context, id int64, status models.CVStatus, at time.Time) (*models.CV, error) {
	return r.t.update(id, func(cv *models.CV) error {
		cv.Status = status
		cv.LastModified = at.UTC()
		return nil
	})
}

func (r *cvRepo) AddMatch(_ context.Context, id, profileID int64, at time.Time) (*models.CV, error) {
	return r.t.update(id, func(cv *models.CV) error {
		if !cv.HasMatch(profileID) {
			cv.MatchedProfiles = append(cv.MatchedProfiles, profileID)
		}
		cv.LastModified = at.UTC()
		return nil
	})
}
