package services

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yoockh/recruitdesk/internal/format"
	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories"
	"github.com/yoockh/recruitdesk/internal/utils"
)

const recentProjectsLimit = 5

type DashboardTotals struct {
	Projects              int `json:"totalProjects"`
	Profiles              int `json:"totalProfiles"`
	Publications          int `json:"totalPublications"`
	PublishedPublications int `json:"publishedPublications"`
	CVs                   int `json:"totalCvs"`
	AnalyzedCVs           int `json:"analyzedCvs"`
}

type ProjectCard struct {
	models.Project
	ProfileCount int    `json:"profileCount"`
	Progress     int    `json:"progress"`
	CreatedAgo   string `json:"createdAgo"`
	IsRecent     bool   `json:"isRecent"`
}

type PublicationCard struct {
	models.Publication
	PlatformName string `json:"platformName"`
	Ago          string `json:"ago"`
}

type Dashboard struct {
	Totals            DashboardTotals  `json:"totals"`
	RecentProjects    []ProjectCard    `json:"recentProjects"`
	LatestPublication *PublicationCard `json:"latestPublication,omitempty"`
	GeneratedAt       time.Time        `json:"generatedAt"`
}

type DashboardService interface {
	Summary(ctx context.Context) (*Dashboard, error)
}

type dashboardService struct {
	repos    repositories.Set
	progress ProgressFormula
	locale   string
	opts     Options
}

func NewDashboardService(repos repositories.Set, progress ProgressFormula, locale string, opts Options) DashboardService {
	return &dashboardService{repos: repos, progress: progress, locale: locale, opts: opts}
}

func (s *dashboardService) Summary(ctx context.Context) (*Dashboard, error) {
	const op = "DashboardService.Summary"

	var (
		projects     []models.Project
		profiles     []models.Profile
		publications []models.Publication
		cvs          []models.CV
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { projects, err = s.repos.Projects.List(gctx); return err })
	g.Go(func() (err error) { profiles, err = s.repos.Profiles.List(gctx); return err })
	g.Go(func() (err error) { publications, err = s.repos.Publications.List(gctx); return err })
	g.Go(func() (err error) { cvs, err = s.repos.CVs.List(gctx); return err })
	if err := g.Wait(); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load dashboard", err)
	}

	now := s.opts.now()
	d := &Dashboard{
		Totals: DashboardTotals{
			Projects:     len(projects),
			Profiles:     len(profiles),
			Publications: len(publications),
			CVs:          len(cvs),
		},
		RecentProjects: make([]ProjectCard, 0, recentProjectsLimit),
		GeneratedAt:    now,
	}
	for _, p := range publications {
		if p.Status == models.PublicationPublished {
			d.Totals.PublishedPublications++
		}
	}
	for _, cv := range cvs {
		if cv.Analysis != nil {
			d.Totals.AnalyzedCVs++
		}
	}

	counts := CountProfilesByProject(profiles)
	for _, p := range mostRecentProjects(projects, recentProjectsLimit) {
		d.RecentProjects = append(d.RecentProjects, ProjectCard{
			Project:      p,
			ProfileCount: counts[p.ID],
			Progress:     s.progress.Percent(counts[p.ID]),
			CreatedAgo:   format.TimeAgo(p.CreationDate, now, s.locale),
			IsRecent:     format.IsRecent(p.CreationDate, now),
		})
	}

	if latest := latestPublication(publications); latest != nil {
		at := latest.CreationDate
		if latest.PublishDate != nil {
			at = *latest.PublishDate
		}
		d.LatestPublication = &PublicationCard{
			Publication:  *latest,
			PlatformName: latest.Platform.DisplayName(),
			Ago:          format.TimeAgo(at, now, s.locale),
		}
	}
	return d, nil
}

// mostRecentProjects orders by creation date, newest first; ties go to the higher id.
func mostRecentProjects(projects []models.Project, limit int) []models.Project {
	sorted := make([]models.Project, len(projects))
	copy(sorted, projects)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreationDate.Equal(sorted[j].CreationDate) {
			return sorted[i].CreationDate.After(sorted[j].CreationDate)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// latestPublication prefers the most recently published one, then the newest draft.
func latestPublication(pubs []models.Publication) *models.Publication {
	var best *models.Publication
	for i := range pubs {
		p := &pubs[i]
		if best == nil || newerPublication(p, best) {
			best = p
		}
	}
	return best
}

func newerPublication(a, b *models.Publication) bool {
	aPub, bPub := a.PublishDate != nil, b.PublishDate != nil
	switch {
	case aPub && !bPub:
		return true
	case !aPub && bPub:
		return false
	case aPub && bPub && !a.PublishDate.Equal(*b.PublishDate):
		return a.PublishDate.After(*b.PublishDate)
	case !a.CreationDate.Equal(b.CreationDate):
		return a.CreationDate.After(b.CreationDate)
	default:
		return a.ID > b.ID
	}
}
