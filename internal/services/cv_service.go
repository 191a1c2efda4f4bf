package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/recruitdesk/internal/events"
	"github.com/yoockh/recruitdesk/internal/metrics"
	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories"
	"github.com/yoockh/recruitdesk/internal/utils"
)

type CVService interface {
	// Import stores the CV as imported and queues its processing job.
	Import(ctx context.Context, in models.ImportCVInput) (*models.CV, error)
	// ImportMany validates every input before storing any of them.
	ImportMany(ctx context.Context, ins []models.ImportCVInput) ([]models.CV, error)
	List(ctx context.Context) ([]models.CV, error)
	Get(ctx context.Context, id int64) (*models.CV, error)
	Analyze(ctx context.Context, id int64) (*models.CV, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.CV, error)
	Match(ctx context.Context, id, profileID int64) (*models.CV, error)
	// CancelProcessing stops a queued or running job; false when nothing was running.
	CancelProcessing(ctx context.Context, id int64) (bool, error)
}

type cvService struct {
	cvs        repositories.CVRepository
	profiles   repositories.ProfileRepository
	dispatcher CVJobDispatcher
	bus        events.Publisher
	log        *logrus.Logger
	opts       Options
}

func NewCVService(cvs repositories.CVRepository, profiles repositories.ProfileRepository, dispatcher CVJobDispatcher, bus events.Publisher, l *logrus.Logger, opts Options) CVService {
	if bus == nil {
		bus = events.Nop{}
	}
	if l == nil {
		l = logrus.New()
	}
	return &cvService{cvs: cvs, profiles: profiles, dispatcher: dispatcher, bus: bus, log: l, opts: opts}
}

func (s *cvService) Import(ctx context.Context, in models.ImportCVInput) (*models.CV, error) {
	const op = "CVService.Import"

	if err := in.Validate(); err != nil {
		return nil, utils.Invalid(op, "invalid cv import", err)
	}
	cv, err := s.store(ctx, op, in)
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, cv.ID)
	return cv, nil
}

func (s *cvService) ImportMany(ctx context.Context, ins []models.ImportCVInput) ([]models.CV, error) {
	const op = "CVService.ImportMany"

	if len(ins) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "at least one cv is required", nil)
	}

	var fields []utils.FieldError
	for i := range ins {
		if err := ins[i].Validate(); err != nil {
			for _, f := range utils.FieldErrorsOf(err) {
				f.Field = fmt.Sprintf("[%d].%s", i, f.Field)
				fields = append(fields, f)
			}
			if len(utils.FieldErrorsOf(err)) == 0 {
				return nil, utils.Invalid(op, "invalid cv import", err)
			}
		}
	}
	if len(fields) > 0 {
		return nil, &utils.AppError{Code: utils.CodeValidation, Op: op, Message: "invalid cv import", Fields: fields}
	}

	out := make([]models.CV, 0, len(ins))
	for _, in := range ins {
		cv, err := s.store(ctx, op, in)
		if err != nil {
			return out, err
		}
		out = append(out, *cv)
	}
	for _, cv := range out {
		s.dispatch(ctx, cv.ID)
	}
	return out, nil
}

func (s *cvService) store(ctx context.Context, op string, in models.ImportCVInput) (*models.CV, error) {
	cv := in.ToCV(s.opts.now())
	if err := s.cvs.Insert(ctx, &cv); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store cv", err)
	}
	metrics.EntitiesCreatedTotal.WithLabelValues("cv").Inc()
	s.notify(ctx, cv.ID, models.CVImported, cv.LastModified)
	return &cv, nil
}

// dispatch failures leave the CV imported; a recruiter can still analyze it by hand.
func (s *cvService) dispatch(ctx context.Context, id int64) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, id); err != nil {
		s.log.WithError(err).WithField("cv_id", id).Error("failed to dispatch cv processing")
	}
}

func (s *cvService) notify(ctx context.Context, id int64, status models.CVStatus, at time.Time) {
	if err := s.bus.Publish(ctx, events.NewStatusEvent(id, status, "", at)); err != nil {
		s.log.WithError(err).WithField("cv_id", id).Warn("failed to publish cv status")
	}
}

func (s *cvService) List(ctx context.Context) ([]models.CV, error) {
	const op = "CVService.List"

	rows, err := s.cvs.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list cvs", err)
	}
	return rows, nil
}

func (s *cvService) Get(ctx context.Context, id int64) (*models.CV, error) {
	const op = "CVService.Get"

	if err := requireID(op, "id", id); err != nil {
		return nil, err
	}
	cv, err := s.cvs.GetByID(ctx, id)
	return lookup(op, "cv", cv, err)
}

func (s *cvService) Analyze(ctx context.Context, id int64) (*models.CV, error) {
	const op = "CVService.Analyze"

	if err := requireID(op, "id", id); err != nil {
		return nil, err
	}
	cv, err := s.cvs.SetAnalysis(ctx, id, models.DefaultAnalysis(), s.opts.now())
	if err != nil {
		return nil, mutation(op, "cv", err)
	}
	s.notify(ctx, cv.ID, cv.Status, cv.LastModified)
	return cv, nil
}

func (s *cvService) UpdateStatus(ctx context.Context, id int64, status string) (*models.CV, error) {
	const op = "CVService.UpdateStatus"

	if err := requireID(op, "id", id); err != nil {
		return nil, err
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "status is required", nil)
	}
	cv, err := s.cvs.SetStatus(ctx, id, models.CVStatus(status), s.opts.now())
	if err != nil {
		return nil, mutation(op, "cv", err)
	}
	s.notify(ctx, cv.ID, cv.Status, cv.LastModified)
	return cv, nil
}

func (s *cvService) Match(ctx context.Context, id, profileID int64) (*models.CV, error) {
	const op = "CVService.Match"

	if err := requireID(op, "id", id); err != nil {
		return nil, err
	}
	if err := requireID(op, "profileId", profileID); err != nil {
		return nil, err
	}
	if s.opts.StrictReferences {
		p, err := s.profiles.GetByID(ctx, profileID)
		if p, err = lookup(op, "profile", p, err); err != nil {
			return nil, err
		}
		if p == nil {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", utils.ErrNotFound)
		}
	}
	cv, err := s.cvs.AddMatch(ctx, id, profileID, s.opts.now())
	if err != nil {
		return nil, mutation(op, "cv", err)
	}
	return cv, nil
}

func (s *cvService) CancelProcessing(ctx context.Context, id int64) (bool, error) {
	const op = "CVService.CancelProcessing"

	if err := requireID(op, "id", id); err != nil {
		return false, err
	}
	if s.dispatcher == nil {
		return false, nil
	}
	ok, err := s.dispatcher.Cancel(ctx, id)
	if err != nil {
		return false, utils.E(utils.CodeUnavailable, op, "failed to cancel cv processing", err)
	}
	return ok, nil
}
