package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/recruitdesk/internal/events"
	"github.com/yoockh/recruitdesk/internal/metrics"
	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories"
	"github.com/yoockh/recruitdesk/internal/tasks"
)

// CVJobDispatcher hands imported CVs to whatever runs their processing job.
type CVJobDispatcher interface {
	Dispatch(ctx context.Context, cvID int64) error
	Cancel(ctx context.Context, cvID int64) (bool, error)
}

// CVProcessor is the body of one import job:
// imported -> processing, simulated latency, then the canned analysis.
type CVProcessor struct {
	CVs    repositories.CVRepository
	Bus    events.Publisher
	Delay  time.Duration
	Logger *logrus.Logger
	Now    func() time.Time
}

func (p *CVProcessor) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}

// Process runs the job. Once ctx is cancelled no further store writes happen.
// A status set by a recruiter while the job sleeps is kept; the analysis is dropped.
func (p *CVProcessor) Process(ctx context.Context, cvID int64) (err error) {
	log := p.logger().WithField("cv_id", cvID)
	start := time.Now()
	metrics.CVJobsActive.Inc()
	defer func() {
		metrics.CVJobsActive.Dec()
		metrics.CVJobDuration.Observe(time.Since(start).Seconds())
		switch {
		case err == nil:
			metrics.CVJobsTotal.WithLabelValues(metrics.OutcomeAnalyzed).Inc()
		case errors.Is(err, repositories.ErrStatusChanged):
			metrics.CVJobsTotal.WithLabelValues(metrics.OutcomeSuperseded).Inc()
			log.Info("cv status changed during processing, analysis dropped")
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			metrics.CVJobsTotal.WithLabelValues(metrics.OutcomeCancelled).Inc()
			log.Info("cv processing cancelled")
		default:
			metrics.CVJobsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			log.WithError(err).Error("cv processing failed")
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	cv, err := p.CVs.SetStatus(ctx, cvID, models.CVProcessing, p.now())
	if err != nil {
		return err
	}
	p.publish(ctx, cv)

	if err := tasks.Sleep(ctx, p.Delay); err != nil {
		return err
	}

	cv, err = p.CVs.FinishProcessing(ctx, cvID, models.DefaultAnalysis(), p.now())
	if errors.Is(err, repositories.ErrStatusChanged) {
		return err
	}
	if err != nil {
		p.fail(ctx, cvID)
		return err
	}
	p.publish(ctx, cv)
	log.WithField("score", cv.Analysis.Score).Info("cv analyzed")
	return nil
}

func (p *CVProcessor) fail(ctx context.Context, cvID int64) {
	if ctx.Err() != nil {
		return
	}
	if cv, err := p.CVs.SetStatus(ctx, cvID, models.CVFailed, p.now()); err == nil {
		p.publish(ctx, cv)
	}
}

func (p *CVProcessor) publish(ctx context.Context, cv *models.CV) {
	if p.Bus == nil {
		return
	}
	if err := p.Bus.Publish(ctx, events.NewStatusEvent(cv.ID, cv.Status, "", cv.LastModified)); err != nil {
		p.logger().WithError(err).WithField("cv_id", cv.ID).Warn("failed to publish cv status")
	}
}

func (p *CVProcessor) logger() *logrus.Logger {
	if p.Logger == nil {
		return logrus.StandardLogger()
	}
	return p.Logger
}

// LocalDispatcher runs jobs in-process, one cancellable task per CV.
type LocalDispatcher struct {
	group     *tasks.Group
	processor *CVProcessor
}

func NewLocalDispatcher(group *tasks.Group, processor *CVProcessor) *LocalDispatcher {
	return &LocalDispatcher{group: group, processor: processor}
}

func JobKey(cvID int64) string {
	return "cv:" + strconv.FormatInt(cvID, 10)
}

// Dispatch starts the job detached from ctx; the task lives as long as the group.
func (d *LocalDispatcher) Dispatch(_ context.Context, cvID int64) error {
	_, err := d.group.Go(JobKey(cvID), func(ctx context.Context) error {
		return d.processor.Process(ctx, cvID)
	})
	return err
}

func (d *LocalDispatcher) Cancel(_ context.Context, cvID int64) (bool, error) {
	return d.group.Cancel(JobKey(cvID)), nil
}

// Wait blocks until the job for cvID ends; it returns nil when no job is running.
func (d *LocalDispatcher) Wait(ctx context.Context, cvID int64) error {
	t, ok := d.group.Get(JobKey(cvID))
	if !ok {
		return nil
	}
	return t.Wait(ctx)
}
