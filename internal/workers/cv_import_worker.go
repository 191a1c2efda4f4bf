package workers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/recruitdesk/internal/services"
	"github.com/yoockh/recruitdesk/internal/tasks"
)

const (
	DefaultStream        = "cv:import"
	DefaultGroup         = "cv-import-workers"
	DefaultCancelChannel = "cv:import:cancel"
)

// CVImportPool consumes import jobs from a redis stream with a consumer group
// and runs each through the processor. Cancel requests arrive over pub/sub.
type CVImportPool struct {
	Redis      *redis.Client
	Processor  *services.CVProcessor
	NumWorkers int

	Logger *logrus.Logger

	Stream        string
	Group         string
	CancelChannel string

	jobs *tasks.Group
}

func (p *CVImportPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Processor == nil {
		return errors.New("CVImportPool missing dependency: Redis/Processor must be set")
	}
	if p.Stream == "" {
		p.Stream = DefaultStream
	}
	if p.Group == "" {
		p.Group = DefaultGroup
	}
	if p.CancelChannel == "" {
		p.CancelChannel = DefaultCancelChannel
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}
	p.jobs = tasks.NewGroup(ctx)

	if err := p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err(); err != nil && !isBusyGroup(err) {
		return err
	}

	// subscribe before consuming so no cancel for a started job is missed
	sub := p.Redis.Subscribe(ctx, p.CancelChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}
	go p.listenCancels(ctx, sub)

	// consumer names only need to be unique per process; uuid keeps replicas apart
	prefix := uuid.NewString()[:8]
	for i := 0; i < p.NumWorkers; i++ {
		go p.runConsumer(ctx, prefix+"-"+strconv.Itoa(i+1))
	}
	p.Logger.WithFields(logrus.Fields{"stream": p.Stream, "group": p.Group, "workers": p.NumWorkers}).Info("cv import pool started")
	return nil
}

// Stop cancels running jobs and waits for them to return.
func (p *CVImportPool) Stop(ctx context.Context) error {
	if p.jobs == nil {
		return nil
	}
	return p.jobs.Close(ctx)
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}

func (p *CVImportPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			p.Logger.WithError(err).WithField("consumer", consumer).Warn("xreadgroup failed")
			if tasks.Sleep(ctx, 500*time.Millisecond) != nil {
				return
			}
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *CVImportPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	raw, _ := msg.Values["cv_id"].(string)
	cvID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || cvID <= 0 {
		p.Logger.WithField("redis_id", msg.ID).Warn("drop import job without cv_id")
		return
	}
	log := p.Logger.WithField("cv_id", cvID)

	defer func() {
		if err := p.Redis.Del(context.WithoutCancel(ctx), pendingKey(cvID)).Err(); err != nil {
			log.WithError(err).Warn("failed to clear pending marker")
		}
	}()

	// the marker is read after registration: an earlier cancel left the
	// marker, a later one reaches the task over pub/sub
	t, err := p.jobs.Go(services.JobKey(cvID), func(jobCtx context.Context) error {
		if p.cancelledBeforeStart(jobCtx, cvID) {
			log.Info("cv import skipped, cancelled while queued")
			return context.Canceled
		}
		return p.Processor.Process(jobCtx, cvID)
	})
	if err != nil {
		return
	}
	// one job at a time per consumer; cancellation ends the wait early
	_ = t.Wait(context.Background())
}

// cancelledBeforeStart consumes the cancelled marker for cvID.
func (p *CVImportPool) cancelledBeforeStart(ctx context.Context, cvID int64) bool {
	n, err := p.Redis.Del(ctx, cancelledKey(cvID)).Result()
	if err != nil {
		p.Logger.WithError(err).WithField("cv_id", cvID).Warn("failed to read cancelled marker")
		return false
	}
	return n > 0
}

func (p *CVImportPool) listenCancels(ctx context.Context, sub *redis.PubSub) {
	defer sub.Close()

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-msgs:
			if !ok {
				return
			}
			cvID, err := strconv.ParseInt(m.Payload, 10, 64)
			if err != nil {
				continue
			}
			if p.jobs.Cancel(services.JobKey(cvID)) {
				p.Logger.WithField("cv_id", cvID).Info("cv import cancelled")
			}
		}
	}
}
