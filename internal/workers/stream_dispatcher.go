// Package workers moves CV import jobs through redis so any API instance can
// enqueue and any worker instance can process them.
package workers

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// markerTTL bounds how long pending and cancelled markers outlive a lost job.
const markerTTL = 24 * time.Hour

func pendingKey(cvID int64) string {
	return "cv:import:pending:" + strconv.FormatInt(cvID, 10)
}

func cancelledKey(cvID int64) string {
	return "cv:import:cancelled:" + strconv.FormatInt(cvID, 10)
}

// StreamDispatcher enqueues import jobs on a redis stream.
// A pending marker lives from Dispatch until the job ends or is cancelled.
type StreamDispatcher struct {
	rdb           *redis.Client
	stream        string
	cancelChannel string
}

func NewStreamDispatcher(rdb *redis.Client) *StreamDispatcher {
	return &StreamDispatcher{rdb: rdb, stream: DefaultStream, cancelChannel: DefaultCancelChannel}
}

func (d *StreamDispatcher) Dispatch(ctx context.Context, cvID int64) error {
	_, err := d.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, cancelledKey(cvID))
		pipe.Set(ctx, pendingKey(cvID), "1", markerTTL)
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: d.stream,
			Values: map[string]any{
				"cv_id":   strconv.FormatInt(cvID, 10),
				"ts_unix": strconv.FormatInt(time.Now().UTC().Unix(), 10),
			},
		})
		return nil
	})
	return err
}

// Cancel reports whether a job was queued or running for cvID. Queued jobs are
// skipped through the cancelled marker; running ones are stopped over pub/sub.
func (d *StreamDispatcher) Cancel(ctx context.Context, cvID int64) (bool, error) {
	n, err := d.rdb.Del(ctx, pendingKey(cvID)).Result()
	if err != nil || n == 0 {
		return false, err
	}
	if err := d.rdb.Set(ctx, cancelledKey(cvID), "1", markerTTL).Err(); err != nil {
		return false, err
	}
	if err := d.rdb.Publish(ctx, d.cancelChannel, strconv.FormatInt(cvID, 10)).Err(); err != nil {
		return false, err
	}
	return true, nil
}
