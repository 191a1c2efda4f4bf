// Package events carries CV status transitions to live subscribers.
package events

import (
	"context"
	"strconv"
	"time"

	"github.com/yoockh/recruitdesk/internal/models"
)

type StatusEvent struct {
	Type    string          `json:"type"`
	CVID    int64           `json:"cv_id"`
	Status  models.CVStatus `json:"status"`
	Message string          `json:"message,omitempty"`
	At      time.Time       `json:"at"`
}

func NewStatusEvent(cvID int64, status models.CVStatus, msg string, at time.Time) StatusEvent {
	return StatusEvent{Type: "status", CVID: cvID, Status: status, Message: msg, At: at.UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, ev StatusEvent) error
}

// Subscriber streams events for one CV until ctx ends or the returned stop func is called.
type Subscriber interface {
	Subscribe(ctx context.Context, cvID int64) (<-chan StatusEvent, func(), error)
}

type Bus interface {
	Publisher
	Subscriber
}

func channel(cvID int64) string {
	return "cv:" + strconv.FormatInt(cvID, 10) + ":status"
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, StatusEvent) error { return nil }
