// Package services holds the recruiting workflow: entity services over the
// repositories, derived views, the dashboard and the CV import pipeline.
package services

import (
	"errors"
	"time"

	"github.com/yoockh/recruitdesk/internal/utils"
)

// Options are the product policies shared by all services.
type Options struct {
	// StrictReferences makes creates and matches verify the referenced parent exists.
	StrictReferences bool
	// OneWayPublish rejects publishing an already published publication.
	OneWayPublish bool
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

func requireID(op, name string, id int64) error {
	if id <= 0 {
		return utils.E(utils.CodeInvalidArgument, op, name+" must be a positive integer", nil)
	}
	return nil
}

// lookup turns a repository miss into (nil, nil) so absence is not an error.
func lookup[T any](op, what string, v *T, err error) (*T, error) {
	if err == nil {
		return v, nil
	}
	if errors.Is(err, utils.ErrNotFound) {
		return nil, nil
	}
	return nil, utils.E(utils.CodeInternal, op, "failed to get "+what, err)
}

// mutation maps repository errors of a state transition.
func mutation(op, what string, err error) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, what+" not found", err)
	}
	return utils.E(utils.CodeInternal, op, "failed to update "+what, err)
}

func unknownReference(op, field, msg string) error {
	return &utils.AppError{
		Code:    utils.CodeValidation,
		Op:      op,
		Message: msg,
		Fields:  []utils.FieldError{{Field: field, Messages: []string{msg}}},
	}
}
