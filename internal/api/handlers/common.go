package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/recruitdesk/internal/utils"
)

type APIError struct {
	Code    utils.Code         `json:"code"`
	Message string             `json:"message"`
	Display string             `json:"display"`
	Fields  []utils.FieldError `json:"fields,omitempty"`
}

// errorWriter renders service errors with a user-facing message picked by the classifier.
type errorWriter struct {
	classifier *utils.Classifier
}

func (w errorWriter) writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := utils.HTTPStatus(err)

	body := APIError{Code: utils.CodeInternal, Message: http.StatusText(status)}
	var ae *utils.AppError
	if errors.As(err, &ae) {
		body.Code = ae.Code
		body.Message = ae.Message
		body.Fields = ae.Fields
	}
	if w.classifier != nil {
		body.Display = w.classifier.Message(err)
	}
	c.AbortWithStatusJSON(status, body)
}

func (w errorWriter) notFound(c *gin.Context, op, what string) {
	w.writeError(c, utils.E(utils.CodeNotFound, op, what+" not found", utils.ErrNotFound))
}

func (w errorWriter) pathID(c *gin.Context, op, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		w.writeError(c, utils.E(utils.CodeInvalidArgument, op, name+" must be a positive integer", err))
		return 0, false
	}
	return id, true
}

func (w errorWriter) bindJSON(c *gin.Context, op string, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		w.writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid json body", err))
		return false
	}
	return true
}
