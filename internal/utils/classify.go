package utils

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type Locale string

const (
	LocaleFR Locale = "fr"
	LocaleEN Locale = "en"
)

// Messages is the user-facing text for each classification outcome.
type Messages struct {
	Unknown   string
	Generic   string
	Offline   string
	Timeout   string
	Server    string
	Session   string
	Forbidden string
	NotFound  string
}

var catalogs = map[Locale]Messages{
	LocaleFR: {
		Unknown:   "Une erreur inconnue est survenue",
		Generic:   "Une erreur est survenue",
		Offline:   "Vous semblez être hors ligne. Veuillez vérifier votre connexion Internet.",
		Timeout:   "La requête a pris trop de temps. Veuillez réessayer.",
		Server:    "Le serveur a rencontré une erreur. Veuillez réessayer plus tard.",
		Session:   "Votre session a expiré. Veuillez vous reconnecter.",
		Forbidden: "Vous n'avez pas les permissions nécessaires pour effectuer cette action.",
		NotFound:  "La ressource demandée n'a pas été trouvée.",
	},
	LocaleEN: {
		Unknown:   "An unknown error occurred",
		Generic:   "An error occurred",
		Offline:   "You appear to be offline. Please check your Internet connection.",
		Timeout:   "The request took too long. Please try again.",
		Server:    "The server encountered an error. Please try again later.",
		Session:   "Your session has expired. Please sign in again.",
		Forbidden: "You do not have permission to perform this action.",
		NotFound:  "The requested resource was not found.",
	},
}

// MessagesFor returns the catalog for l, falling back to French.
func MessagesFor(l Locale) Messages {
	if m, ok := catalogs[Locale(strings.ToLower(string(l)))]; ok {
		return m
	}
	return catalogs[LocaleFR]
}

// HTTPError is an error carrying an HTTP-like status, as returned by a remote backend.
type HTTPError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

func (e *HTTPError) StatusCode() int           { return e.Status }
func (e *HTTPError) FieldErrors() []FieldError { return e.Fields }

type statusCoder interface {
	StatusCode() int
}

type fieldErrorer interface {
	FieldErrors() []FieldError
}

// Classifier turns any error into one user-facing message.
type Classifier struct {
	// Online reports connectivity; nil means always online.
	Online   func() bool
	Messages Messages
	Logger   *logrus.Logger
}

func NewClassifier(locale Locale, l *logrus.Logger) *Classifier {
	return &Classifier{Messages: MessagesFor(locale), Logger: l}
}

// Message picks the first matching rule: offline, timeout, 5xx, 401, 403, 404,
// 400/422 with field errors, the error's own message, then a generic fallback.
func (c *Classifier) Message(err error) string {
	if err == nil {
		return c.Messages.Unknown
	}
	if c.Logger != nil {
		c.Logger.WithError(err).WithField("context", "API Request").Warn("request failed")
	}

	if errors.Is(err, ErrOffline) || (c.Online != nil && !c.Online()) {
		return c.Messages.Offline
	}
	if isTimeout(err) {
		return c.Messages.Timeout
	}

	status := 0
	var sc statusCoder
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	switch {
	case status >= 500:
		return c.Messages.Server
	case status == http.StatusUnauthorized:
		return c.Messages.Session
	case status == http.StatusForbidden:
		return c.Messages.Forbidden
	case status == http.StatusNotFound:
		return c.Messages.NotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		if msg := firstFieldMessage(err); msg != "" {
			return msg
		}
	}

	return c.ownMessage(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "timeout")
}

func firstFieldMessage(err error) string {
	var fe fieldErrorer
	if errors.As(err, &fe) {
		for _, f := range fe.FieldErrors() {
			if len(f.Messages) > 0 {
				return f.Messages[0]
			}
		}
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		if fields := FieldErrorsOf(verrs); len(fields) > 0 {
			return fields[0].Messages[0]
		}
	}
	return ""
}

func (c *Classifier) ownMessage(err error) string {
	var ae *AppError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return c.Messages.Generic
}
