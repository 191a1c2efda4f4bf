package models

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var linkedInProfileRe = regexp.MustCompile(`^https://www\.linkedin\.com/in/.+`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report json names so field errors match the request payload
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("linkedin_profile", func(fl validator.FieldLevel) bool {
		return linkedInProfileRe.MatchString(fl.Field().String())
	})
	return v
}

// SplitList splits a comma separated list, trimming entries and dropping empty ones.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
