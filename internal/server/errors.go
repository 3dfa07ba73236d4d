// Package server provides the HTTP REST API for the resume builder.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resume-builder/internal/render"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/store"
)

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound      *store.ErrNotFound
		userNotFound  *store.ErrUserNotFound
		emailTaken    *store.ErrEmailTaken
		conflict      *store.ErrConflict
		credentials   *ErrInvalidCredentials
		validation    *resume.ErrValidation
		badContent    *resume.ErrInvalidContent
		noSuchSection *resume.ErrSectionNotFound
		noTemplate    *resume.ErrTemplateNotFound
		exportFailed  *render.ErrExport
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &userNotFound),
		errors.As(err, &noSuchSection), errors.As(err, &noTemplate):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &badContent):
		return http.StatusBadRequest
	case errors.As(err, &emailTaken), errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &credentials):
		return http.StatusUnauthorized
	case errors.As(err, &exportFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
