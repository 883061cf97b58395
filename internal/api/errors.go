package api

import (
	"errors"
	"net/http"

	"alcyxob/trainer-link/internal/catalog"
	"alcyxob/trainer-link/internal/logging"
	"alcyxob/trainer-link/internal/service"
	"alcyxob/trainer-link/internal/storage"

	"github.com/gin-gonic/gin"
)

// statusForError maps service errors to HTTP status codes. ok is false for
// errors the client cannot act on.
func statusForError(err error) (code int, ok bool) {
	var upstream *catalog.UpstreamError
	switch {
	case errors.Is(err, service.ErrInvalidSignup),
		errors.Is(err, service.ErrInvalidProfile),
		errors.Is(err, service.ErrInvalidTrainerKey),
		errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, storage.ErrUnsupportedContentType):
		return http.StatusBadRequest, true
	case errors.Is(err, service.ErrAuthenticationFailed):
		return http.StatusUnauthorized, true
	case errors.Is(err, service.ErrNotTrainer),
		errors.Is(err, service.ErrNotStudent),
		errors.Is(err, service.ErrExerciseAccessDenied):
		return http.StatusForbidden, true
	case errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrTrainerKeyNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, service.ErrUserAlreadyExists):
		return http.StatusConflict, true
	case errors.Is(err, service.ErrTrainerKeyExhausted),
		errors.Is(err, service.ErrTrainerDirectoryUnavailable):
		return http.StatusServiceUnavailable, true
	case errors.As(err, &upstream):
		return http.StatusBadGateway, true
	}
	return http.StatusInternalServerError, false
}

// respondWithError aborts with the mapped status. Unmapped errors are
// logged and answered with fallback so internals do not leak.
func respondWithError(c *gin.Context, log logging.Logger, err error, fallback string) {
	code, ok := statusForError(err)
	if !ok {
		log.Error(c.Request.Context(), fallback, "method", c.Request.Method, "path", c.FullPath(), "error", err)
		abortWithError(c, code, fallback)
		return
	}
	abortWithError(c, code, err.Error())
}
