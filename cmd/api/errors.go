package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgInvalidTextRepresen = "22P02"
)

// stack carries the wrapped error chain in development only.
func (app *application) stack(err error) string {
	if app.config.env != "development" || err == nil {
		return ""
	}
	return fmt.Sprintf("%+v", err)
}

func (app *application) errorResponse(w http.ResponseWriter, status int, message string, err error) {
	writeJSONError(w, status, message, app.stack(err))
}

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	if status, message, ok := classifyDBError(err); ok {
		app.logger.Warnw("database error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		app.errorResponse(w, status, message, err)
		return
	}

	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	app.errorResponse(w, http.StatusInternalServerError, "the server encountered a problem", err)
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	message := err.Error()
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		message = fmt.Sprintf("%s failed on the '%s' rule", verrs[0].Field(), verrs[0].Tag())
	}
	app.errorResponse(w, http.StatusBadRequest, message, err)
}

func (app *application) unauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	app.errorResponse(w, http.StatusUnauthorized, "unauthorized", err)
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
	app.errorResponse(w, http.StatusUnauthorized, "unauthorized", err)
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.logger.Warnw("forbidden", "method", r.Method, "path", r.URL.Path)
	app.errorResponse(w, http.StatusForbidden, "forbidden", nil)
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	app.errorResponse(w, http.StatusNotFound, err.Error(), err)
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("conflict response", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	app.errorResponse(w, http.StatusConflict, err.Error(), err)
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)
	w.Header().Set("Retry-After", retryAfter)
	app.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+retryAfter, nil)
}

// classifyDBError maps well-known postgres error codes to client errors.
func classifyDBError(err error) (int, string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return 0, "", false
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return http.StatusBadRequest, "Field already exists", true
	case pgInvalidTextRepresen:
		return http.StatusNotFound, "Resource Not Found", true
	}
	return 0, "", false
}
