package main

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Same pattern the frontend enforces on sign-up.
	Validate.RegisterValidation("habitatemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	// Indian mobile numbers, optionally prefixed with +91.
	Validate.RegisterValidation("contactno", func(fl validator.FieldLevel) bool {
		return contactPattern.MatchString(fl.Field().String())
	})
}

var contactPattern = regexp.MustCompile(`^(\+91[\- ]?)?[0-9]{10}$`)

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// it parses body into Go struct.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1_048_578 //1mb
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(data)
}

// ErrorResponse is the body of every failed request.
//
//	@name	ErrorResponse
type ErrorResponse struct {
	IsSuccess bool   `json:"isSuccess" example:"false"`
	Message   string `json:"message" example:"Invalid venue"`
	Stack     string `json:"stack,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, message, stack string) error {
	return writeJSON(w, status, &ErrorResponse{
		IsSuccess: false,
		Message:   message,
		Stack:     stack,
	})
}

type envelope struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message,omitempty"`
	Count     *int   `json:"count,omitempty"`
	Data      any    `json:"data,omitempty"`
}

func (app *application) jsonResponse(w http.ResponseWriter, status int, message string, data any) error {
	return writeJSON(w, status, &envelope{IsSuccess: true, Message: message, Data: data})
}

func (app *application) listResponse(w http.ResponseWriter, status int, data any, count int) error {
	return writeJSON(w, status, &envelope{IsSuccess: true, Count: &count, Data: data})
}
