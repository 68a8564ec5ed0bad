package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/domain"
	appvalidator "github.com/metinatakli/cinema-booking/internal/validator"
)

const (
	ErrInternalServer   = "The server encountered a problem and could not process your request"
	ErrNotFound         = "The requested resource not found"
	ErrMethodNotAllowed = "The %s method is not supported for this resource"
	ErrValidationFailed = "One or more fields are invalid"
	ErrMovieNotFound    = "Movie not found"
	ErrSlotNotFound     = "Slot not found"
	ErrTicketNotFound   = "Ticket not found"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.contextGetLogger(r).Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, fmt.Sprintf(ErrMethodNotAllowed, r.Method))
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// invalidParamResponse handles path parameters the router could not convert.
func (app *Application) invalidParamResponse(w http.ResponseWriter, r *http.Request, err error) {
	var paramErr *api.InvalidParamFormatError
	if errors.As(err, &paramErr) {
		app.errorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("invalid %s", paramErr.ParamName))
		return
	}

	app.badRequestResponse(w, r, err)
}

// failedValidationResponse reports struct validation failures and core
// validation errors in the same envelope.
func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		fieldErrs validator.ValidationErrors
		domainErr *domain.ValidationError
		details   []api.ValidationError
	)

	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			details = append(details, api.ValidationError{
				Field: fe.Field(),
				Issue: appvalidator.ValidationMessage(fe),
			})
		}
	case errors.As(err, &domainErr):
		details = append(details, api.ValidationError{
			Field: domainErr.Field,
			Issue: domainErr.Issue,
		})
	default:
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ValidationErrorResponse{
		Message:          ErrValidationFailed,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: details,
	}

	err = app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) insufficientCapacityResponse(w http.ResponseWriter, r *http.Request, capErr *domain.InsufficientCapacityError) {
	resp := api.CapacityErrorResponse{
		Message:   capErr.Error(),
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
		Available: capErr.Available,
	}

	err := app.writeJSON(w, http.StatusConflict, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// bookingErrorResponse maps core errors to responses and returns the
// rejection reason recorded in metrics.
func (app *Application) bookingErrorResponse(w http.ResponseWriter, r *http.Request, err error) string {
	var (
		validationErr *domain.ValidationError
		capacityErr   *domain.InsufficientCapacityError
	)

	switch {
	case errors.As(err, &validationErr):
		app.failedValidationResponse(w, r, err)
		return rejectValidation
	case errors.Is(err, domain.ErrMovieNotFound):
		app.errorResponse(w, r, http.StatusNotFound, ErrMovieNotFound)
		return rejectNotFound
	case errors.Is(err, domain.ErrSlotNotFound):
		app.errorResponse(w, r, http.StatusNotFound, ErrSlotNotFound)
		return rejectNotFound
	case errors.As(err, &capacityErr):
		app.insufficientCapacityResponse(w, r, capacityErr)
		return rejectCapacity
	default:
		app.serverErrorResponse(w, r, err)
		return rejectInternal
	}
}
