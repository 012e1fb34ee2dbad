package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/umatomo/predict-api/internal/domain/prediction"
	"github.com/umatomo/predict-api/internal/usecase"
)

// Responses follow the Google JSON style guide: every body is an envelope
// with apiVersion plus either data or error.
const (
	googleAPIVersion = "2.0"
	errorDomain      = "predict-api"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// errorClass groups the sentinel errors that map onto one HTTP status.
type errorClass struct {
	httpStatus int
	reason     string
	status     string
	sentinels  []error
}

var errorClasses = []errorClass{
	{
		httpStatus: http.StatusBadRequest,
		reason:     "invalidInput",
		status:     "INVALID_ARGUMENT",
		sentinels:  []error{usecase.ErrInvalidInput, prediction.ErrInvalidPrediction, prediction.ErrDuplicateSlots},
	},
	{
		httpStatus: http.StatusNotFound,
		reason:     "notFound",
		status:     "NOT_FOUND",
		sentinels:  []error{usecase.ErrNotFound},
	},
	{
		httpStatus: http.StatusUnauthorized,
		reason:     "unauthorized",
		status:     "UNAUTHENTICATED",
		sentinels:  []error{usecase.ErrUnauthorized},
	},
	{
		httpStatus: http.StatusForbidden,
		reason:     "forbidden",
		status:     "PERMISSION_DENIED",
		sentinels:  []error{usecase.ErrForbidden},
	},
	{
		httpStatus: http.StatusServiceUnavailable,
		reason:     "dependencyUnavailable",
		status:     "UNAVAILABLE",
		sentinels:  []error{usecase.ErrDependencyUnavailable},
	},
}

var internalErrorClass = errorClass{
	httpStatus: http.StatusInternalServerError,
	reason:     "internalError",
	status:     "INTERNAL",
}

func classify(err error) errorClass {
	for _, class := range errorClasses {
		for _, sentinel := range class.sentinels {
			if errors.Is(err, sentinel) {
				return class
			}
		}
	}
	return internalErrorClass
}

func (c errorClass) body(message string) *googleErrorBody {
	return &googleErrorBody{
		Code:    c.httpStatus,
		Message: message,
		Status:  c.status,
		Errors: []googleErrorItem{
			{Domain: errorDomain, Reason: c.reason, Message: message},
		},
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{APIVersion: googleAPIVersion, Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	class := classify(err)
	writeJSON(ctx, w, class.httpStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error:      class.body(err.Error()),
	})
}

// writeInternalError hides the underlying error text from clients.
func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error:      internalErrorClass.body("internal server error"),
	})
}
