package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/umatomo/predict-api/internal/domain/prediction"
	"github.com/umatomo/predict-api/internal/usecase"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("apiVersion: got=%v want=2.0", body["apiVersion"])
	}
	return body
}

func TestWriteSuccess_Envelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d want=200", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_Envelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got=%d want=400", rec.Code)
	}
	errorObj, ok := decodeEnvelope(t, rec)["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("error status: got=%v want=INVALID_ARGUMENT", errorObj["status"])
	}
}

func TestWriteInternalError_HidesDetail(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeInternalError(context.Background(), rec)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got=%d want=500", rec.Code)
	}
	errorObj, _ := decodeEnvelope(t, rec)["error"].(map[string]any)
	if got, _ := errorObj["message"].(string); got != "internal server error" {
		t.Fatalf("message: got=%q want=%q", got, "internal server error")
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
	}{
		{"invalid input", usecase.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"invalid prediction", prediction.ErrInvalidPrediction, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"duplicate slots", prediction.ErrDuplicateSlots, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"not found", usecase.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("%w: race derby-2026", usecase.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"forbidden", usecase.ErrForbidden, http.StatusForbidden, "PERMISSION_DENIED"},
		{"dependency unavailable", usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			class := classify(tc.err)
			if class.httpStatus != tc.wantCode {
				t.Fatalf("code: got=%d want=%d", class.httpStatus, tc.wantCode)
			}
			if class.status != tc.wantStatus {
				t.Fatalf("status: got=%q want=%q", class.status, tc.wantStatus)
			}
		})
	}
}
