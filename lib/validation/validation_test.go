package validation

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateUpdateTime(t *testing.T) {
	for _, ok := range []string{"00:00", "01:00", "13:37", "23:59"} {
		if err := ValidateUpdateTime(ok); err != nil {
			t.Fatalf("expected %q valid: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "24:00", "12:60", "1:00", "12:5", "noon", "12:00:00"} {
		if err := ValidateUpdateTime(bad); err == nil {
			t.Fatalf("expected %q rejected", bad)
		}
	}
}

func TestValidatePagination(t *testing.T) {
	if err := ValidatePagination(1, 10); err != nil {
		t.Fatalf("expected valid pagination: %v", err)
	}
	if err := ValidatePagination(0, 10); err == nil {
		t.Fatal("expected page 0 rejected")
	}
	if err := ValidatePagination(1, 0); err == nil {
		t.Fatal("expected size 0 rejected")
	}
	if err := ValidatePagination(1, 101); err == nil {
		t.Fatal("expected size 101 rejected")
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("boom"), http.StatusBadRequest)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "boom" {
		t.Fatalf("unexpected body: %v", body)
	}
}
