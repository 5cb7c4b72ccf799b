package responses

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/icevibe/pos-terminal/pkg/errors"
)

func TestWriteSuccessWrapsData(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"status": "ok"})

	if w.Code != 200 {
		t.Fatalf("status = %d", w.Code)
	}
	var payload struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Data["status"] != "ok" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestWriteErrorUsesCodeMetadata(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found"))

	if w.Code != 404 {
		t.Fatalf("status = %d", w.Code)
	}
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Code != "NOT_FOUND" || payload.Error.Message != "cart line not found" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, pkgerrors.New(pkgerrors.CodeInternal, "sql blew up"))

	if w.Code != 500 {
		t.Fatalf("status = %d", w.Code)
	}
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Message != "internal server error" {
		t.Fatalf("internal message leaked: %+v", payload)
	}
}
