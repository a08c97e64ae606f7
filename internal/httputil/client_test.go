package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStandardClient_Wraps(t *testing.T) {
	customClient := &http.Client{}
	if NewStandardClient(customClient).Client != customClient {
		t.Error("expected custom client to be wrapped")
	}
	if NewStandardClient(nil).Client != http.DefaultClient {
		t.Error("expected nil to select http.DefaultClient")
	}
}

func TestGetJSON_Decodes(t *testing.T) {
	mock := NewMockHTTPClient().AddResponse(http.StatusOK, `{"total": 7, "located": 5}`)

	var got struct {
		Total   int `json:"total"`
		Located int `json:"located"`
	}
	if err := GetJSON(context.Background(), mock, "http://pi:8080/api/summary", &got); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if got.Total != 7 || got.Located != 5 {
		t.Errorf("unexpected decode: %+v", got)
	}
	if mock.RequestCount() != 1 {
		t.Fatalf("got %d requests, want 1", mock.RequestCount())
	}
	req := mock.Requests[0]
	if req.Method != http.MethodGet || req.URL.Path != "/api/summary" {
		t.Errorf("unexpected request: %s %s", req.Method, req.URL)
	}
	if req.Header.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q", req.Header.Get("Accept"))
	}
}

func TestGetJSON_Errors(t *testing.T) {
	ctx := context.Background()
	var v map[string]any

	mock := NewMockHTTPClient().AddResponse(http.StatusServiceUnavailable, `{"error": "archive disabled"}`)
	err := GetJSON(ctx, mock, "http://pi/api/summary", &v)
	if err == nil || !strings.Contains(err.Error(), "503 archive disabled") {
		t.Errorf("expected server message in error, got %v", err)
	}

	mock = NewMockHTTPClient().AddResponse(http.StatusNotFound, "404 page not found")
	err = GetJSON(ctx, mock, "http://pi/api/nope", &v)
	if err == nil || !strings.Contains(err.Error(), "404 Not Found") {
		t.Errorf("expected status text in error, got %v", err)
	}

	mock = NewMockHTTPClient().AddResponse(http.StatusOK, "not json")
	if err := GetJSON(ctx, mock, "http://pi/api/summary", &v); err == nil {
		t.Error("expected decode error")
	}

	refused := errors.New("connection refused")
	mock = NewMockHTTPClient().AddErrorResponse(refused)
	if err := GetJSON(ctx, mock, "http://pi/api/summary", &v); !errors.Is(err, refused) {
		t.Errorf("expected wrapped transport error, got %v", err)
	}
}

func TestGetJSON_RealServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONOK(w, map[string]string{"path": r.URL.Path})
	}))
	defer srv.Close()

	var got map[string]string
	if err := GetJSON(context.Background(), NewStandardClient(srv.Client()), srv.URL+"/api/status", &got); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if got["path"] != "/api/status" {
		t.Errorf("path = %q", got["path"])
	}
}

func TestMockHTTPClient_DefaultError(t *testing.T) {
	mock := NewMockHTTPClient()
	mock.DefaultError = errors.New("offline")

	req := httptest.NewRequest(http.MethodGet, "http://pi/api/status", nil)
	if _, err := mock.Do(req); err == nil {
		t.Error("expected default error")
	}
	if mock.RequestCount() != 1 {
		t.Errorf("request not recorded")
	}
}
