package db

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAttachAdminRoutes(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.StartSession("test"); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	mux := http.NewServeMux()
	if err := db.AttachAdminRoutes(mux); err != nil {
		t.Fatalf("AttachAdminRoutes failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/debug/backup", nil)
	req.RemoteAddr = "127.0.0.1:12345"
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code == http.StatusNotFound {
		t.Fatal("Route /debug/backup should be registered, got 404")
	}
	if rec.Code == http.StatusForbidden {
		t.Skip("debug access denied for this remote address")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment; filename=wardrive-backup-") {
		t.Errorf("unexpected Content-Disposition: %s", rec.Header().Get("Content-Disposition"))
	}

	gz, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("backup is not gzip: %v", err)
	}
	data, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if !strings.HasPrefix(string(data), "SQLite format 3") {
		t.Errorf("backup does not look like a sqlite database")
	}
}

func TestAttachAdminRoutes_TailSQL(t *testing.T) {
	db := newTestDB(t)
	mux := http.NewServeMux()
	if err := db.AttachAdminRoutes(mux); err != nil {
		t.Fatalf("AttachAdminRoutes failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/debug/tailsql/", nil)
	req.RemoteAddr = "127.0.0.1:12345"
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code == http.StatusNotFound {
		t.Error("Route /debug/tailsql/ should be registered, got 404")
	}
}
