package kaggle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{
		BaseURL:     server.URL,
		Credentials: &Credentials{Username: "alice", Key: "secret"},
	})
}

func TestDownloadCompetitionFile_Success(t *testing.T) {
	var gotPath, gotUser, gotKey string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotKey, _ = r.BasicAuth()
		_, _ = w.Write([]byte("A,B\n1,2\n"))
	}))

	dir := t.TempDir()
	err := client.DownloadCompetitionFile(context.Background(), "comp-x", "train.csv", dir, true)
	if err != nil {
		t.Fatalf("DownloadCompetitionFile failed: %v", err)
	}

	if gotPath != "/competitions/data/download/comp-x/train.csv" {
		t.Errorf("path mismatch: got %q", gotPath)
	}
	if gotUser != "alice" || gotKey != "secret" {
		t.Errorf("basic auth mismatch: got %q/%q", gotUser, gotKey)
	}

	content, err := os.ReadFile(filepath.Join(dir, "train.csv"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != "A,B\n1,2\n" {
		t.Errorf("content mismatch: got %q", content)
	}
}

func TestDownloadCompetitionFile_EscapedName(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("A\n1\n"))
	}))

	dir := t.TempDir()
	err := client.DownloadCompetitionFile(context.Background(), "nuts", "tree nuts.csv", dir, true)
	if err != nil {
		t.Fatalf("DownloadCompetitionFile failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "tree%20nuts.csv")); err != nil {
		t.Errorf("expected URL-escaped file name on disk: %v", err)
	}
}

func TestDownloadCompetitionFile_ErrorBody(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "You must accept the competition rules"}`))
	}))

	err := client.DownloadCompetitionFile(context.Background(), "comp-x", "train.csv", t.TempDir(), true)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "competition rules") {
		t.Errorf("error should carry the API message, got %v", err)
	}
}

func TestDownloadCompetitionFile_KeepExistingWithoutForce(t *testing.T) {
	calls := 0
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte("new"))
	}))

	dir := t.TempDir()
	existing := filepath.Join(dir, "train.csv")
	if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := client.DownloadCompetitionFile(context.Background(), "comp-x", "train.csv", dir, false); err != nil {
		t.Fatalf("DownloadCompetitionFile failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no request without force, got %d", calls)
	}

	content, _ := os.ReadFile(existing)
	if string(content) != "old" {
		t.Errorf("existing file must be kept, got %q", content)
	}

	// With force the file is overwritten.
	if err := client.DownloadCompetitionFile(context.Background(), "comp-x", "train.csv", dir, true); err != nil {
		t.Fatalf("DownloadCompetitionFile failed: %v", err)
	}
	content, _ = os.ReadFile(existing)
	if string(content) != "new" {
		t.Errorf("expected overwrite with force, got %q", content)
	}
}

func TestDownloadDatasetFile_Success(t *testing.T) {
	var gotPath string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("A\n1\n"))
	}))

	ok, err := client.DownloadDatasetFile(context.Background(), "owner/name", "f.csv", t.TempDir(), true)
	if err != nil {
		t.Fatalf("DownloadDatasetFile failed: %v", err)
	}
	if !ok {
		t.Error("expected ok=true")
	}
	if gotPath != "/datasets/download/owner/name/f.csv" {
		t.Errorf("path mismatch: got %q", gotPath)
	}
}

func TestDownloadDatasetFile_NotFound(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	ok, err := client.DownloadDatasetFile(context.Background(), "owner/name", "missing.csv", t.TempDir(), true)
	if err != nil {
		t.Fatalf("expected nil error for 404, got %v", err)
	}
	if ok {
		t.Error("expected ok=false for 404")
	}
}

func TestDownloadDatasetFile_ServerError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	ok, err := client.DownloadDatasetFile(context.Background(), "owner/name", "f.csv", t.TempDir(), true)
	if err == nil {
		t.Fatal("expected error for 500")
	}
	if ok {
		t.Error("expected ok=false")
	}
}

func TestDownload_NotAuthenticated(t *testing.T) {
	client := New(Config{BaseURL: "http://localhost:0"})
	err := client.DownloadCompetitionFile(context.Background(), "c", "f.csv", t.TempDir(), true)
	if err == nil {
		t.Error("expected error for unauthenticated client")
	}
}

func TestAuthenticate_ConfiguredCredentials(t *testing.T) {
	client := New(Config{Credentials: &Credentials{Username: "u", Key: "k"}})
	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
}

func TestAuthenticate_NoCredentials(t *testing.T) {
	t.Setenv("KAGGLE_USERNAME", "")
	t.Setenv("KAGGLE_KEY", "")
	t.Setenv("KAGGLE_CONFIG_DIR", t.TempDir())

	client := New(Config{})
	if err := client.Authenticate(context.Background()); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("expected ErrNoCredentials, got %v", err)
	}
}
