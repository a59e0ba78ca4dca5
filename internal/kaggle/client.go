// Package kaggle implements a minimal Kaggle API v1 client covering
// authentication and single-file downloads for competitions and datasets.
package kaggle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// defaultBaseURL is the public Kaggle API endpoint.
const defaultBaseURL = "https://www.kaggle.com/api/v1"

// maxErrorBody bounds how much of an error response is read for diagnostics.
const maxErrorBody = 4 * 1024

// Config holds configuration for the client.
type Config struct {
	// BaseURL overrides the API endpoint. Optional; used in tests and for
	// proxies.
	BaseURL string

	// HTTPClient overrides the HTTP client. Optional.
	HTTPClient *http.Client

	// Credentials, when non-nil, skip environment resolution in
	// Authenticate.
	Credentials *Credentials
}

// Client talks to the Kaggle API. Construct with New and call Authenticate
// before any download.
type Client struct {
	baseURL string
	http    *http.Client
	creds   Credentials
	ready   bool
}

// New creates a client with documented defaults:
//
//   - BaseURL: https://www.kaggle.com/api/v1
//   - HTTPClient: &http.Client{Timeout: 5 * time.Minute}
//   - Credentials: resolved from the environment on Authenticate
func New(cfg Config) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 5 * time.Minute}
	}
	if cfg.Credentials != nil {
		c.creds = *cfg.Credentials
		c.ready = true
	}
	return c
}

// Authenticate resolves credentials. It performs no network round trip; the
// token is validated by the first download, matching the official client.
func (c *Client) Authenticate(_ context.Context) error {
	if c.ready {
		return nil
	}
	creds, err := LoadCredentials()
	if err != nil {
		return err
	}
	c.creds = creds
	c.ready = true
	return nil
}

// DownloadCompetitionFile fetches one file of a competition into destDir,
// saving it under its URL-escaped name. With force set an existing file is
// overwritten; without it the existing file is kept and the call succeeds.
func (c *Client) DownloadCompetitionFile(ctx context.Context, competition, fileName, destDir string, force bool) error {
	endpoint := c.baseURL + "/competitions/data/download/" + escapePath(competition) + "/" + url.PathEscape(fileName)
	_, err := c.download(ctx, endpoint, fileName, destDir, force)
	return err
}

// DownloadDatasetFile fetches one file of a standalone dataset (identified
// as <owner>/<name>) into destDir. A missing file is reported as
// (false, nil); transport and server failures as (false, err).
func (c *Client) DownloadDatasetFile(ctx context.Context, dataset, fileName, destDir string, force bool) (bool, error) {
	endpoint := c.baseURL + "/datasets/download/" + escapePath(dataset) + "/" + url.PathEscape(fileName)
	status, err := c.download(ctx, endpoint, fileName, destDir, force)
	if status == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// download performs the GET and streams the body to
// destDir/pathEscape(fileName). It returns the HTTP status when a response
// was received, 0 otherwise.
func (c *Client) download(ctx context.Context, endpoint, fileName, destDir string, force bool) (int, error) {
	if !c.ready {
		return 0, errors.New("kaggle: client is not authenticated")
	}

	target := filepath.Join(destDir, url.PathEscape(fileName))
	if !force {
		if _, err := os.Stat(target); err == nil {
			return http.StatusOK, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("kaggle: building request: %w", err)
	}
	req.SetBasicAuth(c.creds.Username, c.creds.Key)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("kaggle: %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, c.apiError(resp)
	}

	if err := save(resp.Body, target); err != nil {
		return resp.StatusCode, fmt.Errorf("kaggle: saving %s: %w", target, err)
	}
	return resp.StatusCode, nil
}

// apiError turns a non-2xx response into an error, decoding the JSON error
// body when the API sent one.
func (c *Client) apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return fmt.Errorf("kaggle: %s: %s", resp.Status, payload.Message)
	}
	return fmt.Errorf("kaggle: unexpected status %s", resp.Status)
}

// save writes r to path, overwriting an existing file.
func save(r io.Reader, path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// escapePath escapes each segment of a slash-separated identifier, keeping
// the separators (dataset refs are <owner>/<name>).
func escapePath(ref string) string {
	segments := strings.Split(ref, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
