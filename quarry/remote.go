package quarry

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// kaggleHost is the only host accepted for Kaggle requests.
const kaggleHost = "www.kaggle.com"

// resource identifies what a Kaggle URL points at.
type resource struct {
	// kind is determined solely by the URL path prefix.
	kind ResourceKind

	// ref is the identifier passed to the API: the competition name, or
	// <owner>/<name> for a dataset.
	ref string

	// dir is the destination subdirectory name: the competition name, or
	// only <name> for a dataset.
	dir string
}

// parseResource maps a Kaggle URL onto a resource.
func parseResource(rawURL string) (resource, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return resource{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Host != kaggleHost {
		return resource{}, fmt.Errorf("%w: expected host %s, got %q", ErrInvalidURL, kaggleHost, u.Host)
	}

	switch {
	case strings.HasPrefix(u.Path, "/competitions/"):
		name := strings.TrimPrefix(u.Path, "/competitions/")
		name = strings.TrimSuffix(name, "/data")
		if name == "" {
			return resource{}, fmt.Errorf("%w: missing competition name in %q", ErrInvalidURL, u.Path)
		}
		return resource{kind: KindCompetition, ref: name, dir: name}, nil

	case strings.HasPrefix(u.Path, "/datasets/"):
		ref := strings.TrimPrefix(u.Path, "/datasets/")
		if ref == "" || path.Base(ref) == "." {
			return resource{}, fmt.Errorf("%w: missing dataset id in %q", ErrInvalidURL, u.Path)
		}
		return resource{kind: KindDataset, ref: ref, dir: path.Base(ref)}, nil

	default:
		return resource{}, fmt.Errorf("%w: path %q must start with /competitions/ or /datasets/", ErrInvalidURL, u.Path)
	}
}

// loadKaggle orchestrates a remote load: parse the URL, prepare the
// destination directory, delegate the download, and dispatch the local path
// the service wrote. The service URL-escapes file names when saving, so the
// expected local path uses the same path-segment encoding.
func (l *Loader) loadKaggle(ctx context.Context, req Request) (*Table, error) {
	if !l.authenticated {
		if err := l.remote.Authenticate(ctx); err != nil {
			return nil, fmt.Errorf("quarry: authenticate: %w", err)
		}
		l.authenticated = true
	}

	res, err := parseResource(req.KaggleURL)
	if err != nil {
		return nil, err
	}

	destDir := filepath.Join(req.DownloadDir, url.PathEscape(res.dir))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("quarry: preparing %s: %w", destDir, err)
	}

	l.log.Info("downloading from kaggle",
		zap.String("kind", string(res.kind)),
		zap.String("resource", res.ref),
		zap.String("file", req.KaggleFile),
		zap.String("dir", destDir))

	switch res.kind {
	case KindCompetition:
		if err := l.remote.DownloadCompetitionFile(ctx, res.ref, req.KaggleFile, destDir, true); err != nil {
			return nil, fmt.Errorf("%w: competition %q: %v", ErrDownloadFailed, res.ref, err)
		}
	case KindDataset:
		ok, err := l.remote.DownloadDatasetFile(ctx, res.ref, req.KaggleFile, destDir, true)
		if err != nil {
			return nil, fmt.Errorf("%w: dataset %q: %v", ErrDownloadFailed, res.ref, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: dataset %q declined download of %q", ErrDownloadFailed, res.ref, req.KaggleFile)
		}
	}

	local := filepath.Join(destDir, url.PathEscape(req.KaggleFile))
	return l.read(local, 0)
}

// loadObject downloads an s3://bucket/key object into the download directory
// and dispatches the local file.
func (l *Loader) loadObject(ctx context.Context, req Request) (*Table, error) {
	u, err := url.Parse(req.S3URI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || u.Host == "" || key == "" {
		return nil, fmt.Errorf("%w: %q is not of the form s3://bucket/key", ErrInvalidURL, req.S3URI)
	}

	destDir := filepath.Join(req.DownloadDir, url.PathEscape(u.Host))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("quarry: preparing %s: %w", destDir, err)
	}

	dest := filepath.Join(destDir, url.PathEscape(path.Base(key)))
	l.log.Info("downloading object",
		zap.String("bucket", u.Host),
		zap.String("key", key),
		zap.String("dest", dest))

	if err := l.objects.Fetch(ctx, u.Host, key, dest); err != nil {
		return nil, fmt.Errorf("%w: s3://%s/%s: %v", ErrDownloadFailed, u.Host, key, err)
	}

	return l.read(dest, 0)
}
