package quarry

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/quarryhq/quarry/internal/kaggle"
)

// -----------------------------------------------------------------------------
// Loader configuration
// -----------------------------------------------------------------------------

// defaultArchiveDepth bounds zip re-entry. Remote services ship files like
// test.tsv.zip, which needs a single unpack step.
const defaultArchiveDepth = 1

// Option configures loader construction.
type Option func(*Loader)

// WithRemoteClient replaces the default Kaggle API client.
// Default: a client resolving credentials from the environment.
func WithRemoteClient(c RemoteClient) Option {
	return func(l *Loader) { l.remote = c }
}

// WithObjectFetcher sets the object-store collaborator used for S3 requests.
// Default: none; S3 requests fail with ErrInvalidRequest.
func WithObjectFetcher(f ObjectFetcher) Option {
	return func(l *Loader) { l.objects = f }
}

// WithLogger sets the logger. Default: zap.NewNop().
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// WithArchiveDepth sets how many nested zip levels a load may unpack.
// Default: 1.
func WithArchiveDepth(depth int) Option {
	return func(l *Loader) { l.archiveDepth = depth }
}

// -----------------------------------------------------------------------------
// Loader
// -----------------------------------------------------------------------------

// Loader turns Requests into Tables. A zero-cost value safe to reuse across
// loads; it holds collaborators and settings, never per-request state beyond
// the one-shot authentication flag.
type Loader struct {
	remote        RemoteClient
	objects       ObjectFetcher
	log           *zap.Logger
	archiveDepth  int
	authenticated bool
}

// New creates a Loader with documented defaults:
//
//   - Remote client: Kaggle API client with environment credentials
//   - Object fetcher: none (configure with WithObjectFetcher)
//   - Logger: zap.NewNop()
//   - Archive depth: 1
func New(opts ...Option) (*Loader, error) {
	l := &Loader{
		remote:       kaggle.New(kaggle.Config{}),
		log:          zap.NewNop(),
		archiveDepth: defaultArchiveDepth,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.remote == nil {
		return nil, errors.New("quarry: remote client must not be nil")
	}
	if l.log == nil {
		return nil, errors.New("quarry: logger must not be nil")
	}
	if l.archiveDepth < 0 {
		return nil, errors.New("quarry: archive depth must not be negative")
	}

	return l, nil
}

// Load validates the request, resolves its source kind, and produces the
// Table. A load either fully succeeds or fails with one of the sentinel
// error kinds; no partial Table is ever returned.
func Load(ctx context.Context, req Request, opts ...Option) (*Table, error) {
	l, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, req)
}

// Load consumes one Request and returns one Table.
func (l *Loader) Load(ctx context.Context, req Request) (*Table, error) {
	src, err := resolveSource(req)
	if err != nil {
		return nil, err
	}

	switch src {
	case sourceLocal:
		l.log.Debug("loading local file", zap.String("path", req.Path))
		return l.loadLocal(req.Path)
	case sourceKaggle:
		l.log.Debug("loading from kaggle",
			zap.String("url", req.KaggleURL),
			zap.String("file", req.KaggleFile))
		return l.loadKaggle(ctx, req)
	case sourceObject:
		if l.objects == nil {
			return nil, fmt.Errorf("%w: S3 request requires an object fetcher (use WithObjectFetcher)", ErrInvalidRequest)
		}
		l.log.Debug("loading from object store", zap.String("uri", req.S3URI))
		return l.loadObject(ctx, req)
	default:
		return nil, ErrInvalidRequest
	}
}

// -----------------------------------------------------------------------------
// Source resolution
// -----------------------------------------------------------------------------

type source int

const (
	sourceLocal source = iota
	sourceKaggle
	sourceObject
)

// resolveSource classifies a Request into exactly one source kind.
// Missing, mixed, or absent field shapes fail with ErrInvalidRequest.
func resolveSource(req Request) (source, error) {
	local := req.Path != ""
	kaggleAny := req.KaggleURL != "" || req.KaggleFile != ""
	kaggleAll := req.KaggleURL != "" && req.KaggleFile != "" && req.DownloadDir != ""
	object := req.S3URI != ""

	switch {
	case local && !kaggleAny && req.DownloadDir == "" && !object:
		return sourceLocal, nil
	case kaggleAll && !local && !object:
		return sourceKaggle, nil
	case object && req.DownloadDir != "" && !local && !kaggleAny:
		return sourceObject, nil
	default:
		return 0, fmt.Errorf("%w: populate exactly one of {Path}, {KaggleURL, KaggleFile, DownloadDir}, {S3URI, DownloadDir}", ErrInvalidRequest)
	}
}
