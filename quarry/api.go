// Package quarry loads tabular datasets from local files, Kaggle, or
// S3-compatible object stores into a single in-memory representation.
//
// Quarry focuses on the loading pipeline: request validation, dispatch by
// source kind, archive extraction, and remote-download orchestration. It does
// not implement schema validation, caching, or formats beyond delimited text
// and zip archives of delimited text.
package quarry

import "context"

// -----------------------------------------------------------------------------
// Core types
// -----------------------------------------------------------------------------

// Request describes one dataset to load. Exactly one of the three shapes
// must be fully populated:
//
//   - Local file:   Path
//   - Kaggle:       KaggleURL, KaggleFile, DownloadDir
//   - S3 object:    S3URI, DownloadDir
//
// Any other combination fails with ErrInvalidRequest.
type Request struct {
	// Path points at a local delimited-text file (.txt or .csv).
	Path string

	// KaggleURL is a dataset or competition page URL on www.kaggle.com.
	KaggleURL string

	// KaggleFile is the name of the file to download from Kaggle.
	KaggleFile string

	// DownloadDir is the root directory downloaded files are placed under.
	// Required for the Kaggle and S3 shapes.
	DownloadDir string

	// S3URI names an object as s3://bucket/key.
	S3URI string
}

// ResourceKind classifies a Kaggle URL by its path prefix.
type ResourceKind string

const (
	// KindCompetition identifies URLs under /competitions/.
	KindCompetition ResourceKind = "competition"

	// KindDataset identifies URLs under /datasets/.
	KindDataset ResourceKind = "dataset"
)

// -----------------------------------------------------------------------------
// Collaborator interfaces
// -----------------------------------------------------------------------------

// RemoteClient abstracts the Kaggle API.
//
// The two download operations report failure differently: the competition
// call returns an error, the dataset call additionally returns false when the
// service declines the download without a transport error. The loader
// normalizes both into ErrDownloadFailed.
type RemoteClient interface {
	// Authenticate resolves and validates credentials. Called once per
	// loader, before the first download.
	Authenticate(ctx context.Context) error

	// DownloadCompetitionFile fetches one file of a competition into destDir.
	// When force is set an existing file is overwritten.
	DownloadCompetitionFile(ctx context.Context, competition, fileName, destDir string, force bool) error

	// DownloadDatasetFile fetches one file of a standalone dataset into
	// destDir. A false result with nil error means the service declined the
	// download (for example an unknown file).
	DownloadDatasetFile(ctx context.Context, dataset, fileName, destDir string, force bool) (bool, error)
}

// ObjectFetcher abstracts an object store used as a dataset source.
//
// Implementations may target S3-compatible backends; see the s3 subpackage.
type ObjectFetcher interface {
	// Fetch streams the object bucket/key to the local file dest,
	// overwriting an existing file.
	Fetch(ctx context.Context, bucket, key, dest string) error
}

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

// Error sentinel values for the terminal failure kinds of a load.
var (
	// ErrInvalidRequest indicates a Request that populates none, several, or
	// part of the accepted field shapes.
	ErrInvalidRequest = errInvalidRequest{}

	// ErrPathNotFound indicates a local path that is missing or not a
	// regular file.
	ErrPathNotFound = errPathNotFound{}

	// ErrUnsupportedFormat indicates a file extension outside the supported
	// set. The wrapping error names the offending extension.
	ErrUnsupportedFormat = errUnsupportedFormat{}

	// ErrInvalidURL indicates a remote URL with the wrong host, scheme, or
	// path prefix.
	ErrInvalidURL = errInvalidURL{}

	// ErrDownloadFailed indicates the remote collaborator reported failure.
	ErrDownloadFailed = errDownloadFailed{}
)

type errInvalidRequest struct{}

func (errInvalidRequest) Error() string { return "invalid request" }

type errPathNotFound struct{}

func (errPathNotFound) Error() string { return "path not found" }

type errUnsupportedFormat struct{}

func (errUnsupportedFormat) Error() string { return "unsupported format" }

type errInvalidURL struct{}

func (errInvalidURL) Error() string { return "invalid URL" }

type errDownloadFailed struct{}

func (errDownloadFailed) Error() string { return "download failed" }
