package quarry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// loadLocal is the entry point for the local-file source. Only delimited
// text is accepted here; archives and .tsv files are reachable through the
// remote flow alone.
func (l *Loader) loadLocal(path string) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrPathNotFound, path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".csv":
		return l.read(path, 0)
	default:
		return nil, fmt.Errorf("%w: %q (supported: .txt, .csv)", ErrUnsupportedFormat, ext)
	}
}

// read dispatches a concrete file path by extension, unpacking archives and
// re-entering on the extracted file. depth counts archive levels already
// unpacked on this load.
func (l *Loader) read(path string, depth int) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		return l.parseFile(path, ',')
	case ".tsv":
		return l.parseFile(path, '\t')
	case ".zip":
		return l.readArchive(path, depth)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// readArchive unpacks the archive into its parent directory and re-enters
// the dispatcher on the archive path minus its .zip suffix. The remote
// service names archives after their single top-level entry; when that
// convention is violated the extracted path does not exist and the load
// fails with ErrUnsupportedFormat.
func (l *Loader) readArchive(path string, depth int) (*Table, error) {
	if depth >= l.archiveDepth {
		return nil, fmt.Errorf("%w: %q nested beyond depth %d", ErrUnsupportedFormat, ".zip", l.archiveDepth)
	}

	dir := filepath.Dir(path)
	l.log.Debug("extracting archive", zap.String("path", path), zap.String("dir", dir))
	if err := extractArchive(path, dir); err != nil {
		return nil, err
	}

	inner := path[:len(path)-len(".zip")]
	if _, err := os.Stat(inner); err != nil {
		return nil, fmt.Errorf("%w: archive %s did not contain %s", ErrUnsupportedFormat, filepath.Base(path), filepath.Base(inner))
	}

	return l.read(inner, depth+1)
}

// parseFile decodes a delimited-text file into a Table.
func (l *Loader) parseFile(path string, comma rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return nil, fmt.Errorf("quarry: opening %s: %w", path, err)
	}
	defer closer(f)()

	table, err := decodeDelimited(f, comma)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.log.Debug("parsed table",
		zap.String("path", path),
		zap.Int("columns", table.Width()),
		zap.Int("rows", table.Len()))
	return table, nil
}
