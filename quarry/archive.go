package quarry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// extractArchive unpacks every entry of the zip archive at archivePath into
// destDir, overwriting existing files. Entry names are validated so an entry
// cannot escape destDir.
func extractArchive(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("quarry: opening archive %s: %w", archivePath, err)
	}
	defer closer(zr)()

	for _, entry := range zr.File {
		target, err := safeEntryPath(destDir, entry.Name)
		if err != nil {
			return err
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("quarry: extracting %s: %w", entry.Name, err)
			}
			continue
		}

		if err := extractEntry(entry, target); err != nil {
			return fmt.Errorf("quarry: extracting %s: %w", entry.Name, err)
		}
	}

	return nil
}

// extractEntry writes a single archive entry to target, creating parent
// directories as needed.
func extractEntry(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer closer(rc)()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// safeEntryPath resolves an archive entry name under destDir, rejecting
// absolute names and names that traverse outside the destination.
func safeEntryPath(destDir, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))

	if cleaned == "." || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("quarry: archive entry %q: invalid name", name)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("quarry: archive entry %q: escapes destination", name)
	}

	return filepath.Join(destDir, cleaned), nil
}
