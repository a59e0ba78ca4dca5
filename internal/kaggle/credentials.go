package kaggle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

// json is a drop-in replacement for encoding/json with better performance.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Credentials hold a Kaggle API token, as issued on the account page.
type Credentials struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

// ErrNoCredentials indicates no usable credentials were found in the
// environment or the Kaggle config directory.
var ErrNoCredentials = errors.New("kaggle: no credentials: set KAGGLE_USERNAME and KAGGLE_KEY or provide kaggle.json")

// LoadCredentials resolves credentials the way the official client does:
// KAGGLE_USERNAME/KAGGLE_KEY environment variables first, then kaggle.json
// under $KAGGLE_CONFIG_DIR (default ~/.kaggle).
func LoadCredentials() (Credentials, error) {
	if user, key := os.Getenv("KAGGLE_USERNAME"), os.Getenv("KAGGLE_KEY"); user != "" && key != "" {
		return Credentials{Username: user, Key: key}, nil
	}

	dir := os.Getenv("KAGGLE_CONFIG_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Credentials{}, ErrNoCredentials
		}
		dir = filepath.Join(home, ".kaggle")
	}

	return readCredentialsFile(filepath.Join(dir, "kaggle.json"))
}

// readCredentialsFile parses a kaggle.json token file.
func readCredentialsFile(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, ErrNoCredentials
		}
		return Credentials{}, fmt.Errorf("kaggle: reading %s: %w", path, err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("kaggle: parsing %s: %w", path, err)
	}
	if creds.Username == "" || creds.Key == "" {
		return Credentials{}, ErrNoCredentials
	}
	return creds, nil
}
