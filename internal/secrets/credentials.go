package secrets

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups this app's secrets in the OS keychain.
	KeyringService = "internship-tracker"

	// EnvCredentials is the deploy-time escape hatch: the full
	// service-account JSON blob in one environment variable.
	EnvCredentials = "GOOGLE_CREDENTIALS"
)

var ErrNotFound = errors.New("service-account credentials not found (set GOOGLE_CREDENTIALS or store them with -set-credentials)")

// ServiceAccountJSON resolves the Google service-account key. The environment
// wins over the keyring so cron/CI deployments never touch the keychain.
// Missing credentials are a configuration error; callers abort before any
// network activity.
func ServiceAccountJSON(keyringAccount string) ([]byte, error) {
	if v := os.Getenv(EnvCredentials); strings.TrimSpace(v) != "" {
		return validate([]byte(v))
	}

	if strings.TrimSpace(keyringAccount) != "" {
		v, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(v) != "" {
			return validate([]byte(v))
		}
	}

	return nil, ErrNotFound
}

// validate rejects blobs that aren't even JSON objects, so a truncated paste
// fails here with a clear error instead of deep inside the Sheets client.
func validate(b []byte) ([]byte, error) {
	var probe map[string]any
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil, errors.New("service-account credentials are not valid JSON")
	}
	return b, nil
}

func SetServiceAccountJSON(keyringAccount string, blob []byte) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if _, err := validate(blob); err != nil {
		return err
	}
	return keyring.Set(KeyringService, keyringAccount, string(blob))
}

func DeleteServiceAccountJSON(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}
