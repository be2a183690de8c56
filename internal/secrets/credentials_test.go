package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceAccountJSONFromEnv(t *testing.T) {
	t.Setenv(EnvCredentials, `{"type": "service_account", "project_id": "x"}`)

	b, err := ServiceAccountJSON("")
	require.NoError(t, err)
	assert.Contains(t, string(b), "service_account")
}

func TestServiceAccountJSONRejectsGarbage(t *testing.T) {
	t.Setenv(EnvCredentials, `{"type": "service_acc`) // truncated paste

	_, err := ServiceAccountJSON("")
	assert.Error(t, err)
}

func TestServiceAccountJSONMissing(t *testing.T) {
	t.Setenv(EnvCredentials, "")

	_, err := ServiceAccountJSON("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetRequiresAccountName(t *testing.T) {
	assert.Error(t, SetServiceAccountJSON("", []byte(`{}`)))
	assert.Error(t, DeleteServiceAccountJSON(" "))
}
