package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drift-line/nlcmd/pkg/detect"
)

func newTestRules(t *testing.T) *Rules {
	t.Helper()
	det, err := detect.NewDetector(detect.DefaultOptions())
	require.NoError(t, err)
	return NewRules(det, nil)
}

func TestProcessSQLSelect(t *testing.T) {
	r := newTestRules(t)

	res := r.Process("Pokaż dane z tabeli users")

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "sql", res.Domain)
	assert.Equal(t, "select", res.Intent)
	assert.Equal(t, "SELECT * FROM users;", res.Command)
	assert.Equal(t, "users", res.Entities["table"])
}

func TestProcessNetworkOverride(t *testing.T) {
	r := newTestRules(t)

	res := r.Process("pokaż adres ip")

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "shell", res.Domain)
	assert.Equal(t, "network", res.Intent)
	assert.Equal(t, "ip addr show", res.Command)
	assert.GreaterOrEqual(t, res.Confidence, 0.9)
}

func TestProcessUnrecognized(t *testing.T) {
	r := newTestRules(t)

	res := r.Process("zzz qqq xxx")

	assert.False(t, res.Success)
	assert.Equal(t, "unknown", res.Domain)
	assert.Equal(t, "intent not recognized", res.Error)
	assert.Empty(t, res.Command)
}

func TestProcessDockerPs(t *testing.T) {
	r := newTestRules(t)

	res := r.Process("docker ps")

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "docker", res.Domain)
	assert.Equal(t, "docker ps", res.Command)
}

func TestProcessScaleWithoutNameFails(t *testing.T) {
	r := newTestRules(t)

	res := r.Process("przeskaluj deployment do 3 replik")

	require.False(t, res.Success)
	assert.Equal(t, "kubernetes", res.Domain)
	assert.Contains(t, res.Error, "name")
	assert.Empty(t, res.Command)
}
