package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drift-line/nlcmd/core"
)

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := NewDetector(DefaultOptions())
	require.NoError(t, err)
	return d
}

func TestDetectNetworkOverride(t *testing.T) {
	d := newTestDetector(t)

	res := d.Detect("pokaż adres ip")
	assert.Equal(t, "shell", res.Domain)
	assert.Equal(t, "network", res.Intent)
	assert.GreaterOrEqual(t, res.Confidence, 0.9)
	assert.Equal(t, "adres ip", res.MatchedKeyword)
}

func TestDetectDropTableOverride(t *testing.T) {
	d := newTestDetector(t)

	res := d.Detect("drop table customers")
	assert.Equal(t, "sql", res.Domain)
	assert.Equal(t, "drop_table", res.Intent)
	assert.GreaterOrEqual(t, res.Confidence, 0.9)
}

func TestDropTableSuppressedByNonSQLSignal(t *testing.T) {
	d := newTestDetector(t)

	// "drop table" inside an explicit docker request must not win for sql.
	res := d.Detect("docker exec db drop table tmp")
	assert.Equal(t, "docker", res.Domain)
}

func TestDetectSchemaPhrase(t *testing.T) {
	d := newTestDetector(t)

	res := d.Detect("Pokaż dane z tabeli users")
	assert.Equal(t, "sql", res.Domain)
	assert.Equal(t, "select", res.Intent)
	assert.GreaterOrEqual(t, res.Confidence, 0.85)
}

func TestDetectKeywordTable(t *testing.T) {
	d := newTestDetector(t)

	tests := []struct {
		text   string
		domain string
		intent string
	}{
		{"find files in my home", "shell", "file_search"},
		{"show disk usage please", "shell", "disk_usage"},
		{"docker ps", "docker", "ps"},
		{"kubectl get pods -n dev", "kubernetes", "get"},
		{"restart system now", "shell", "system_reboot"},
	}
	for _, tt := range tests {
		res := d.Detect(tt.text)
		assert.Equal(t, tt.domain, res.Domain, "text %q", tt.text)
		assert.Equal(t, tt.intent, res.Intent, "text %q", tt.text)
	}
}

func TestDetectFuzzyTypo(t *testing.T) {
	d := newTestDetector(t)

	// One transposition away from "docker ps".
	res := d.Detect("dokcer ps")
	assert.Equal(t, "docker", res.Domain)
}

func TestDetectUnknownDefault(t *testing.T) {
	d := newTestDetector(t)

	res := d.Detect("xyzzy plugh quux")
	assert.Equal(t, "unknown", res.Domain)
	assert.Equal(t, "unknown", res.Intent)
	assert.Equal(t, 0.0, res.Confidence)
}

func TestConfidenceAlwaysInRange(t *testing.T) {
	d := newTestDetector(t)

	inputs := []string{
		"pokaż adres ip",
		"Pokaż dane z tabeli users",
		"docker ps",
		"xyzzy",
		"",
		"find files larger than 100 MB in /var/log",
	}
	for _, text := range inputs {
		res := d.Detect(text)
		assert.GreaterOrEqual(t, res.Confidence, 0.0, "text %q", text)
		assert.LessOrEqual(t, res.Confidence, 1.0, "text %q", text)
	}
}

func TestDetectAllDeduplicatesAndSorts(t *testing.T) {
	d := newTestDetector(t)

	all := d.DetectAll("pokaż dane z tabeli users")
	require.NotEmpty(t, all)

	seen := make(map[string]bool)
	for i, res := range all {
		key := res.Domain + "/" + res.Intent
		assert.False(t, seen[key], "duplicate pair %s", key)
		seen[key] = true
		if i > 0 {
			assert.LessOrEqual(t, res.Confidence, all[i-1].Confidence)
		}
	}
}

func TestClassifierStageOrdering(t *testing.T) {
	opts := DefaultOptions()
	opts.Classifier = DefaultClassifier()
	d, err := NewDetector(opts)
	require.NoError(t, err)

	// Classifier present: cascade still resolves and clamps confidence.
	res := d.Detect("pokaż działające kontenery")
	assert.Equal(t, "docker", res.Domain)
	assert.LessOrEqual(t, res.Confidence, 1.0)
}

func TestBagOfWordsClassifier(t *testing.T) {
	c := DefaultClassifier()

	res, ok := c.Classify("policz rekordy w tabeli orders")
	require.True(t, ok)
	assert.Equal(t, "sql", res.Domain)

	_, ok = c.Classify("")
	assert.False(t, ok)
}

func TestSimilarityRatio(t *testing.T) {
	assert.Equal(t, 1.0, similarityRatio("docker ps", "docker ps"))
	assert.Greater(t, similarityRatio("dokcer ps", "docker ps"), 0.7)
	assert.Less(t, similarityRatio("apples", "kubernetes"), 0.4)
}

func TestOverrideStageDirect(t *testing.T) {
	s := NewOverrideStage()

	res, ok := s.TryDetect("zrestartuj usługę nginx")
	require.True(t, ok)
	assert.Equal(t, "shell", res.Domain)
	assert.Equal(t, "service_restart", res.Intent)

	_, ok = s.TryDetect("completely unrelated text")
	assert.False(t, ok)
}

var _ core.DetectionStrategy = (*OverrideStage)(nil)
