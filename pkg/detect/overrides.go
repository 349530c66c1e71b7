package detect

import (
	"strings"

	"github.com/drift-line/nlcmd/core"
)

// OverrideStage holds the explicit domain overrides. These fire before the
// keyword tables and each reports the literal rule that matched, so the
// outcome is deterministic regardless of the looser stages below.
type OverrideStage struct{}

// NewOverrideStage creates the explicit-override stage.
func NewOverrideStage() *OverrideStage {
	return &OverrideStage{}
}

// Name implements core.DetectionStrategy.
func (s *OverrideStage) Name() string { return "overrides" }

var (
	dropTableMarkers = []string{"drop table", "usuń tabelę", "usun tabele", "skasuj tabelę", "skasuj tabele"}
	sqlContextWords  = []string{"table", "tabel", "sql", "database", "baza", "bazy"}
	nonSQLSignals    = []string{"docker", "kontener", "container", "kubectl", "kubernetes", "pod ", "plik", "file"}

	containerKeywords = []string{"docker", "kontener", "container"}
	orchKeywords      = []string{"kubectl", "kubernetes", "k8s", "namespace", "deployment"}
	rebootPhrases     = []string{"zrestartuj system", "restart system", "reboot", "uruchom ponownie komputer", "uruchom ponownie system"}
	restartPhrases    = []string{"zrestartuj usługę", "zrestartuj usluge", "restart service", "restart usługi", "restart uslugi"}
	networkPhrases    = []string{"adres ip", "ip address", "konfiguracja sieci", "network interfaces"}
)

// TryDetect implements core.DetectionStrategy. Overrides are evaluated in a
// fixed order; the first hit wins.
func (s *OverrideStage) TryDetect(text string) (core.DetectionResult, bool) {
	lower := strings.ToLower(text)

	// SQL DROP TABLE only fires with SQL context and without a more
	// explicit non-SQL signal in the same text.
	if kw := containsAny(lower, dropTableMarkers); kw != "" {
		if containsAny(lower, sqlContextWords) != "" && containsAny(lower, nonSQLSignals) == "" {
			return core.DetectionResult{
				Domain:         "sql",
				Intent:         "drop_table",
				Confidence:     0.95,
				MatchedKeyword: kw,
			}, true
		}
	}

	if kw := containsAny(lower, containerKeywords); kw != "" {
		return core.DetectionResult{
			Domain:         "docker",
			Intent:         dockerIntentFor(lower),
			Confidence:     0.9,
			MatchedKeyword: kw,
		}, true
	}

	if kw := containsAny(lower, orchKeywords); kw != "" {
		return core.DetectionResult{
			Domain:         "kubernetes",
			Intent:         orchIntentFor(lower),
			Confidence:     0.9,
			MatchedKeyword: kw,
		}, true
	}

	if kw := containsAny(lower, rebootPhrases); kw != "" {
		return core.DetectionResult{
			Domain:         "shell",
			Intent:         "system_reboot",
			Confidence:     0.95,
			MatchedKeyword: kw,
		}, true
	}

	if kw := containsAny(lower, restartPhrases); kw != "" {
		return core.DetectionResult{
			Domain:         "shell",
			Intent:         "service_restart",
			Confidence:     0.92,
			MatchedKeyword: kw,
		}, true
	}

	if kw := containsAny(lower, networkPhrases); kw != "" {
		return core.DetectionResult{
			Domain:         "shell",
			Intent:         "network",
			Confidence:     0.9,
			MatchedKeyword: kw,
		}, true
	}

	return core.DetectionResult{}, false
}

// dockerIntentFor narrows the docker override to a concrete intent.
func dockerIntentFor(lower string) string {
	switch {
	case strings.Contains(lower, "logs") || strings.Contains(lower, "logi"):
		return "logs"
	case strings.Contains(lower, "stop") || strings.Contains(lower, "zatrzymaj"):
		return "stop"
	case strings.Contains(lower, "restart") || strings.Contains(lower, "zrestartuj"):
		return "restart"
	case strings.Contains(lower, "run") || strings.Contains(lower, "uruchom"):
		return "run"
	case strings.Contains(lower, "images") || strings.Contains(lower, "obrazy"):
		return "images"
	default:
		return "ps"
	}
}

// orchIntentFor narrows the orchestration override to a concrete intent.
func orchIntentFor(lower string) string {
	switch {
	case strings.Contains(lower, "scale") || strings.Contains(lower, "przeskaluj"):
		return "scale"
	case strings.Contains(lower, "describe") || strings.Contains(lower, "opisz"):
		return "describe"
	case strings.Contains(lower, "delete") || strings.Contains(lower, "usuń") || strings.Contains(lower, "usun"):
		return "delete"
	case strings.Contains(lower, "logs") || strings.Contains(lower, "logi"):
		return "logs"
	default:
		return "get"
	}
}

func containsAny(lower string, phrases []string) string {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return p
		}
	}
	return ""
}
