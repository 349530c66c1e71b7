package entities

import (
	"regexp"
	"strings"
)

var (
	shellPathRe    = regexp.MustCompile(`(?i)(?:in|w|under|inside|katalogu|folderze|directory|dir)\s+((?:/|~/|\./)[\w./\-]*)`)
	shellPatternRe = regexp.MustCompile(`(?i)(?:\*\.(\w+)|plik[oó]?w?[iy]?\s+\.?(\w{2,5})\b|\.(\w{2,5})\s+files?)`)
	shellSizeRe    = regexp.MustCompile(`(?i)(?:larger than|bigger than|wieksz[ey]+ niz|większ[ey]+ niż|over|ponad)\s+(\d+)\s*(kb|mb|gb|k|m|g)?`)
	shellProcessRe = regexp.MustCompile(`(?i)(?:process|proces[uy]?|pid of|kill)\s+["']?([a-zA-Z0-9_\-]+)["']?`)
)

// shellSizeUnits normalizes size suffixes to find(1) units.
var shellSizeUnits = map[string]string{
	"kb": "k", "k": "k",
	"mb": "M", "m": "M",
	"gb": "G", "g": "G",
}

// ExtractShell pulls path, file pattern, size and process fields out of a
// shell-flavored request. Size and file-pattern are mutually exclusive for
// one match span: a size match never also populates the pattern field.
func ExtractShell(text string) map[string]string {
	out := map[string]string{}

	if m := shellPathRe.FindStringSubmatch(text); m != nil {
		out["path"] = m[1]
	}

	sizeLoc := shellSizeRe.FindStringSubmatchIndex(text)
	if sizeLoc != nil {
		m := shellSizeRe.FindStringSubmatch(text)
		unit := "M"
		if u, ok := shellSizeUnits[strings.ToLower(m[2])]; ok {
			unit = u
		}
		out["size"] = "+" + m[1] + unit
	}

	if loc := shellPatternRe.FindStringSubmatchIndex(text); loc != nil {
		// Skip pattern candidates that fall inside the size match span,
		// e.g. the "mb" of "100 MB" must not become a file extension.
		insideSize := sizeLoc != nil && loc[0] >= sizeLoc[0] && loc[1] <= sizeLoc[1]
		if !insideSize {
			m := shellPatternRe.FindStringSubmatch(text)
			ext := firstNonEmpty(m[1], m[2], m[3])
			if ext != "" {
				out["pattern"] = "*." + strings.ToLower(ext)
			}
		}
	}

	if m := shellProcessRe.FindStringSubmatch(text); m != nil {
		out["process"] = m[1]
	}

	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
