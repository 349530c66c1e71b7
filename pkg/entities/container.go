package entities

import (
	"regexp"
)

var (
	containerNameRe = regexp.MustCompile(`(?i)(?:stop|restart|zatrzymaj|zrestartuj|logs? (?:of|z|from))\s+(?:container\s+|kontener[a]?\s+)?["']?([a-zA-Z][a-zA-Z0-9_.\-]+)["']?`)
	containerWordRe = regexp.MustCompile(`(?i)(?:container|kontener[a]?)\s+["']?([a-zA-Z][a-zA-Z0-9_.\-]+)["']?`)
	containerImgRe  = regexp.MustCompile(`(?i)(?:image|obraz[u]?|run|uruchom|pull)\s+["']?([a-z0-9][a-z0-9_.\-/]*(?::[\w.\-]+)?)["']?`)
	containerPortRe = regexp.MustCompile(`(?i)(?:port[u]?|na porcie|-p)\s+(\d{2,5})(?::(\d{2,5}))?`)
	containerTailRe = regexp.MustCompile(`(?i)(?:last|ostatnie?|tail)\s+(\d+)\s*(?:lines?|linii|linijek)?`)
	containerEnvRe  = regexp.MustCompile(`(?i)(?:env|zmienn[aą])\s+([A-Z][A-Z0-9_]*)=(\S+)`)
)

// ExtractContainer pulls container/image names, port mappings, tail line
// counts and environment variables out of a container-engine request.
func ExtractContainer(text string) map[string]string {
	out := map[string]string{}

	if m := containerWordRe.FindStringSubmatch(text); m != nil {
		out["container"] = m[1]
	} else if m := containerNameRe.FindStringSubmatch(text); m != nil {
		out["container"] = m[1]
	}
	if m := containerImgRe.FindStringSubmatch(text); m != nil {
		out["image"] = m[1]
	}
	if m := containerPortRe.FindStringSubmatch(text); m != nil {
		host := m[1]
		guest := m[2]
		if guest == "" {
			guest = host
		}
		out["port"] = host + ":" + guest
	}
	if m := containerTailRe.FindStringSubmatch(text); m != nil {
		out["tail_lines"] = m[1]
	}
	if m := containerEnvRe.FindStringSubmatch(text); m != nil {
		out["env_var"] = m[1] + "=" + m[2]
	}

	return out
}
