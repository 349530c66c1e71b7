package entities

import (
	"regexp"
	"strings"
)

var (
	orchResourceRe = regexp.MustCompile(`(?i)\b(pods?|pody|deployments?|services?|serwisy|nodes?|wezly|węzły|namespaces?|configmaps?|secrets?|ingress(?:es)?|jobs?)\b`)
	// Namespace supports both the -n flag form and the prose form
	// "w namespace X" / "in namespace X".
	orchNamespaceRe = regexp.MustCompile(`(?i)(?:-n\s+|(?:w|in)\s+namespace(?:'?ie)?\s+)([a-z0-9][a-z0-9\-]*)`)
	orchReplicasRe  = regexp.MustCompile(`(?i)(?:do|to|na)?\s*(\d+)\s*(?:replik[i]?|replicas?|instancji|instances?)`)
	orchSelectorRe  = regexp.MustCompile(`(?i)(?:label[a-z]*|selector[a-z]*|-l)\s+([a-zA-Z0-9_.\-/]+=[a-zA-Z0-9_.\-]+)`)
	orchNameRe      = regexp.MustCompile(`(?i)(?:deployment|deploymentu|pod[au]?|service)\s+([a-z][a-z0-9\-]{2,})`)
)

// orchCanonical maps resource words (including Polish plurals) to kubectl
// resource names.
var orchCanonical = map[string]string{
	"pod": "pods", "pods": "pods", "pody": "pods",
	"deployment": "deployments", "deployments": "deployments",
	"service": "services", "services": "services", "serwisy": "services",
	"node": "nodes", "nodes": "nodes", "wezly": "nodes", "węzły": "nodes",
	"namespace": "namespaces", "namespaces": "namespaces",
	"configmap": "configmaps", "configmaps": "configmaps",
	"secret": "secrets", "secrets": "secrets",
	"ingress": "ingress", "ingresses": "ingress",
	"job": "jobs", "jobs": "jobs",
}

// ExtractOrchestration pulls resource type, namespace, replica count and
// label selector out of an orchestration request.
func ExtractOrchestration(text string) map[string]string {
	out := map[string]string{}

	if m := orchResourceRe.FindStringSubmatch(text); m != nil {
		word := strings.ToLower(m[1])
		if canonical, ok := orchCanonical[word]; ok {
			out["resource_type"] = canonical
		} else {
			out["resource_type"] = word
		}
	}
	if m := orchNamespaceRe.FindStringSubmatch(text); m != nil {
		out["namespace"] = m[1]
	}
	if m := orchReplicasRe.FindStringSubmatch(text); m != nil {
		out["replica_count"] = m[1]
	}
	if m := orchSelectorRe.FindStringSubmatch(text); m != nil {
		out["selector"] = m[1]
	}
	if m := orchNameRe.FindStringSubmatch(text); m != nil {
		word := strings.ToLower(m[1])
		if _, reserved := orchCanonical[word]; !reserved && word != "namespace" {
			out["name"] = m[1]
		}
	}

	return out
}
