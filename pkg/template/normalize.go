package template

import (
	"fmt"
	"strconv"
	"strings"
)

// SQLFilter is one loose where_field/where_value pair.
type SQLFilter struct {
	Field string
	Value string
}

// SQLOrder is one ordering term; Direction defaults to ASC.
type SQLOrder struct {
	Field     string
	Direction string
}

// normalizeSQL builds filter and ordering lists from loose extracted fields
// and renders the composite clauses the templates expect.
func normalizeSQL(entities map[string]string, acc map[string]string) ([]SQLFilter, []SQLOrder) {
	var filters []SQLFilter
	if f, v := entities["where_field"], entities["where_value"]; f != "" && v != "" {
		filters = append(filters, SQLFilter{Field: f, Value: v})
	}

	var ordering []SQLOrder
	if ob := entities["order_by"]; ob != "" {
		dir := entities["order_direction"]
		if dir == "" {
			dir = "ASC"
		}
		ordering = append(ordering, SQLOrder{Field: ob, Direction: dir})
	}

	setIfMissing(acc, "columns", "*")

	if agg := entities["aggregation"]; agg != "" {
		acc["columns"] = agg + "(*)"
	}

	if len(filters) > 0 {
		terms := make([]string, len(filters))
		for i, f := range filters {
			terms[i] = fmt.Sprintf("%s = '%s'", f.Field, f.Value)
		}
		acc["where_clause"] = " WHERE " + strings.Join(terms, " AND ")
	} else {
		setIfMissing(acc, "where_clause", "")
	}

	if len(ordering) > 0 {
		terms := make([]string, len(ordering))
		for i, o := range ordering {
			terms[i] = o.Field + " " + o.Direction
		}
		acc["order_clause"] = " ORDER BY " + strings.Join(terms, ", ")
	} else {
		setIfMissing(acc, "order_clause", "")
	}

	if limit := entities["limit"]; limit != "" {
		acc["limit_clause"] = " LIMIT " + limit
	} else {
		setIfMissing(acc, "limit_clause", "")
	}

	return filters, ordering
}

// ShellFilter is one find(1) predicate derived from extracted attributes.
type ShellFilter struct {
	Attribute string // "name" | "size"
	Value     string
}

// normalizeShell builds the file_search filter list and defaults scope ".".
func normalizeShell(intent string, entities map[string]string, acc map[string]string) []ShellFilter {
	setIfMissing(acc, "scope", ".")

	if intent != "file_search" {
		return nil
	}

	var filters []ShellFilter
	if p := entities["pattern"]; p != "" {
		filters = append(filters, ShellFilter{Attribute: "name", Value: p})
	}
	if s := entities["size"]; s != "" {
		filters = append(filters, ShellFilter{Attribute: "size", Value: s})
	}
	if n := entities["process"]; n != "" && len(filters) == 0 {
		filters = append(filters, ShellFilter{Attribute: "name", Value: n})
	}

	var parts []string
	for _, f := range filters {
		switch f.Attribute {
		case "name":
			parts = append(parts, fmt.Sprintf("-name \"%s\"", f.Value))
		case "size":
			parts = append(parts, "-size "+f.Value)
		}
	}
	if len(parts) > 0 {
		acc["filter_args"] = " " + strings.Join(parts, " ")
	} else {
		setIfMissing(acc, "filter_args", " -type f")
	}

	if p := entities["path"]; p != "" {
		acc["scope"] = p
	}

	return filters
}

// normalizeContainer folds port/env entities into flag lists, casts
// tail_lines to an integer and defaults detach for run.
func normalizeContainer(intent string, entities map[string]string, acc map[string]string) error {
	if port := entities["port"]; port != "" {
		acc["port_flags"] = " -p " + port
	} else {
		setIfMissing(acc, "port_flags", "")
	}

	if env := entities["env_var"]; env != "" {
		acc["env_flags"] = " -e " + env
	} else {
		setIfMissing(acc, "env_flags", "")
	}

	if tail := entities["tail_lines"]; tail != "" {
		n, err := strconv.Atoi(tail)
		if err != nil {
			return fmt.Errorf("tail_lines %q is not an integer", tail)
		}
		acc["tail_flag"] = fmt.Sprintf(" --tail %d", n)
	} else {
		setIfMissing(acc, "tail_flag", "")
	}

	if intent == "run" {
		// Detached by default; foreground must be asked for explicitly.
		if entities["detach"] == "false" {
			acc["detach_flag"] = ""
		} else {
			acc["detach_flag"] = " -d"
		}
	}

	if c := entities["container"]; c != "" {
		setIfMissing(acc, "container", c)
	} else if img := entities["image"]; img != "" {
		setIfMissing(acc, "container", img)
	}
	if img := entities["image"]; img != "" {
		setIfMissing(acc, "image", img)
	}
	return nil
}

// normalizeOrchestration casts replica_count and renders flag fragments.
func normalizeOrchestration(entities map[string]string, acc map[string]string) error {
	if rc := entities["replica_count"]; rc != "" {
		n, err := strconv.Atoi(rc)
		if err != nil {
			return fmt.Errorf("replica_count %q is not an integer", rc)
		}
		acc["replica_count"] = strconv.Itoa(n)
	}

	if ns := entities["namespace"]; ns != "" {
		acc["namespace_flag"] = " -n " + ns
	} else {
		setIfMissing(acc, "namespace_flag", "")
	}

	if sel := entities["selector"]; sel != "" {
		acc["selector_flag"] = " -l " + sel
	} else {
		setIfMissing(acc, "selector_flag", "")
	}

	if tail := entities["tail_lines"]; tail != "" {
		acc["tail_flag"] = " --tail " + tail
	} else {
		setIfMissing(acc, "tail_flag", "")
	}

	// Required placeholders must stay absent when extraction found nothing,
	// so Generate reports them as missing instead of collapsing them.
	if rt := entities["resource_type"]; rt != "" {
		setIfMissing(acc, "resource_type", rt)
	}
	if name := entities["name"]; name != "" {
		setIfMissing(acc, "name", name)
	}
	return nil
}

// normalizeDSL defaults a missing entity field from the call context.
func normalizeDSL(entities map[string]string, context map[string]string, acc map[string]string) {
	if e := entities["entity"]; e != "" {
		acc["entity"] = e
	} else if e := context["entity"]; e != "" {
		acc["entity"] = e
	}
}
