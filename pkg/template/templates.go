package template

// commandTemplates maps "domain/intent" to a placeholder template.
// Placeholders use {name} and are filled from the normalized entity map;
// *_clause and *_flag values carry their own leading separators so empty
// ones collapse cleanly.
var commandTemplates = map[string]string{
	// sql
	"sql/select":     "SELECT {columns} FROM {table}{where_clause}{order_clause}{limit_clause};",
	"sql/count":      "SELECT COUNT(*) FROM {table}{where_clause};",
	"sql/insert":     "INSERT INTO {table} ({columns}) VALUES ({values});",
	"sql/update":     "UPDATE {table} SET {assignments}{where_clause};",
	"sql/drop_table": "DROP TABLE {table};",
	"sql/truncate":   "TRUNCATE TABLE {table};",

	// shell
	"shell/file_search":      "find {scope}{filter_args}",
	"shell/disk_usage":       "df {human_flag}",
	"shell/process_list":     "ps aux --sort={sort_key} | head -n {limit}",
	"shell/network":          "ip addr show",
	"shell/system_reboot":    "sudo reboot",
	"shell/service_restart":  "sudo systemctl restart {service}",
	"shell/text_search_grep": "grep -rn \"{query}\" {scope}",
	"shell/backup_create":    "tar -czf {archive} {path}",

	// docker
	"docker/ps":      "docker ps",
	"docker/images":  "docker images",
	"docker/run":     "docker run{detach_flag}{port_flags}{env_flags} {image}",
	"docker/stop":    "docker stop {container}",
	"docker/restart": "docker restart {container}",
	"docker/logs":    "docker logs{tail_flag} {container}",

	// kubernetes
	"kubernetes/get":      "kubectl get {resource_type}{namespace_flag}{selector_flag}",
	"kubernetes/scale":    "kubectl scale deployment {name} --replicas={replica_count}{namespace_flag}",
	"kubernetes/describe": "kubectl describe {resource_type} {name}{namespace_flag}",
	"kubernetes/delete":   "kubectl delete {resource_type} {name}{namespace_flag}",
	"kubernetes/logs":     "kubectl logs {name}{namespace_flag}{tail_flag}",

	// browser (fixed intent set, no prefix category)
	"browser/browser_open":       "open {url}",
	"browser/browser_search":     "open \"https://duckduckgo.com/?q={query}\"",
	"browser/browser_screenshot": "screenshot {url} {output}",

	// generic DSL passthrough
	"dsl/describe": "describe {entity}",
	"dsl/list":     "list {entity}",
}
