package detect

// keywordRule binds a keyword or phrase to a (domain, intent) pair with a
// base confidence. Tables are package-level, built once, read-only.
type keywordRule struct {
	Keyword    string
	Domain     string
	Intent     string
	Confidence float64
}

// priorityRules are checked before the general tables. They carry intents
// that must win over looser keyword overlap (e.g. "drop" vs "show").
var priorityRules = []keywordRule{
	{Keyword: "drop table", Domain: "sql", Intent: "drop_table", Confidence: 0.95},
	{Keyword: "usuń tabelę", Domain: "sql", Intent: "drop_table", Confidence: 0.95},
	{Keyword: "usun tabele", Domain: "sql", Intent: "drop_table", Confidence: 0.95},
	{Keyword: "truncate", Domain: "sql", Intent: "truncate", Confidence: 0.92},
	{Keyword: "rollback", Domain: "sql", Intent: "rollback", Confidence: 0.92},
	{Keyword: "force delete", Domain: "kubernetes", Intent: "delete", Confidence: 0.92},
}

// generalRules are the broad keyword tables scoped per domain.
var generalRules = []keywordRule{
	// sql
	{Keyword: "select", Domain: "sql", Intent: "select", Confidence: 0.85},
	{Keyword: "pokaż dane", Domain: "sql", Intent: "select", Confidence: 0.8},
	{Keyword: "pokaz dane", Domain: "sql", Intent: "select", Confidence: 0.8},
	{Keyword: "z tabeli", Domain: "sql", Intent: "select", Confidence: 0.8},
	{Keyword: "from table", Domain: "sql", Intent: "select", Confidence: 0.8},
	{Keyword: "insert", Domain: "sql", Intent: "insert", Confidence: 0.85},
	{Keyword: "dodaj rekord", Domain: "sql", Intent: "insert", Confidence: 0.8},
	{Keyword: "update", Domain: "sql", Intent: "update", Confidence: 0.8},
	{Keyword: "zaktualizuj", Domain: "sql", Intent: "update", Confidence: 0.8},
	{Keyword: "policz", Domain: "sql", Intent: "count", Confidence: 0.75},
	{Keyword: "count rows", Domain: "sql", Intent: "count", Confidence: 0.8},

	// shell
	{Keyword: "znajdź pliki", Domain: "shell", Intent: "file_search", Confidence: 0.85},
	{Keyword: "znajdz pliki", Domain: "shell", Intent: "file_search", Confidence: 0.85},
	{Keyword: "find files", Domain: "shell", Intent: "file_search", Confidence: 0.85},
	{Keyword: "wyszukaj pliki", Domain: "shell", Intent: "file_search", Confidence: 0.8},
	{Keyword: "disk usage", Domain: "shell", Intent: "disk_usage", Confidence: 0.85},
	{Keyword: "miejsce na dysku", Domain: "shell", Intent: "disk_usage", Confidence: 0.85},
	{Keyword: "zajętość dysku", Domain: "shell", Intent: "disk_usage", Confidence: 0.85},
	{Keyword: "lista procesów", Domain: "shell", Intent: "process_list", Confidence: 0.85},
	{Keyword: "running processes", Domain: "shell", Intent: "process_list", Confidence: 0.85},
	{Keyword: "grep", Domain: "shell", Intent: "text_search_grep", Confidence: 0.8},
	{Keyword: "szukaj w plikach", Domain: "shell", Intent: "text_search_grep", Confidence: 0.8},
	{Keyword: "backup", Domain: "shell", Intent: "backup_create", Confidence: 0.75},
	{Keyword: "kopia zapasowa", Domain: "shell", Intent: "backup_create", Confidence: 0.8},

	// docker
	{Keyword: "docker ps", Domain: "docker", Intent: "ps", Confidence: 0.9},
	{Keyword: "running containers", Domain: "docker", Intent: "ps", Confidence: 0.85},
	{Keyword: "działające kontenery", Domain: "docker", Intent: "ps", Confidence: 0.85},
	{Keyword: "uruchom kontener", Domain: "docker", Intent: "run", Confidence: 0.85},
	{Keyword: "run container", Domain: "docker", Intent: "run", Confidence: 0.85},
	{Keyword: "zatrzymaj kontener", Domain: "docker", Intent: "stop", Confidence: 0.85},
	{Keyword: "stop container", Domain: "docker", Intent: "stop", Confidence: 0.85},
	{Keyword: "logi kontenera", Domain: "docker", Intent: "logs", Confidence: 0.85},
	{Keyword: "container logs", Domain: "docker", Intent: "logs", Confidence: 0.85},
	{Keyword: "docker images", Domain: "docker", Intent: "images", Confidence: 0.9},

	// kubernetes
	{Keyword: "kubectl get", Domain: "kubernetes", Intent: "get", Confidence: 0.9},
	{Keyword: "pokaż pody", Domain: "kubernetes", Intent: "get", Confidence: 0.85},
	{Keyword: "pokaz pody", Domain: "kubernetes", Intent: "get", Confidence: 0.85},
	{Keyword: "list pods", Domain: "kubernetes", Intent: "get", Confidence: 0.85},
	{Keyword: "przeskaluj", Domain: "kubernetes", Intent: "scale", Confidence: 0.85},
	{Keyword: "scale deployment", Domain: "kubernetes", Intent: "scale", Confidence: 0.85},
	{Keyword: "describe pod", Domain: "kubernetes", Intent: "describe", Confidence: 0.85},
	{Keyword: "opisz pod", Domain: "kubernetes", Intent: "describe", Confidence: 0.8},
}
