package detect

// defaultCorpus holds training phrases per "domain/intent" class. It doubles
// as the phrase source for the semantic fallback index. Polish and English
// phrasings are mixed on purpose; requests arrive in both.
var defaultCorpus = map[string][]string{
	"sql/select": {
		"pokaż dane z tabeli",
		"pokaz wszystkie rekordy",
		"show data from table",
		"select rows from",
		"wyświetl zawartość tabeli",
	},
	"sql/count": {
		"policz rekordy w tabeli",
		"count rows in table",
		"ile jest rekordów",
	},
	"sql/insert": {
		"dodaj rekord do tabeli",
		"insert row into table",
	},
	"sql/update": {
		"zaktualizuj rekordy w tabeli",
		"update rows in table",
	},
	"shell/file_search": {
		"znajdź pliki w katalogu",
		"find files in directory",
		"wyszukaj duże pliki",
		"search for files",
	},
	"shell/disk_usage": {
		"pokaż miejsce na dysku",
		"show disk usage",
		"ile zostało miejsca",
	},
	"shell/process_list": {
		"pokaż działające procesy",
		"list running processes",
		"co zużywa procesor",
	},
	"shell/network": {
		"pokaż adres ip",
		"show ip address",
		"konfiguracja sieci",
		"network configuration",
	},
	"docker/ps": {
		"pokaż działające kontenery",
		"list running containers",
		"docker ps",
	},
	"docker/run": {
		"uruchom kontener z obrazem",
		"run container from image",
	},
	"docker/logs": {
		"pokaż logi kontenera",
		"show container logs",
	},
	"kubernetes/get": {
		"pokaż pody w klastrze",
		"list pods in cluster",
		"kubectl get pods",
	},
	"kubernetes/scale": {
		"przeskaluj deployment",
		"scale deployment replicas",
	},
}
