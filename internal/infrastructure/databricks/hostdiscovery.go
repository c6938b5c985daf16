package databricks

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// discoverHost looks for a workspace host in the local CLI config file
// (~/.databrickscfg, DEFAULT profile). It is a secondary fallback when
// DATABRICKS_HOST is not set; failure is not an error, the caller gets an
// empty host and the eventual upstream call fails with a clear message.
func discoverHost() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return hostFromConfigFile(filepath.Join(home, ".databrickscfg"))
}

func hostFromConfigFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	inDefault := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			profile := strings.TrimSpace(line[1 : len(line)-1])
			inDefault = strings.EqualFold(profile, "DEFAULT")
			continue
		}
		if !inDefault {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		if strings.TrimSpace(key) == "host" {
			return strings.TrimRight(strings.TrimSpace(value), "/")
		}
	}
	return ""
}
