package databricks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".databrickscfg")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestHostFromConfigFile(t *testing.T) {
	path := writeConfigFile(t, `# CLI configuration
[DEFAULT]
host = https://adb-1234.azuredatabricks.net/
token = dapi-secret

[staging]
host = https://adb-9999.azuredatabricks.net
`)
	require.Equal(t, "https://adb-1234.azuredatabricks.net", hostFromConfigFile(path))
}

func TestHostFromConfigFileNonDefaultProfileIgnored(t *testing.T) {
	path := writeConfigFile(t, `[staging]
host = https://adb-9999.azuredatabricks.net
`)
	require.Equal(t, "", hostFromConfigFile(path))
}

func TestHostFromConfigFileCommentsAndBlanksSkipped(t *testing.T) {
	path := writeConfigFile(t, `; ini style comment

[default]
# the host below
host=https://adb-5678.gcp.databricks.com
`)
	require.Equal(t, "https://adb-5678.gcp.databricks.com", hostFromConfigFile(path))
}

func TestHostFromConfigFileMissing(t *testing.T) {
	require.Equal(t, "", hostFromConfigFile(filepath.Join(t.TempDir(), "nope")))
}
