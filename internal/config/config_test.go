package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"command-center/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "command-center-api", cfg.ServiceName)
	require.Equal(t, ":8000", cfg.Addr())
	require.Equal(t, ":9090", cfg.MetricsAddr())
	require.False(t, cfg.DevMode)
	require.False(t, cfg.ServiceIdentityConfigured())
}

func TestLoadNormalizesHost(t *testing.T) {
	t.Setenv("DATABRICKS_HOST", "adb-1234.azuredatabricks.net/")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "https://adb-1234.azuredatabricks.net", cfg.DatabricksHost)
}

func TestServiceIdentityConfigured(t *testing.T) {
	t.Setenv("DATABRICKS_HOST", "https://adb-1234.azuredatabricks.net")
	t.Setenv("DATABRICKS_CLIENT_ID", "client-id")
	t.Setenv("DATABRICKS_CLIENT_SECRET", "client-secret")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.True(t, cfg.ServiceIdentityConfigured())
}

func TestPolicyFlags(t *testing.T) {
	t.Setenv("DEV_MODE", "true")
	t.Setenv("USE_SP_FOR_JOBS", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.True(t, cfg.DevMode)
	require.True(t, cfg.UseServiceForJobs)
}
