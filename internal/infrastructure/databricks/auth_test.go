package databricks_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"command-center/internal/infrastructure/databricks"
)

func TestResolveAuthMode(t *testing.T) {
	tests := []struct {
		name           string
		capability     databricks.Capability
		devMode        bool
		serviceForJobs bool
		hasToken       bool
		want           databricks.AuthMode
		wantErr        error
	}{
		{
			name:       "strict service ignores forwarded token",
			capability: databricks.CapabilityStrictService,
			hasToken:   true,
			want:       databricks.AuthModeForcedService,
		},
		{
			name:       "strict service without token",
			capability: databricks.CapabilityStrictService,
			want:       databricks.AuthModeForcedService,
		},
		{
			name:       "dev mode overrides general",
			capability: databricks.CapabilityGeneral,
			devMode:    true,
			hasToken:   true,
			want:       databricks.AuthModeDevService,
		},
		{
			name:       "dev mode overrides jobs",
			capability: databricks.CapabilityJobs,
			devMode:    true,
			want:       databricks.AuthModeDevService,
		},
		{
			name:           "jobs override forces service",
			capability:     databricks.CapabilityJobs,
			serviceForJobs: true,
			hasToken:       true,
			want:           databricks.AuthModeForcedService,
		},
		{
			name:           "jobs override does not leak into general",
			capability:     databricks.CapabilityGeneral,
			serviceForJobs: true,
			hasToken:       true,
			want:           databricks.AuthModeOnBehalfOf,
		},
		{
			name:       "general with token runs on behalf of caller",
			capability: databricks.CapabilityGeneral,
			hasToken:   true,
			want:       databricks.AuthModeOnBehalfOf,
		},
		{
			name:       "jobs with token and no override runs on behalf of caller",
			capability: databricks.CapabilityJobs,
			hasToken:   true,
			want:       databricks.AuthModeOnBehalfOf,
		},
		{
			name:       "general without token requires authentication",
			capability: databricks.CapabilityGeneral,
			wantErr:    databricks.ErrAuthenticationRequired,
		},
		{
			name:       "jobs without token and no override requires authentication",
			capability: databricks.CapabilityJobs,
			wantErr:    databricks.ErrAuthenticationRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := databricks.ResolveAuthMode(tt.capability, tt.devMode, tt.serviceForJobs, tt.hasToken)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, mode)
		})
	}
}

func TestAuthModeUsesServiceIdentity(t *testing.T) {
	require.True(t, databricks.AuthModeDevService.UsesServiceIdentity())
	require.True(t, databricks.AuthModeForcedService.UsesServiceIdentity())
	require.False(t, databricks.AuthModeOnBehalfOf.UsesServiceIdentity())
}
