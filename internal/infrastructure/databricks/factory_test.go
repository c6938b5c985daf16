package databricks_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"resty.dev/v3"

	"command-center/internal/infrastructure/databricks"
	"command-center/internal/utils/platformerrors"
)

func newTestFactory(host string, devMode, serviceForJobs bool) *databricks.Factory {
	return databricks.NewFactory(host, "client-id", "client-secret", devMode, serviceForJobs, resty.New())
}

func TestClientForMissingTokenFailsBeforeAnyUpstreamCall(t *testing.T) {
	var upstreamCalls atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	factory := newTestFactory(upstream.URL, false, false)

	_, err := factory.ClientFor(context.Background(), "", databricks.CapabilityGeneral)
	require.Error(t, err)
	require.ErrorIs(t, err, databricks.ErrAuthenticationRequired)
	require.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized))
	require.Contains(t, err.Error(), "Authentication required. No user token found.")
	require.Zero(t, upstreamCalls.Load(), "credential resolution must not touch the upstream")
}

func TestClientForDevModeUsesServiceIdentity(t *testing.T) {
	factory := newTestFactory("https://workspace.example.com", true, false)

	client, err := factory.ClientFor(context.Background(), "user-token", databricks.CapabilityGeneral)
	require.NoError(t, err)
	require.Equal(t, databricks.AuthModeDevService, client.AuthMode())

	// Without a token dev mode still yields a service client.
	client, err = factory.ClientFor(context.Background(), "", databricks.CapabilityJobs)
	require.NoError(t, err)
	require.Equal(t, databricks.AuthModeDevService, client.AuthMode())
}

func TestClientForJobsOverrideForcesServiceIdentity(t *testing.T) {
	factory := newTestFactory("https://workspace.example.com", false, true)

	client, err := factory.ClientFor(context.Background(), "user-token", databricks.CapabilityJobs)
	require.NoError(t, err)
	require.Equal(t, databricks.AuthModeForcedService, client.AuthMode())

	// The override is scoped to job orchestration.
	client, err = factory.ClientFor(context.Background(), "user-token", databricks.CapabilityGeneral)
	require.NoError(t, err)
	require.Equal(t, databricks.AuthModeOnBehalfOf, client.AuthMode())
}

func TestClientForStrictServiceAlwaysUsesServiceIdentity(t *testing.T) {
	factory := newTestFactory("https://workspace.example.com", false, false)

	client, err := factory.ClientFor(context.Background(), "user-token", databricks.CapabilityStrictService)
	require.NoError(t, err)
	require.Equal(t, databricks.AuthModeForcedService, client.AuthMode())
}

func TestClientForServiceIdentityNotConfigured(t *testing.T) {
	factory := databricks.NewFactory("https://workspace.example.com", "", "", true, false, resty.New())

	_, err := factory.ClientFor(context.Background(), "user-token", databricks.CapabilityGeneral)
	require.Error(t, err)
	require.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
	require.Contains(t, err.Error(), "service identity not configured")
}

func TestClientForOnBehalfOfBindsForwardedToken(t *testing.T) {
	factory := newTestFactory("https://workspace.example.com", false, false)

	client, err := factory.ClientFor(context.Background(), "forwarded-token", databricks.CapabilityGeneral)
	require.NoError(t, err)
	require.Equal(t, databricks.AuthModeOnBehalfOf, client.AuthMode())

	token, err := client.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "forwarded-token", token)
}

func TestClientForConcurrentOnBehalfOfConstructionsAreIsolated(t *testing.T) {
	factory := newTestFactory("https://workspace.example.com", false, false)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			want := fmt.Sprintf("token-%d", i)
			client, err := factory.ClientFor(context.Background(), want, databricks.CapabilityGeneral)
			if err != nil {
				errs[i] = err
				return
			}
			got, err := client.Token(context.Background())
			if err != nil {
				errs[i] = err
				return
			}
			if got != want {
				errs[i] = fmt.Errorf("client bound to %q, want %q", got, want)
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}
}
