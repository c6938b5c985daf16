package databricks

import (
	"context"

	"resty.dev/v3"

	"command-center/internal/infrastructure/logger"
	"command-center/internal/infrastructure/metrics"
	"command-center/internal/utils/platformerrors"
)

// Factory builds a fresh upstream client per request from the resolved
// credential policy. Service credentials are explicit constructor parameters;
// nothing here reads or mutates process environment, so concurrent
// on-behalf-of constructions cannot observe each other.
type Factory struct {
	host           string
	clientID       string
	clientSecret   string
	devMode        bool
	serviceForJobs bool
	http           *resty.Client
	service        TokenSource
}

// NewFactory wires the service identity and policy flags.
func NewFactory(host, clientID, clientSecret string, devMode, serviceForJobs bool, httpClient *resty.Client) *Factory {
	f := &Factory{
		host:           host,
		clientID:       clientID,
		clientSecret:   clientSecret,
		devMode:        devMode,
		serviceForJobs: serviceForJobs,
		http:           httpClient,
	}
	if f.serviceIdentityConfigured() {
		f.service = NewClientCredentialsSource(host, clientID, clientSecret, httpClient)
	}
	return f
}

func (f *Factory) serviceIdentityConfigured() bool {
	return f.host != "" && f.clientID != "" && f.clientSecret != ""
}

// ClientFor resolves the auth mode for the capability and returns a client
// bound to the chosen credential. userToken is the caller's forwarded access
// token, empty when the request was unauthenticated.
func (f *Factory) ClientFor(ctx context.Context, userToken string, capability Capability) (*Client, error) {
	mode, err := ResolveAuthMode(capability, f.devMode, f.serviceForJobs, userToken != "")
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUnauthorized,
			"Authentication required. No user token found.", err)
	}

	log := logger.GetLogger()
	metrics.RecordAuthMode(string(capability), string(mode))

	if mode.UsesServiceIdentity() {
		if !f.serviceIdentityConfigured() {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeExternal,
				"service identity not configured. Set DATABRICKS_HOST, DATABRICKS_CLIENT_ID and DATABRICKS_CLIENT_SECRET", nil)
		}
		log.Debug().
			Str("capability", string(capability)).
			Str("auth_mode", string(mode)).
			Msg("using service identity for upstream call")
		return NewClient(f.host, mode, f.service, f.http), nil
	}

	host := f.host
	if host == "" {
		host = discoverHost()
		if host != "" {
			log.Info().Str("host", host).Msg("workspace host discovered from local CLI config")
		}
	}
	log.Debug().
		Str("capability", string(capability)).
		Str("auth_mode", string(mode)).
		Int("token_length", len(userToken)).
		Msg("using forwarded token for upstream call")
	return NewClient(host, mode, StaticToken(userToken), f.http), nil
}
