package databricks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"resty.dev/v3"

	"command-center/internal/utils/platformerrors"
)

// TokenSource yields a bearer token for upstream calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource wrapping a caller-forwarded token.
type StaticToken string

// Token returns the wrapped token.
func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

type oauthTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// clientCredentialsSource exchanges OAuth M2M service credentials for a
// workspace access token via {host}/oidc/v1/token. Tokens are cached until
// shortly before expiry.
type clientCredentialsSource struct {
	host         string
	clientID     string
	clientSecret string
	http         *resty.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewClientCredentialsSource builds a TokenSource for the service identity.
func NewClientCredentialsSource(host, clientID, clientSecret string, http *resty.Client) TokenSource {
	return &clientCredentialsSource{
		host:         host,
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         http,
	}
}

func (s *clientCredentialsSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.expiresAt) {
		return s.token, nil
	}

	var body oauthTokenResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetBasicAuth(s.clientID, s.clientSecret).
		SetFormData(map[string]string{
			"grant_type": "client_credentials",
			"scope":      "all-apis",
		}).
		SetResult(&body).
		Post(s.host + "/oidc/v1/token")
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, "service identity token exchange failed", err)
	}
	if resp.IsError() {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			fmt.Sprintf("service identity token exchange failed: %s", resp.String()), nil)
	}
	if body.AccessToken == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, "service identity token exchange returned no access token", nil)
	}

	s.token = body.AccessToken
	// Refresh one minute early to avoid using a token at the expiry edge.
	ttl := time.Duration(body.ExpiresIn) * time.Second
	if ttl > time.Minute {
		ttl -= time.Minute
	}
	s.expiresAt = time.Now().Add(ttl)
	return s.token, nil
}
