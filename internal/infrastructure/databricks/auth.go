package databricks

import "errors"

// ErrAuthenticationRequired is returned when a capability needs the caller's
// forwarded token and the request carried none.
var ErrAuthenticationRequired = errors.New("authentication required: no user token found")

// Capability classifies an upstream operation for credential selection.
type Capability string

const (
	// CapabilityGeneral covers analytics reads: conversations, SQL
	// statements, workspace listings.
	CapabilityGeneral Capability = "general"
	// CapabilityJobs covers job orchestration, which may be forced onto the
	// service identity independently of dev mode.
	CapabilityJobs Capability = "jobs"
	// CapabilityStrictService always uses the service identity, e.g. model
	// serving calls made on the platform's own behalf.
	CapabilityStrictService Capability = "strict_service"
)

// AuthMode is the credential decision for one upstream call.
type AuthMode string

const (
	// AuthModeDevService selects the service identity because dev mode is on.
	AuthModeDevService AuthMode = "dev_service"
	// AuthModeForcedService selects the service identity by capability policy.
	AuthModeForcedService AuthMode = "forced_service"
	// AuthModeOnBehalfOf selects the caller's forwarded token.
	AuthModeOnBehalfOf AuthMode = "on_behalf_of"
)

// UsesServiceIdentity reports whether the mode authenticates as the service.
func (m AuthMode) UsesServiceIdentity() bool {
	return m == AuthModeDevService || m == AuthModeForcedService
}

// ResolveAuthMode applies the credential decision table. Rules are evaluated
// in order and the first match wins:
//
//  1. strict-service capability: service identity, unconditionally
//  2. dev mode: service identity
//  3. jobs capability with the jobs override set: service identity
//  4. no forwarded token: ErrAuthenticationRequired
//  5. otherwise: on-behalf-of with the forwarded token
func ResolveAuthMode(capability Capability, devMode, serviceForJobs, hasToken bool) (AuthMode, error) {
	switch {
	case capability == CapabilityStrictService:
		return AuthModeForcedService, nil
	case devMode:
		return AuthModeDevService, nil
	case capability == CapabilityJobs && serviceForJobs:
		return AuthModeForcedService, nil
	case !hasToken:
		return "", ErrAuthenticationRequired
	default:
		return AuthModeOnBehalfOf, nil
	}
}
