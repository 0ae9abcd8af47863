package credentials

import "context"

// Exchanger performs the federation exchange, trading a SAML assertion and a selected role
// entitlement for temporary AWS credentials.  Two bindings exist: the native STS SDK call,
// and invocation of the external AWS CLI.
type Exchanger interface {
	AssumeRole(ctx context.Context, role RoleEntitlement, assertion *SamlAssertion, durationSeconds int32) (*Credentials, error)
}

// CredentialStore persists temporary credentials under a named profile.
type CredentialStore interface {
	Write(profile string, creds *Credentials) error
}
