package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	// CredentialsType is the "$$type" discriminator carried by every serialized credentials value.
	CredentialsType = "@backstage/BackstageCredentials"
	// CredentialsVersion is the only supported credentials wire version.
	CredentialsVersion = "v1"
)

var (
	// ErrInvalidArgument is returned when a constructor receives missing or inapplicable input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidCredentials is returned when a serialized credentials value cannot be accepted.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Credentials is an immutable, request-scoped statement of who the caller is.
//
// The bearer token a value was created from is retained for outbound use
// (see Token) but is never part of its JSON or string forms.
// The zero value behaves as the none principal.
type Credentials struct {
	principal Principal
	token     string
	expiresAt time.Time
}

// CredentialsOption customises a credentials constructor.
type CredentialsOption func(*credentialsOptions)

type credentialsOptions struct {
	token        string
	expiresAt    time.Time
	restrictions *AccessRestrictions
	actor        *string
}

// WithToken retains the raw token the caller authenticated with.
func WithToken(token string) CredentialsOption {
	return func(o *credentialsOptions) {
		o.token = token
	}
}

// WithExpiresAt records when the user's token expires. User principals only.
func WithExpiresAt(expiresAt time.Time) CredentialsOption {
	return func(o *credentialsOptions) {
		o.expiresAt = expiresAt
	}
}

// WithAccessRestrictions scopes a service principal. Service principals only.
func WithAccessRestrictions(restrictions AccessRestrictions) CredentialsOption {
	return func(o *credentialsOptions) {
		cloned := restrictions.clone()
		o.restrictions = &cloned
	}
}

// WithActor attaches a service principal with the given subject acting on
// the user's behalf. User principals only.
func WithActor(subject string) CredentialsOption {
	return func(o *credentialsOptions) {
		o.actor = &subject
	}
}

func applyOptions(opts []CredentialsOption) credentialsOptions {
	var o credentialsOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// NewServicePrincipalCredentials creates credentials for a backend service caller.
func NewServicePrincipalCredentials(subject string, opts ...CredentialsOption) (Credentials, error) {
	o := applyOptions(opts)
	if o.actor != nil {
		return Credentials{}, fmt.Errorf("%w: service principals cannot have an actor", ErrInvalidArgument)
	}
	if !o.expiresAt.IsZero() {
		return Credentials{}, fmt.Errorf("%w: service principals do not carry an expiry", ErrInvalidArgument)
	}

	principal, err := newServicePrincipal(subject, o.restrictions)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{principal: principal, token: o.token}, nil
}

// NewUserPrincipalCredentials creates credentials for an end user identified by userEntityRef.
func NewUserPrincipalCredentials(userEntityRef string, opts ...CredentialsOption) (Credentials, error) {
	if userEntityRef == "" {
		return Credentials{}, fmt.Errorf("%w: user entity ref is required", ErrInvalidArgument)
	}

	o := applyOptions(opts)
	if o.restrictions != nil && !o.restrictions.IsEmpty() {
		return Credentials{}, fmt.Errorf("%w: access restrictions only apply to service principals", ErrInvalidArgument)
	}

	principal := UserPrincipal{userEntityRef: userEntityRef}
	if o.actor != nil {
		actor, err := newServicePrincipal(*o.actor, nil)
		if err != nil {
			return Credentials{}, fmt.Errorf("actor for %s: %w", userEntityRef, err)
		}
		principal.actor = &actor
	}

	return Credentials{principal: principal, token: o.token, expiresAt: o.expiresAt}, nil
}

// NewNonePrincipalCredentials creates credentials for an anonymous caller.
func NewNonePrincipalCredentials() Credentials {
	return Credentials{principal: NonePrincipal{}}
}

// Principal returns the principal the credentials were created for.
func (c Credentials) Principal() Principal {
	if c.principal == nil {
		return NonePrincipal{}
	}
	return c.principal
}

// PrincipalType returns the discriminator of the principal.
func (c Credentials) PrincipalType() PrincipalType {
	return c.Principal().Type()
}

// ServicePrincipal returns the service principal when the credentials belong to a service.
func (c Credentials) ServicePrincipal() (ServicePrincipal, bool) {
	p, ok := c.principal.(ServicePrincipal)
	return p, ok
}

// UserPrincipal returns the user principal when the credentials belong to a user.
func (c Credentials) UserPrincipal() (UserPrincipal, bool) {
	p, ok := c.principal.(UserPrincipal)
	return p, ok
}

// Token returns the raw token the credentials were created from, or "".
// Intended for forwarding the caller's identity on outbound requests only.
func (c Credentials) Token() string {
	return c.token
}

// ExpiresAt returns the expiry of the underlying user token, if known.
func (c Credentials) ExpiresAt() (time.Time, bool) {
	return c.expiresAt, !c.expiresAt.IsZero()
}

// IsPrincipal reports whether creds belong to a principal of the given type.
func IsPrincipal(creds Credentials, principalType PrincipalType) bool {
	return creds.PrincipalType() == principalType
}

// String returns the diagnostic form, e.g. "backstageCredentials{servicePrincipal{my-service}}".
func (c Credentials) String() string {
	return "backstageCredentials{" + c.Principal().String() + "}"
}

// GoString keeps %#v from printing the token.
func (c Credentials) GoString() string {
	return c.String()
}

// LogValue implements slog.LogValuer.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("principal", string(c.PrincipalType())),
		slog.String("credentials", c.String()),
	)
}
