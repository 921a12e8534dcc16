package auth

import "fmt"

// PrincipalType describes the kind of caller a credentials value represents.
type PrincipalType string

const (
	// PrincipalTypeNone represents an anonymous, unauthenticated caller.
	PrincipalTypeNone PrincipalType = "none"
	// PrincipalTypeService represents a backend service caller.
	PrincipalTypeService PrincipalType = "service"
	// PrincipalTypeUser represents an end user, possibly acting through a service.
	PrincipalTypeUser PrincipalType = "user"
)

// Principal is the identified subject of a Credentials value.
// The set of implementations is closed: NonePrincipal, ServicePrincipal and UserPrincipal.
type Principal interface {
	// Type returns the principal discriminator used on the wire.
	Type() PrincipalType
	// String returns the diagnostic form, e.g. "servicePrincipal{my-service}".
	String() string

	wire() wirePrincipal
}

// NonePrincipal is the principal of an anonymous caller.
type NonePrincipal struct{}

func (NonePrincipal) Type() PrincipalType { return PrincipalTypeNone }

func (NonePrincipal) String() string { return "nonePrincipal" }

func (NonePrincipal) wire() wirePrincipal {
	return wirePrincipal{Type: PrincipalTypeNone}
}

// ServicePrincipal identifies a backend service, optionally scoped by access restrictions.
type ServicePrincipal struct {
	subject      string
	restrictions *AccessRestrictions
	digest       string
}

func newServicePrincipal(subject string, restrictions *AccessRestrictions) (ServicePrincipal, error) {
	if subject == "" {
		return ServicePrincipal{}, fmt.Errorf("%w: service principal subject is required", ErrInvalidArgument)
	}

	p := ServicePrincipal{subject: subject}
	if restrictions != nil && !restrictions.IsEmpty() {
		cloned := restrictions.clone()
		digest, err := cloned.Digest()
		if err != nil {
			return ServicePrincipal{}, fmt.Errorf("digest access restrictions for %s: %w", subject, err)
		}
		p.restrictions = &cloned
		p.digest = digest
	}
	return p, nil
}

func (ServicePrincipal) Type() PrincipalType { return PrincipalTypeService }

// Subject returns the service identifier.
func (p ServicePrincipal) Subject() string { return p.subject }

// AccessRestrictions returns a copy of the restrictions narrowing this service's permissions.
func (p ServicePrincipal) AccessRestrictions() (AccessRestrictions, bool) {
	if p.restrictions == nil {
		return AccessRestrictions{}, false
	}
	return p.restrictions.clone(), true
}

func (p ServicePrincipal) String() string {
	if p.digest == "" {
		return "servicePrincipal{" + p.subject + "}"
	}
	return "servicePrincipal{" + p.subject + ",accessRestrictions=" + p.digest + "}"
}

func (p ServicePrincipal) wire() wirePrincipal {
	w := wirePrincipal{Type: PrincipalTypeService, Subject: p.subject}
	if p.restrictions != nil {
		cloned := p.restrictions.clone()
		w.AccessRestrictions = &cloned
	}
	return w
}

// UserPrincipal identifies an end user by catalog entity ref.
// Actor, when present, is the service acting on the user's behalf.
type UserPrincipal struct {
	userEntityRef string
	actor         *ServicePrincipal
}

func (UserPrincipal) Type() PrincipalType { return PrincipalTypeUser }

// UserEntityRef returns the entity ref of the user, e.g. "user:default/mock".
func (p UserPrincipal) UserEntityRef() string { return p.userEntityRef }

// Actor returns the delegating service principal, if any.
func (p UserPrincipal) Actor() (ServicePrincipal, bool) {
	if p.actor == nil {
		return ServicePrincipal{}, false
	}
	return *p.actor, true
}

func (p UserPrincipal) String() string {
	if p.actor == nil {
		return "userPrincipal{" + p.userEntityRef + "}"
	}
	return "userPrincipal{" + p.userEntityRef + ",actor={" + p.actor.String() + "}}"
}

func (p UserPrincipal) wire() wirePrincipal {
	w := wirePrincipal{Type: PrincipalTypeUser, UserEntityRef: p.userEntityRef}
	if p.actor != nil {
		actor := p.actor.wire()
		w.Actor = &actor
	}
	return w
}
