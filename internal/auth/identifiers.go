package auth

import (
	"fmt"
	"strings"
)

const (
	// DefaultNamespace is implied when an entity ref omits its namespace.
	DefaultNamespace = "default"
	// KindUser is the entity kind of user entity refs.
	KindUser = "user"
)

// EntityRef identifies a catalog entity as kind:namespace/name.
type EntityRef struct {
	Kind      string
	Namespace string
	Name      string
}

// String renders the canonical form with a lowercased kind and namespace.
// Example: EntityRef{Kind: "User", Namespace: "default", Name: "mock"} → "user:default/mock"
func (r EntityRef) String() string {
	return strings.ToLower(r.Kind) + ":" + strings.ToLower(r.Namespace) + "/" + r.Name
}

// UserEntityRef creates a user entity ref in the default namespace
// Example: UserEntityRef("mock") → "user:default/mock"
func UserEntityRef(name string) string {
	return EntityRef{Kind: KindUser, Namespace: DefaultNamespace, Name: name}.String()
}

// ParseEntityRef parses [kind:][namespace/]name.
// defaultKind is used when the ref has no kind; if it is empty a kind is required.
// Example: ParseEntityRef("user:mock", "") → {user default mock}, nil
func ParseEntityRef(ref string, defaultKind string) (EntityRef, error) {
	kind, rest := defaultKind, ref
	if i := strings.Index(ref, ":"); i >= 0 {
		kind, rest = ref[:i], ref[i+1:]
	}
	if kind == "" {
		return EntityRef{}, fmt.Errorf("%w: entity ref %q has no kind", ErrInvalidArgument, ref)
	}

	namespace, name := DefaultNamespace, rest
	if i := strings.Index(rest, "/"); i >= 0 {
		namespace, name = rest[:i], rest[i+1:]
	}
	if namespace == "" {
		return EntityRef{}, fmt.Errorf("%w: entity ref %q has an empty namespace", ErrInvalidArgument, ref)
	}
	if name == "" || strings.ContainsAny(name, ":/") {
		return EntityRef{}, fmt.Errorf("%w: entity ref %q has an invalid name", ErrInvalidArgument, ref)
	}

	return EntityRef{Kind: kind, Namespace: namespace, Name: name}, nil
}
