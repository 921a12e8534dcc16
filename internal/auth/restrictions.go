package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// AccessRestrictions narrows the effective permissions of a service principal.
//
// The JSON form is part of the credentials wire format; field order matters
// because Digest hashes exactly that encoding.
type AccessRestrictions struct {
	// PermissionNames limits the principal to the named permissions.
	PermissionNames []string `json:"permissionNames,omitempty" mapstructure:"permissionNames"`
	// PermissionAttributes maps a permission attribute (e.g. "action") to its allowed values.
	PermissionAttributes map[string][]string `json:"permissionAttributes,omitempty" mapstructure:"permissionAttributes"`
}

// IsEmpty reports whether the restrictions carry neither names nor attributes.
// Empty restrictions are treated as absent.
func (r AccessRestrictions) IsEmpty() bool {
	return len(r.PermissionNames) == 0 && len(r.PermissionAttributes) == 0
}

// Digest returns the SHA-256 of the compact JSON encoding of r, base64 encoded
// with the standard alphabet and no padding.
//
// Permission names are hashed in the order given, so ["a","b"] and ["b","a"]
// produce different digests. Attribute keys are sorted by the encoding.
//
// Example: {"permissionNames":["perm"],"permissionAttributes":{"action":["read"]}}
// digests to "cXWOJgUirHkHNZIowUi/YO5nwEwhTicC38iXi2XTYCk".
func (r AccessRestrictions) Digest() (string, error) {
	encoded, err := encodeJSON(r)
	if err != nil {
		return "", fmt.Errorf("encode access restrictions: %w", err)
	}
	sum := sha256.Sum256(encoded)
	return base64.RawStdEncoding.EncodeToString(sum[:]), nil
}

// clone deep copies r. A nil attribute value list becomes an empty one so the
// wire form never carries null.
func (r AccessRestrictions) clone() AccessRestrictions {
	out := AccessRestrictions{PermissionNames: cloneStrings(r.PermissionNames)}
	if r.PermissionAttributes != nil {
		out.PermissionAttributes = make(map[string][]string, len(r.PermissionAttributes))
		for key, values := range r.PermissionAttributes {
			if values == nil {
				values = []string{}
			}
			out.PermissionAttributes[key] = cloneStrings(values)
		}
	}
	return out
}

// cloneStrings keeps the nil/empty distinction, which is visible in the JSON encoding.
func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
