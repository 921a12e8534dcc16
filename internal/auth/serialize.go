package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wireCredentials is the JSON wire shape. Field order is part of the format.
type wireCredentials struct {
	Type      string        `json:"$$type"`
	Version   string        `json:"version"`
	Principal wirePrincipal `json:"principal"`
}

type wirePrincipal struct {
	Type               PrincipalType       `json:"type"`
	Subject            string              `json:"subject,omitempty"`
	UserEntityRef      string              `json:"userEntityRef,omitempty"`
	AccessRestrictions *AccessRestrictions `json:"accessRestrictions,omitempty"`
	Actor              *wirePrincipal      `json:"actor,omitempty"`
}

// MarshalJSON implements json.Marshaler. The token is never written.
//
// The returned bytes are the exact wire form, without HTML escaping. json.Marshal
// re-escapes <, > and & in Marshaler output; use a direct call or a json.Encoder
// with SetEscapeHTML(false) when the exact bytes matter.
func (c Credentials) MarshalJSON() ([]byte, error) {
	data, err := encodeJSON(wireCredentials{
		Type:      CredentialsType,
		Version:   CredentialsVersion,
		Principal: c.Principal().wire(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode credentials: %w", err)
	}
	return data, nil
}

// encodeJSON is json.Marshal without HTML escaping.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
