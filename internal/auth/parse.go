package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const credentialsSchemaURL = "credentials-v1.schema.json"

// credentialsSchemaJSON describes the v1 wire shape produced by Credentials.MarshalJSON.
const credentialsSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["$$type", "version", "principal"],
  "additionalProperties": false,
  "properties": {
    "$$type": {"const": "@backstage/BackstageCredentials"},
    "version": {"const": "v1"},
    "principal": {
      "oneOf": [
        {"$ref": "#/definitions/nonePrincipal"},
        {"$ref": "#/definitions/servicePrincipal"},
        {"$ref": "#/definitions/userPrincipal"}
      ]
    }
  },
  "definitions": {
    "stringList": {"type": "array", "items": {"type": "string"}},
    "accessRestrictions": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "permissionNames": {"$ref": "#/definitions/stringList"},
        "permissionAttributes": {
          "type": "object",
          "additionalProperties": {"$ref": "#/definitions/stringList"}
        }
      }
    },
    "nonePrincipal": {
      "type": "object",
      "required": ["type"],
      "additionalProperties": false,
      "properties": {"type": {"const": "none"}}
    },
    "servicePrincipal": {
      "type": "object",
      "required": ["type", "subject"],
      "additionalProperties": false,
      "properties": {
        "type": {"const": "service"},
        "subject": {"type": "string", "minLength": 1},
        "accessRestrictions": {"$ref": "#/definitions/accessRestrictions"}
      }
    },
    "actor": {
      "type": "object",
      "required": ["type", "subject"],
      "additionalProperties": false,
      "properties": {
        "type": {"const": "service"},
        "subject": {"type": "string", "minLength": 1}
      }
    },
    "userPrincipal": {
      "type": "object",
      "required": ["type", "userEntityRef"],
      "additionalProperties": false,
      "properties": {
        "type": {"const": "user"},
        "userEntityRef": {"type": "string", "minLength": 1},
        "actor": {"$ref": "#/definitions/actor"}
      }
    }
  }
}`

var credentialsSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	parsed, err := jsonschema.UnmarshalJSON(strings.NewReader(credentialsSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse credentials schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft7)
	if err := compiler.AddResource(credentialsSchemaURL, parsed); err != nil {
		return nil, fmt.Errorf("add credentials schema resource: %w", err)
	}

	schema, err := compiler.Compile(credentialsSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile credentials schema: %w", err)
	}
	return schema, nil
})

// ParseCredentials decodes the JSON form produced by Credentials.MarshalJSON.
//
// The result never carries a token, since none is ever serialized.
// Unknown "$$type" or "version" values and malformed principals are
// rejected with ErrInvalidCredentials.
func ParseCredentials(data []byte) (Credentials, error) {
	var header struct {
		Type    string `json:"$$type"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return Credentials{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	if header.Type != CredentialsType {
		return Credentials{}, fmt.Errorf("%w: invalid credential type %q", ErrInvalidCredentials, header.Type)
	}
	if header.Version != CredentialsVersion {
		return Credentials{}, fmt.Errorf("%w: invalid credential version %q", ErrInvalidCredentials, header.Version)
	}

	schema, err := credentialsSchema()
	if err != nil {
		return Credentials{}, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	if err := schema.Validate(doc); err != nil {
		return Credentials{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	var wire wireCredentials
	if err := json.Unmarshal(data, &wire); err != nil {
		return Credentials{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	creds, err := fromWire(wire.Principal)
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	return creds, nil
}

// fromWire rebuilds credentials through the constructors so their checks apply.
func fromWire(p wirePrincipal) (Credentials, error) {
	switch p.Type {
	case PrincipalTypeNone:
		return NewNonePrincipalCredentials(), nil
	case PrincipalTypeService:
		var opts []CredentialsOption
		if p.AccessRestrictions != nil {
			opts = append(opts, WithAccessRestrictions(*p.AccessRestrictions))
		}
		return NewServicePrincipalCredentials(p.Subject, opts...)
	case PrincipalTypeUser:
		var opts []CredentialsOption
		if p.Actor != nil {
			opts = append(opts, WithActor(p.Actor.Subject))
		}
		return NewUserPrincipalCredentials(p.UserEntityRef, opts...)
	default:
		return Credentials{}, fmt.Errorf("unknown principal type %q", p.Type)
	}
}
