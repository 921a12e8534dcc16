package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mitchellh/mapstructure"

	"github.com/terraconstructs/credentials/internal/config"
)

// CredentialsFromClaims converts already verified JWT claims into credentials.
//
// Subjects that parse as an entity ref of kind cfg.UserEntityKind become user
// principals (with expiry and optional actor); every other subject becomes a
// service principal (with optional access restrictions). The token is retained
// on the result for outbound use and never serialized.
func CredentialsFromClaims(claims jwt.MapClaims, token string, cfg config.ClaimsConfig) (Credentials, error) {
	subject, err := claims.GetSubject()
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: subject claim: %w", ErrInvalidArgument, err)
	}
	if subject == "" {
		return Credentials{}, fmt.Errorf("%w: missing subject claim", ErrInvalidArgument)
	}

	opts := []CredentialsOption{WithToken(token)}

	if ref, err := ParseEntityRef(subject, ""); err == nil && strings.EqualFold(ref.Kind, cfg.UserEntityKind) {
		exp, err := claims.GetExpirationTime()
		if err != nil {
			return Credentials{}, fmt.Errorf("%w: expiration claim: %w", ErrInvalidArgument, err)
		}
		if exp != nil {
			opts = append(opts, WithExpiresAt(exp.Time))
		}

		actor, err := extractActor(claims, cfg.ActorClaimField)
		if err != nil {
			return Credentials{}, err
		}
		if actor != "" {
			opts = append(opts, WithActor(actor))
		}

		return NewUserPrincipalCredentials(ref.String(), opts...)
	}

	restrictions, err := extractAccessRestrictions(claims, cfg.AccessRestrictionsClaimField)
	if err != nil {
		return Credentials{}, err
	}
	if restrictions != nil {
		opts = append(opts, WithAccessRestrictions(*restrictions))
	}

	return NewServicePrincipalCredentials(subject, opts...)
}

// extractActor handles both a plain subject string and an RFC 8693 actor object
// Supports:
//   - "act": "plugin:catalog"
//   - "act": {"sub": "plugin:catalog"}
func extractActor(claims jwt.MapClaims, claimField string) (string, error) {
	rawValue, ok := claims[claimField]
	if !ok || rawValue == nil {
		// No delegation
		return "", nil
	}

	if subject, ok := rawValue.(string); ok {
		if subject == "" {
			return "", fmt.Errorf("%w: claim field %s is empty", ErrInvalidArgument, claimField)
		}
		return subject, nil
	}

	var actor struct {
		Subject string `mapstructure:"sub"`
	}
	if err := mapstructure.Decode(rawValue, &actor); err != nil {
		return "", fmt.Errorf("%w: failed to decode actor claim %s: %w", ErrInvalidArgument, claimField, err)
	}
	if actor.Subject == "" {
		return "", fmt.Errorf("%w: actor claim %s has no subject", ErrInvalidArgument, claimField)
	}
	return actor.Subject, nil
}

// extractAccessRestrictions uses mapstructure to decode the restrictions object
// Unknown keys are rejected.
func extractAccessRestrictions(claims jwt.MapClaims, claimField string) (*AccessRestrictions, error) {
	rawValue, ok := claims[claimField]
	if !ok || rawValue == nil {
		return nil, nil
	}

	var restrictions AccessRestrictions
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &restrictions,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create access restrictions decoder: %w", err)
	}
	if err := decoder.Decode(rawValue); err != nil {
		return nil, fmt.Errorf("%w: failed to decode access restrictions claim %s: %w", ErrInvalidArgument, claimField, err)
	}
	return &restrictions, nil
}
