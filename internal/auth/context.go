package auth

import "context"

type credentialsContextKey struct{}

// WithCredentials stores the caller's credentials on the context for downstream consumers.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsContextKey{}, creds)
}

// CredentialsFromContext retrieves the caller's credentials from the context.
func CredentialsFromContext(ctx context.Context) (Credentials, bool) {
	creds, ok := ctx.Value(credentialsContextKey{}).(Credentials)
	return creds, ok
}
