package auth

import (
	"context"

	apperrors "loftalgerie/pkg/errors"
	"loftalgerie/pkg/model"
)

type contextKey struct{}

func WithPrincipal(ctx context.Context, p *model.Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFrom returns the caller attached by the principal middleware, if any.
func PrincipalFrom(ctx context.Context) (*model.Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(*model.Principal)
	return p, ok && p != nil
}

// Require returns the caller or an Unauthorized error when the request
// reached the service without one.
func Require(ctx context.Context) (*model.Principal, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return nil, apperrors.Unauthorized("Missing caller identity")
	}
	return p, nil
}
