package httpapi

import (
	"context"

	"github.com/umatomo/predict-api/internal/domain/user"
)

// principalKey is unexported so only the auth middleware can plant a
// principal in a request context.
type principalKey struct{}

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok
}
