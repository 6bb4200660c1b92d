package cont

import (
	"context"

	"ReturnsAgent/entity"
)

type ctxKey int

const userKey ctxKey = iota

func PutUser(ctx context.Context, user *entity.UserAuth) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the authenticated API client, or nil when authentication
// is disabled.
func GetUser(ctx context.Context) *entity.UserAuth {
	user, _ := ctx.Value(userKey).(*entity.UserAuth)
	return user
}
