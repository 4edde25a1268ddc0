package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTenantID(ctx))

	ctx = SetTenantID(ctx, "org-1")
	ctx = SetRequestID(ctx, "req-1")
	ctx = SetUserID(ctx, "user-1")
	ctx = SetRoute(ctx, "/api/v1/matches/rank")
	ctx = SetRemoteIP(ctx, "10.0.0.1")

	assert.Equal(t, "org-1", GetTenantID(ctx))
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
	assert.Equal(t, "/api/v1/matches/rank", GetRoute(ctx))
	assert.Equal(t, "10.0.0.1", GetRemoteIP(ctx))
}
