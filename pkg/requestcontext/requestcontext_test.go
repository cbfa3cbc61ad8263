package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	id "quoteflow/pkg/domain"
)

func TestRoundTrip(t *testing.T) {
	sessionID := id.NewSessionID()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithClientMetadata(ctx, "192.168.1.10", "Mozilla/5.0")
	ctx = WithDeviceSummary(ctx, "Firefox on Linux")
	ctx = WithSessionID(ctx, sessionID)
	ctx = WithTime(ctx, now)

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "192.168.1.10", ClientIP(ctx))
	assert.Equal(t, "Mozilla/5.0", UserAgent(ctx))
	assert.Equal(t, "Firefox on Linux", DeviceSummary(ctx))
	assert.Equal(t, sessionID, SessionID(ctx))
	assert.Equal(t, now, Now(ctx))
}

func TestEmptyContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, ClientIP(ctx))
	assert.Empty(t, UserAgent(ctx))
	assert.True(t, SessionID(ctx).IsNil())
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
}
