package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_AddsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "user-7")
	CtxInfo(ctx, "credential created", "credential_id", "c-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "credential created", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "user-7", entry["user_id"])
	assert.Equal(t, "c-1", entry["credential_id"])
}

func TestWorkerLog_SkipsIdleRuns(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	WorkerLog("job_worker", "close_expired", 0, nil)
	assert.Empty(t, buf.String())

	WorkerLog("job_worker", "close_expired", 3, nil)
	assert.Contains(t, buf.String(), `"affected":3`)
}
