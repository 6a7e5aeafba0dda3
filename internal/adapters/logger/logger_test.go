package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"six-cities/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPoster struct {
	mu    sync.Mutex
	tags  []string
	posts []map[string]interface{}
}

func (r *recordingPoster) Post(tag string, message interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags = append(r.tags, tag)
	r.posts = append(r.posts, message.(port.Fields))
	return nil
}

func (r *recordingPoster) Close() error { return nil }

func TestSlogAdapter_JSONRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelDebug, IsJSON: true})

	logger.WithFields(port.Fields{"session_id": "s1"}).
		Info("Logged in", port.Fields{"token": "secret", "email": "a@b.c"})

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Logged in", record["msg"])
	assert.Equal(t, "s1", record["session_id"])
	assert.Equal(t, redacted, record["token"])
	assert.Equal(t, "a@b.c", record["email"])
}

func TestSlogAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelWarn})

	logger.Debug("hidden", nil)
	logger.Info("hidden", nil)
	assert.Zero(t, buf.Len())

	logger.Error("shown", errors.New("boom"), nil)
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "boom")
}

func TestFluentLoggerAdapter(t *testing.T) {
	poster := &recordingPoster{}
	logger := newFluentLoggerAdapter(poster, slog.LevelInfo)

	logger.Debug("skipped", nil)
	logger.WithFields(port.Fields{"component": "test"}).
		Error("failed", errors.New("boom"), port.Fields{"user_password": "p"})

	require.Len(t, poster.posts, 1)
	assert.Equal(t, "error", poster.tags[0])
	post := poster.posts[0]
	assert.Equal(t, "failed", post["message"])
	assert.Equal(t, "boom", post["error"])
	assert.Equal(t, "test", post["component"])
	assert.Equal(t, redacted, post["user_password"])
}

func TestMultiLoggerAdapter(t *testing.T) {
	_, err := NewMultiloggerAdapter()
	assert.Error(t, err)

	a, b := &recordingPoster{}, &recordingPoster{}
	logger, err := NewMultiloggerAdapter(newFluentLoggerAdapter(a, slog.LevelDebug), nil, newFluentLoggerAdapter(b, slog.LevelDebug))
	require.NoError(t, err)

	logger.WithFields(port.Fields{"k": "v"}).Warn("both", nil)

	require.Len(t, a.posts, 1)
	require.Len(t, b.posts, 1)
	assert.Equal(t, "v", b.posts[0]["k"])
}
