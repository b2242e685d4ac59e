package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext_NoLogger(t *testing.T) {
	// Must not panic and must return a usable logger.
	l := FromContext(context.Background())
	assert.NotNil(t, l)
	l.Infow("dropped", "key", "value")
}

func TestWith_AttachesLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := &ZapLogger{z: zap.New(core).Sugar()}

	ctx := With(context.Background(), logger)
	Infow(ctx, "token exchange", "status", 200)

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "token exchange", entries[0].Message)
}

func TestNamedAndWith(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := &ZapLogger{z: zap.New(core).Sugar()}

	child := logger.Named("refresh").With("attempt", 2)
	child.Info("starting")

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "refresh", entries[0].LoggerName)
}

func TestNewNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Errorw("nothing happens", "key", "value")
	assert.NotNil(t, l.Named("child"))
}
