package crate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigSetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Config.SetLogger(zap.New(core))
	defer Config.SetLogger(nil)

	type logged struct{ _ [24]byte }
	b := Factory.NewBuilder()
	Add(b, logged{})

	registered := logs.FilterMessage("registered component type").All()
	require.Len(t, registered, 1)
	assert.EqualValues(t, 24, registered[0].ContextMap()["size"])

	relocated := logs.FilterMessage("relocated component store").All()
	require.Len(t, relocated, 1)
	assert.Equal(t, true, relocated[0].ContextMap()["grew"])
}

func TestConfigNilLoggerFallsBack(t *testing.T) {
	Config.SetLogger(nil)
	assert.Same(t, nopLogger, logger())
}
