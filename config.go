package crate

import (
	"sync/atomic"

	"github.com/TheBitDrifter/table"
	"go.uber.org/zap"
)

// Config holds global configuration for storages and builders
var Config config = config{}

var nopLogger = zap.NewNop()

type config struct {
	tableEvents table.TableEvents
	logger      atomic.Pointer[zap.Logger]
}

// SetTableEvents configures the table event callbacks
func (c *config) SetTableEvents(te table.TableEvents) {
	c.tableEvents = te
}

// SetLogger configures the package logger. A nil logger restores the no-op
// default.
func (c *config) SetLogger(l *zap.Logger) {
	c.logger.Store(l)
}

// SetMaxComponentTypes bounds how many distinct component types may be
// registered. It never drops below the number already registered.
func (c *config) SetMaxComponentTypes(n int) {
	registry.setLimit(n)
}

func logger() *zap.Logger {
	if l := Config.logger.Load(); l != nil {
		return l
	}
	return nopLogger
}
