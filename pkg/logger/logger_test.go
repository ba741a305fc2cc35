package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImpl_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: EnvProduction, Output: &buf})

	log.WithComponent("Scheduler").Info("tick finished", "processed", 3)

	out := buf.String()
	assert.Contains(t, out, `"message":"tick finished"`)
	assert.Contains(t, out, `"component":"Scheduler"`)
	assert.Contains(t, out, `"processed":3`)
}

func TestImpl_ProductionSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: EnvProduction, Output: &buf})

	log.Debug("noisy")

	assert.Empty(t, buf.String())
}
