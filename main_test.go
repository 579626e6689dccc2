package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayCommandIsDeterministic(t *testing.T) {
	run := func() string {
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetArgs([]string{"play", "--seed", "31"})
		cmd.SetIn(strings.NewReader("1\n2\n0\n"))
		cmd.SetOut(&out)
		require.NoError(t, cmd.Execute())
		return out.String()
	}
	first := run()
	assert.Contains(t, first, "You played [")
	assert.Contains(t, first, "You reserved [")
	assert.Equal(t, first, run())
}

func TestPlayCommandBadConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"play", "--config", t.TempDir() + "/nope.yaml"})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogFormat = "json"
	newLogger(cfg, &buf).Info("hello", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	cfg.LogLevel = "warn"
	newLogger(cfg, &buf).Info("quiet")
	assert.Empty(t, buf.String())
}
