package main

import (
	"bytes"
	"testing"

	"github.com/flashbots/go-boost-utils/types"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	t.Parallel()

	v, err := parseValue("0")
	require.NoError(t, err)
	require.Equal(t, types.U256Str{}, v)

	v, err = parseValue("1000000000000000000")
	require.NoError(t, err)
	require.Equal(t, "1000000000000000000", v.String())

	_, err = parseValue("-1")
	require.Error(t, err)
	_, err = parseValue("0x10")
	require.Error(t, err)
}

func TestListenAddr(t *testing.T) {
	t.Parallel()

	addr, err := listenAddr("localhost:18550", 0)
	require.NoError(t, err)
	require.Equal(t, "localhost:18550", addr)

	addr, err = listenAddr("0.0.0.0:18550", 9000)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9000", addr)

	_, err = listenAddr("localhost", 9000)
	require.Error(t, err)
	_, err = listenAddr("localhost:1", 70000)
	require.Error(t, err)
}

func TestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger("warn", "json", false, &buf)
	l.Info("hidden")
	require.Zero(t, buf.Len())

	l.WithField("instance", "abc").Warn("shown")
	require.Contains(t, buf.String(), `"instance":"abc"`)

	buf.Reset()
	logger("debug", "none", false, &buf).Error("silenced")
	require.Zero(t, buf.Len())
}
