package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T) {
	t.Helper()
	level, logger := zerolog.GlobalLevel(), log.Logger
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(level)
		log.Logger = logger
	})
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":     zerolog.TraceLevel,
		"DEBUG":     zerolog.DebugLevel,
		"info":      zerolog.InfoLevel,
		"warning":   zerolog.WarnLevel,
		"error":     zerolog.ErrorLevel,
		"off":       zerolog.Disabled,
		"":          zerolog.InfoLevel,
		" nonsense": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestInit_JSONWithService(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: "json", Service: "overlap", Writer: &buf})

	log.Debug().Str("corpusId", "c1").Msg("hello")
	log.Trace().Msg("suppressed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "overlap", line["service"])
	assert.Equal(t, "c1", line["corpusId"])
	assert.NotContains(t, buf.String(), "suppressed")
}

func TestInit_Console(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	Init(Options{Level: "info", Format: "console", Writer: &buf})

	log.Info().Msg("console-line")

	assert.Contains(t, buf.String(), "console-line")
}
