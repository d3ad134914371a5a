package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-blog-server/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestSetupWriter(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("json outside DEV", func(t *testing.T) {
		var buf bytes.Buffer
		logging.SetupWriter(&buf, "PROD", "debug")

		log.Debug().Str("user_id", "u1").Msg("resolved")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		require.Equal(t, "resolved", line["message"])
		require.Equal(t, "u1", line["user_id"])
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		logging.SetupWriter(&buf, "PROD", "warn")

		log.Info().Msg("hidden")
		require.Empty(t, buf.String())
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logging.SetupWriter(&buf, "PROD", "loud")

		log.Debug().Msg("hidden")
		log.Info().Msg("shown")
		require.Contains(t, buf.String(), "shown")
		require.NotContains(t, buf.String(), "hidden")
	})
}
