package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-escolar/pkg/logger"
)

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Service: "inventaire", Output: &buf})

	l.Info().Msg("descartado por nivel")
	assert.Zero(t, buf.Len())

	comp := l.Component("transfer")
	comp.Warn().Str("related_id", "r1").Msg("notificación fallida")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "inventaire", line["service"])
	assert.Equal(t, "transfer", line["component"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "r1", line["related_id"])
}

func TestNew_NivelDesconocidoEsInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Level: "verbose", Output: &buf})

	l.Debug().Msg("no")
	assert.Zero(t, buf.Len())
	l.Info().Msg("sí")
	assert.Contains(t, buf.String(), `"message":"sí"`)
}
