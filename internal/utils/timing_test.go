package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestOperationTimer(t *testing.T) {
	tests := []struct {
		name     string
		slow     time.Duration
		wantWarn bool
	}{
		{"fast operation", time.Hour, false},
		{"slow operation", time.Nanosecond, true},
		{"threshold disabled", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := zerolog.New(&buf).Level(zerolog.DebugLevel)

			done := OperationTimer("backup", tt.slow, log)
			time.Sleep(time.Millisecond)
			d := done()

			assert.GreaterOrEqual(t, d, time.Millisecond)
			assert.Contains(t, buf.String(), `"operation":"backup"`)
			assert.Equal(t, tt.wantWarn, bytes.Contains(buf.Bytes(), []byte("Slow operation detected")))
		})
	}
}

func TestMeasureQuery(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	MeasureQuery("prune_analyses", log)(3)

	assert.Contains(t, buf.String(), `"query":"prune_analyses"`)
	assert.Contains(t, buf.String(), `"rows":3`)
	assert.NotContains(t, buf.String(), "Slow database query")
}
