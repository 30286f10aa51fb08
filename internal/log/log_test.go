package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	prev := Level()
	t.Cleanup(func() { level.SetLevel(prev) })

	testCases := []struct {
		name    string
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{name: "debug", input: "debug", want: zapcore.DebugLevel},
		{name: "upper case with spaces", input: "  WARN ", want: zapcore.WarnLevel},
		{name: "error", input: "error", want: zapcore.ErrorLevel},
		{name: "unknown", input: "loud", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			level.SetLevel(zapcore.InfoLevel)
			err := SetLevel(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, zapcore.InfoLevel, Level())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, Level())
		})
	}
}

func TestLoggerNotNil(t *testing.T) {
	require.NotNil(t, Logger)
	Debug("test message", "key", "value")
}
