package logging

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/disorderedmaterials/neta/pkg/errors"
)

func newTestLogger(t *testing.T) (Logger, *zaptest.Buffer) {
	t.Helper()
	buf := &zaptest.Buffer{}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), buf, zapcore.DebugLevel)
	return NewLoggerFromCore(core), buf
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{"defaults", LogConfig{}, false},
		{"json to stdout", LogConfig{Level: "info", Format: "json", OutputPaths: []string{"stdout"}}, false},
		{"console debug", LogConfig{Level: "DEBUG", Format: "console"}, false},
		{"empty outputs", LogConfig{OutputPaths: []string{}}, true},
		{"unknown level", LogConfig{Level: "loud"}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, l)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{" warn ", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"trace", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "level(9)", Level(9).String())
}

func TestZapLogger_Levels(t *testing.T) {
	t.Parallel()
	l, buf := newTestLogger(t)

	l.Debug("debug msg")
	l.Info("info msg")
	l.Warn("warn msg")
	l.Error("error msg")

	out := buf.String()
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		assert.Contains(t, out, lvl+" msg")
		assert.Contains(t, out, `"level":"`+lvl+`"`)
	}
}

func TestZapLogger_Fields(t *testing.T) {
	t.Parallel()
	l, buf := newTestLogger(t)

	l.With(Definition("?C,-H(n=4)"), Species("methane")).Info("matched",
		Atom(0), Int(FieldScore, 4), Ints("indices", []int{0, 1, 2}),
		Bool("valid", true), Float64("ratio", 0.5), Duration("took", time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, `"definition":"?C,-H(n=4)"`)
	assert.Contains(t, out, `"species":"methane"`)
	assert.Contains(t, out, `"atom":0`)
	assert.Contains(t, out, `"score":4`)
	assert.Contains(t, out, `"indices":[0,1,2]`)
	assert.Contains(t, out, `"valid":true`)
}

func TestZapLogger_WithError(t *testing.T) {
	t.Parallel()

	t.Run("app error carries code", func(t *testing.T) {
		l, buf := newTestLogger(t)
		l.WithError(errors.New(errors.CodeNETASyntax, "bad token")).Error("compile failed")
		assert.Contains(t, buf.String(), `"error_code":"NETA_002"`)
		assert.Contains(t, buf.String(), `"error":"[NETA_002] bad token"`)
	})

	t.Run("plain error", func(t *testing.T) {
		l, buf := newTestLogger(t)
		l.WithError(stderrors.New("plain")).Error("msg")
		assert.Contains(t, buf.String(), `"error":"plain"`)
		assert.NotContains(t, buf.String(), "error_code")
	})

	t.Run("nil error", func(t *testing.T) {
		l, buf := newTestLogger(t)
		l.WithError(nil).Info("msg")
		assert.NotContains(t, buf.String(), `"error"`)
	})
}

func TestZapLogger_Named(t *testing.T) {
	t.Parallel()
	l, buf := newTestLogger(t)
	l.Named("patterns").Named("match").Info("msg")
	assert.Contains(t, buf.String(), `"logger":"patterns.match"`)
}

func TestErr_Nil(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Field{Key: "error", Value: "<nil>"}, Err(nil))
}

func TestLogOperationDuration(t *testing.T) {
	t.Parallel()
	l, buf := newTestLogger(t)
	LogOperationDuration(l, "assign", time.Now(), Species("benzene"))
	assert.Contains(t, buf.String(), "operation completed")
	assert.Contains(t, buf.String(), `"operation":"assign"`)
	assert.Contains(t, buf.String(), FieldDurationMs)
}

func TestNopLogger(t *testing.T) {
	t.Parallel()
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	l.Fatal("msg")
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.WithError(stderrors.New("e")))
	assert.Equal(t, l, l.Named("x"))
	assert.NoError(t, l.Sync())
}

func TestDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, _ := newTestLogger(t)
	SetDefault(l)
	assert.Equal(t, l, Default())

	SetDefault(nil)
	assert.Equal(t, l, Default())
}
