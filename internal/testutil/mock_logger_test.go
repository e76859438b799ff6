package testutil_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disorderedmaterials/neta/internal/infrastructure/monitoring/logging"
	"github.com/disorderedmaterials/neta/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)
	v, ok := messages[0].Field("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	logger.Clear()
	assert.Empty(t, logger.GetMessages())

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_ChildrenShareRecord(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.With(logging.Species("water")).WithError(errors.New("boom")).Warn("failed", logging.Atom(2))

	msg, ok := logger.Find("warn", "failed")
	require.True(t, ok)
	species, _ := msg.Field(logging.FieldSpecies)
	assert.Equal(t, "water", species)
	errVal, _ := msg.Field("error")
	assert.Equal(t, "boom", errVal)
	atom, _ := msg.Field(logging.FieldAtom)
	assert.Equal(t, 2, atom)
}
