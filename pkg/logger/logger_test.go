package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	var prod, dev bytes.Buffer

	New(&prod, "production").Debug("hidden")
	assert.Zero(t, prod.Len())

	New(&dev, "development").Debug("shown", "key", "value")
	var line map[string]any
	require.NoError(t, json.Unmarshal(dev.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "development", line["env"])
	assert.Equal(t, "value", line["key"])
}
