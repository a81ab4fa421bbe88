package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkSizeParsing(t *testing.T) {
	valid := []string{"16MiB", "8Mi", "1024KiB", "64KB"}
	for _, sizeString := range valid {
		flags := &transferFlags{chunkSizeString: sizeString, progressInterval: time.Second}
		opts, err := flags.engineOptions()
		require.NoError(t, err, sizeString)
		assert.Len(t, opts, 2)
	}

	flags := &transferFlags{chunkSizeString: "lots", progressInterval: time.Second}
	_, err := flags.engineOptions()
	require.Error(t, err)
}

func TestRootCommandHasFillAndVerify(t *testing.T) {
	root := NewRootCommand("")

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.Contains(t, names, "fill")
	assert.Contains(t, names, "verify")
}
