package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportError(t *testing.T) {
	assert.NoError(t, exportError(nil))

	cause := errors.New("pubfront: export: connection refused")
	err := exportError(cause)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")

	err = exportError(errors.Join(errors.New("post a"), errors.New("post b")))
	require.Error(t, err)
	assert.Equal(t, "export: 2 pages failed to generate", err.Error())
}
