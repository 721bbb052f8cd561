package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCopy(t *testing.T) {
	var copied string
	service := &Service{writeAll: func(text string) error {
		copied = text
		return nil
	}}
	require.NoError(t, service.Copy("reply"))
	assert.Equal(t, "reply", copied)
}

func TestServiceCopyFailures(t *testing.T) {
	unsupported := &Service{unsupported: true}
	assert.ErrorIs(t, unsupported.Copy("reply"), ErrUnavailable)

	writeError := errors.New("xclip exited")
	failing := &Service{writeAll: func(string) error { return writeError }}
	assert.ErrorIs(t, failing.Copy("reply"), writeError)
}
