package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fusion-tools/facet/pkg/types"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitUserError, exitCode(errCheckFailed))
	assert.Equal(t, exitUserError, exitCode(fmt.Errorf("volume 3: %w", types.ErrNotWatertight)))
	assert.Equal(t, exitUserError, exitCode(types.ErrEmptyStore))
	assert.Equal(t, exitSysError, exitCode(fmt.Errorf("disk on fire")))
}
