package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Executes(t *testing.T) {
	resetState(t)
	originalVersion := version
	SetVersion("test-version-1.0.0")
	defer SetVersion(originalVersion)

	out, err := execute(t, "", "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "finder version test-version-1.0.0")
}

func TestVersionFlag(t *testing.T) {
	resetState(t)
	originalVersion := version
	SetVersion("1.2.3")
	defer SetVersion(originalVersion)

	out, err := execute(t, "", "--version")

	assert.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}
