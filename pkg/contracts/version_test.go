package contracts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionStrings(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, APIVersion, info.APIVersion)
	assert.NotEmpty(t, info.GoVersion)

	assert.Equal(t, "gpacalc v"+Version, GetVersionString())
	assert.True(t, strings.HasPrefix(GetFullVersionString(), GetVersionString()+" (built: "))
}
