package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInitConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	InitConfig()

	assert.Equal(t, "https://www.librarything.com", BaseURL)
	assert.Empty(t, CookiesFile)
	assert.False(t, Headless)
}

func TestSetCookiesFile(t *testing.T) {
	originalValue := CookiesFile
	t.Cleanup(func() { CookiesFile = originalValue })

	CookiesFile = "existing.json"
	SetCookiesFile("")
	assert.Equal(t, "existing.json", CookiesFile, "empty path must not clobber config value")

	SetCookiesFile("override.json")
	assert.Equal(t, "override.json", CookiesFile)
}

func TestSetHeadless(t *testing.T) {
	originalValue := Headless
	t.Cleanup(func() { Headless = originalValue })

	SetHeadless(true)
	assert.True(t, Headless)
	SetHeadless(false)
	assert.False(t, Headless)
}
