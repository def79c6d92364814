package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// BaseURL is the root URL of the cataloguing site
	BaseURL string
	// CookiesFile is the cookie jar used to skip interactive login
	CookiesFile string
	// AttachmentsDir is where downloaded cover images are stored
	AttachmentsDir string
	// Headless controls whether the browser runs without a visible window
	Headless bool
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("site.baseurl", "https://www.librarything.com")
	viper.SetDefault("site.cookiesfile", "")
	viper.SetDefault("AttachmentsDir", "./attachments/")
	viper.SetDefault("Headless", false)

	// Get values from viper
	BaseURL = viper.GetString("site.baseurl")
	CookiesFile = viper.GetString("site.cookiesfile")
	AttachmentsDir = viper.GetString("AttachmentsDir")
	Headless = viper.GetBool("Headless")
}

// SetCookiesFile sets the cookie jar path
func SetCookiesFile(path string) {
	if path != "" {
		CookiesFile = path
	}
}

// SetHeadless sets the Headless flag
func SetHeadless(headless bool) {
	Headless = headless
}
