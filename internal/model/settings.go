package model

import "strings"

// Settings are the user preferences persisted between runs
type Settings struct {
	SheetID         string `json:"sheetId"`
	SheetRange      string `json:"sheetRange"`
	APIKey          string `json:"apiKey"`
	RefreshInterval int    `json:"refreshInterval"` // minutes, <= 0 disables the extra timer
}

// DefaultSettings returns the settings used before anything is saved
func DefaultSettings() Settings {
	return Settings{
		SheetRange:      "A:E",
		RefreshInterval: 5,
	}
}

// HasCredentials reports whether a sheet id and API key are configured
func (s Settings) HasCredentials() bool {
	return s.SheetID != "" && s.APIKey != ""
}

// TaskRange returns the configured task range or the default
func (s Settings) TaskRange() string {
	if s.SheetRange == "" {
		return DefaultSettings().SheetRange
	}
	return s.SheetRange
}

// MaskedAPIKey returns the API key with all but the last four characters hidden
func (s Settings) MaskedAPIKey() string {
	key := s.APIKey
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
