package config

import "os"

// APIKeySource represents where an API key comes from.
type APIKeySource string

const (
	KeySourceEnv  APIKeySource = "env"
	KeySourceNone APIKeySource = "none"
)

// KeyStatus represents the status of an API key.
type KeyStatus struct {
	Name   string       `json:"name"`
	Source APIKeySource `json:"source"`
	IsSet  bool         `json:"is_set"`
	Masked string       `json:"masked,omitempty"` // e.g., "ab...yz"
}

// CheckAPIKeys returns the status of the optional API keys. Quote fetching
// needs no key; FMP_API_KEY only improves market-cap enrichment.
func CheckAPIKeys() []KeyStatus {
	return []KeyStatus{
		checkKey("FMP API Key", "FMP_API_KEY"),
	}
}

func checkKey(name, envVar string) KeyStatus {
	if value := os.Getenv(envVar); value != "" {
		return KeyStatus{Name: name, Source: KeySourceEnv, IsSet: true, Masked: mask(value)}
	}
	return KeyStatus{Name: name, Source: KeySourceNone, IsSet: false}
}

// mask hides the middle of a key for display.
func mask(s string) string {
	if len(s) <= 6 {
		return "***"
	}
	return s[:3] + "..." + s[len(s)-3:]
}
