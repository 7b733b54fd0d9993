// Package prefs persists device-local presentation preferences. They sit
// outside the tenant dataset: they belong to the device, not to a business.
package prefs

import (
	"github.com/zaveorah/zaveorah-core/internal/storage"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
)

const (
	themeKey    = "zaveorah_theme"
	languageKey = "zaveorah_language"

	defaultTheme    = "light"
	defaultLanguage = "en"
)

// Service reads and writes preferences through the key-value store.
type Service struct {
	kv     *storage.KV
	logger *logger.Logger
}

// NewService creates a preferences service.
func NewService(kv *storage.KV, log *logger.Logger) *Service {
	return &Service{kv: kv, logger: log.WithComponent("prefs")}
}

func (s *Service) get(key, fallback string) string {
	value, found, err := s.kv.Get(key)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to read preference")
		return fallback
	}
	if !found || value == "" {
		return fallback
	}
	return value
}

func (s *Service) set(key, value string) bool {
	if err := s.kv.Set(key, value); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to write preference")
		return false
	}
	return true
}

// Theme returns the stored theme, defaulting to light.
func (s *Service) Theme() string { return s.get(themeKey, defaultTheme) }

// SetTheme persists the theme.
func (s *Service) SetTheme(theme string) bool {
	if theme == "" {
		return false
	}
	return s.set(themeKey, theme)
}

// Language returns the stored language code, defaulting to en.
func (s *Service) Language() string { return s.get(languageKey, defaultLanguage) }

// SetLanguage persists the language code.
func (s *Service) SetLanguage(lang string) bool {
	if lang == "" {
		return false
	}
	return s.set(languageKey, lang)
}
