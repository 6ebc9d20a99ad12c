package tui

import (
	"log/slog"
	"strings"
)

// Theme captures optional prefixes applied to informational messages.
type Theme struct {
	TabPrefix   string
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the Editor.
type Option func(*Editor)

// WithPromptDriver overrides the prompt driver used by the editor.
func WithPromptDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// WithTabs limits prompting to the tabs with the given keys. Fields on other
// tabs keep their current values.
func WithTabs(keys ...string) Option {
	return func(e *Editor) {
		for _, key := range keys {
			if trimmed := strings.TrimSpace(key); trimmed != "" {
				e.only[trimmed] = struct{}{}
			}
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(e *Editor) {
		e.theme = theme
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}
