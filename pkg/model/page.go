package model

import (
	"errors"
	"strings"
)

// PageConfig carries the menu registration data for a settings page.
type PageConfig struct {
	ParentSlug string `json:"parent_slug,omitempty" yaml:"parent_slug,omitempty" mapstructure:"parent_slug"`
	MenuSlug   string `json:"menu_slug" yaml:"menu_slug" mapstructure:"menu_slug"`
	PageTitle  string `json:"page_title,omitempty" yaml:"page_title,omitempty" mapstructure:"page_title"`
	MenuTitle  string `json:"menu_title,omitempty" yaml:"menu_title,omitempty" mapstructure:"menu_title"`
	Capability string `json:"capability" yaml:"capability" mapstructure:"capability"`
}

// Validate ensures the slug and capability are set.
func (c PageConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(c.MenuSlug) == "" {
		errs = append(errs, errors.New("model: page menu slug is required"))
	}
	if strings.TrimSpace(c.Capability) == "" {
		errs = append(errs, errors.New("model: page capability is required"))
	}
	return errors.Join(errs...)
}

// Title returns the page title, falling back to the menu title and slug.
func (c PageConfig) Title() string {
	switch {
	case c.PageTitle != "":
		return c.PageTitle
	case c.MenuTitle != "":
		return c.MenuTitle
	default:
		return c.MenuSlug
	}
}

// NonceName is the form field carrying the save token.
func (c PageConfig) NonceName() string {
	return c.MenuSlug + "_nonce"
}

// NonceAction is the action the save token is bound to.
func (c PageConfig) NonceAction() string {
	return c.MenuSlug + "_action"
}

// TabSwitchAction is the action bound to tab navigation links.
func (c PageConfig) TabSwitchAction() string {
	return c.MenuSlug + "_tab_switch"
}
