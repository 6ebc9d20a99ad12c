package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/sanitize"
	"github.com/goliatone/go-settingspage/pkg/settings"
)

// Editor walks a settings page in the terminal, one prompt per field, and
// persists the answers through the page's sanitizing save path.
type Editor struct {
	page   *settings.Page
	driver PromptDriver
	only   map[string]struct{}
	theme  Theme
	logger *slog.Logger
}

// New constructs an Editor for page. The survey driver on stdio is used
// unless WithPromptDriver overrides it.
func New(page *settings.Page, options ...Option) (*Editor, error) {
	if page == nil {
		return nil, errors.New("tui: settings page is nil")
	}
	e := &Editor{
		page:   page,
		only:   make(map[string]struct{}),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.driver == nil {
		e.driver = NewSurveyDriver(nil, nil, nil)
	}
	for key := range e.only {
		if _, _, ok := page.Tabs().Lookup(key); !ok {
			return nil, fmt.Errorf("tui: unknown tab %q", key)
		}
	}
	return e, nil
}

// Collect prompts for every selected field and returns the answers in the
// same shape an HTML form post would carry. Fields that are not prompted
// keep their current value.
func (e *Editor) Collect(ctx context.Context) (url.Values, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	values := url.Values{}
	for _, tab := range e.page.Tabs() {
		prompted := e.selected(tab)
		if prompted {
			if err := e.driver.Info(ctx, e.theme.TabPrefix+tab.Name); err != nil {
				return nil, err
			}
		}
		for _, field := range tab.Fields {
			current, err := e.page.Value(ctx, field)
			if err != nil {
				return nil, err
			}
			if !prompted {
				setValue(values, field, current)
				continue
			}
			if err := e.promptField(ctx, field, current, values); err != nil {
				return nil, fmt.Errorf("tui: field %q: %w", field.ID, err)
			}
		}
	}
	return values, nil
}

// Run collects answers and persists them. It returns the number of options
// written.
func (e *Editor) Run(ctx context.Context) (int, error) {
	values, err := e.Collect(ctx)
	if err != nil {
		return 0, err
	}
	written, err := e.page.Persist(ctx, values)
	if err != nil {
		return written, err
	}
	e.logger.Info("settings saved from terminal", "slug", e.page.Config().MenuSlug, "fields", written)
	if err := e.driver.Info(ctx, e.theme.InfoPrefix+"Settings saved successfully!"); err != nil {
		return written, err
	}
	return written, nil
}

func (e *Editor) selected(tab model.Tab) bool {
	if len(e.only) == 0 {
		return true
	}
	_, ok := e.only[tab.Key()]
	return ok
}

func (e *Editor) promptField(ctx context.Context, field model.Field, current string, values url.Values) error {
	label := displayLabel(field)
	help := field.Description

	switch field.Kind() {
	case model.FieldCheckbox, model.FieldSwitch:
		on, err := e.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: current == "1", Help: help})
		if err != nil {
			return err
		}
		values.Set(field.ID, flagValue(on))
	case model.FieldSelect, model.FieldRadio:
		labels := make([]string, 0, len(field.Options))
		defaultIdx := 0
		for idx, opt := range field.Options {
			labels = append(labels, opt.Label)
			if opt.Value == current {
				defaultIdx = idx
			}
		}
		idx, err := e.driver.Select(ctx, SelectConfig{Message: label, Options: labels, DefaultIndex: defaultIdx, Help: help})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(field.Options) {
			return ErrNoSelection
		}
		values.Set(field.ID, field.Options[idx].Value)
	case model.FieldTextarea:
		text, err := e.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current, Help: help})
		if err != nil {
			return err
		}
		values.Set(field.ID, text)
	case model.FieldColor:
		color, err := e.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   current,
			Help:      help,
			Validator: validateColor,
		})
		if err != nil {
			return err
		}
		values.Set(field.ID, strings.TrimSpace(color))
	case model.FieldRichText:
		return e.promptCode(ctx, field, current, values)
	default:
		text, err := e.driver.Input(ctx, InputConfig{Message: label, Default: current, Help: help})
		if err != nil {
			return err
		}
		values.Set(field.ID, text)
	}
	return nil
}

func (e *Editor) promptCode(ctx context.Context, field model.Field, current string, values url.Values) error {
	code := decodeCurrentCode(current)
	htmlKey, cssKey := settings.RichTextKeys(field.ID)
	label := displayLabel(field)

	panes := []model.EditorMode{model.EditorHTML, model.EditorCSS}
	if field.Editor() == model.EditorCSS {
		panes = []model.EditorMode{model.EditorCSS, model.EditorHTML}
	}
	for _, pane := range panes {
		cfg := TextAreaConfig{Message: label + " (" + strings.ToUpper(string(pane)) + ")", Help: field.Description}
		key := htmlKey
		cfg.Default = code.HTML
		if pane == model.EditorCSS {
			key = cssKey
			cfg.Default = code.CSS
		}
		text, err := e.driver.TextArea(ctx, cfg)
		if err != nil {
			return err
		}
		values.Set(key, text)
	}
	return nil
}

func setValue(values url.Values, field model.Field, current string) {
	if field.Kind() != model.FieldRichText {
		values.Set(field.ID, current)
		return
	}
	code := decodeCurrentCode(current)
	htmlKey, cssKey := settings.RichTextKeys(field.ID)
	values.Set(htmlKey, code.HTML)
	values.Set(cssKey, code.CSS)
}

func decodeCurrentCode(current string) model.CodeValue {
	if code, ok := model.DecodeCodeValue(current); ok {
		return code
	}
	return model.CodeValue{HTML: current}
}

func validateColor(value string) error {
	value = strings.TrimSpace(value)
	if value == "" || sanitize.IsHexColor(value) {
		return nil
	}
	return fmt.Errorf("%q is not a #rgb or #rrggbb color", value)
}

func flagValue(on bool) string {
	if on {
		return "1"
	}
	return ""
}

func displayLabel(field model.Field) string {
	if label := strings.TrimSpace(field.Label); label != "" {
		return label
	}
	return field.ID
}
