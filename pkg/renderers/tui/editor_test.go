package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/nonce"
	"github.com/goliatone/go-settingspage/pkg/settings"
	"github.com/goliatone/go-settingspage/pkg/store"
)

type stubDriver struct {
	inputs     []string
	selectIdx  []int
	confirm    []bool
	textAreas  []string
	inputPos   int
	selectPos  int
	confirmPos int
	textPos    int

	infoMessages []string
	selects      []SelectConfig
	validators   []func(string) error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	if cfg.Validator != nil {
		s.validators = append(s.validators, cfg.Validator)
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	s.selects = append(s.selects, cfg)
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newTestPage(t *testing.T, mem *store.Memory) *settings.Page {
	t.Helper()
	tabs := model.TabSet{
		{Name: "General", Fields: []model.Field{
			{ID: "shop", Label: "Shop name", Default: "Acme"},
			{ID: "enabled", Type: model.FieldCheckbox, Label: "Enabled", Default: true},
			{ID: "cadence", Type: model.FieldSelect, Label: "Cadence", Default: "weekly", Options: model.Options{
				{Value: "daily", Label: "Daily"},
				{Value: "weekly", Label: "Weekly"},
			}},
		}},
		{Name: "Look", Fields: []model.Field{
			{ID: "accent", Type: model.FieldColor, Label: "Accent", Default: "#336699"},
			{ID: "footer", Type: model.FieldTextarea},
			{ID: "snippet", Type: model.FieldRichText, DefaultEditor: model.EditorCSS},
		}},
	}
	nonces, err := nonce.New([]byte("secret"))
	if err != nil {
		t.Fatalf("nonce manager: %v", err)
	}
	page, err := settings.New(model.PageConfig{MenuSlug: "shop-settings", Capability: "manage_options"}, tabs, mem, nonces)
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	return page
}

func TestEditorRunPersistsAnswers(t *testing.T) {
	mem := store.NewMemory(nil)
	driver := &stubDriver{
		inputs:    []string{"<b>Corner</b> Shop", "#00ff00"},
		confirm:   []bool{false},
		selectIdx: []int{0},
		textAreas: []string{"first\nsecond", ".a{}", "<p>x</p>"},
	}
	editor, err := New(newTestPage(t, mem), WithPromptDriver(driver), WithTheme(Theme{TabPrefix: "# "}))
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	written, err := editor.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if written != 6 {
		t.Fatalf("written = %d", written)
	}

	want := map[string]string{
		"shop":    "Corner Shop",
		"enabled": "",
		"cadence": "daily",
		"accent":  "#00ff00",
		"footer":  "first\nsecond",
		"snippet": model.CodeValue{HTML: "<p>x</p>", CSS: ".a{}"}.Encode(),
	}
	if diff := cmp.Diff(want, mem.Snapshot()); diff != "" {
		t.Fatalf("stored values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"# General", "# Look", "Settings saved successfully!"}, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
	if got := driver.selects[0].DefaultIndex; got != 1 {
		t.Fatalf("select default index = %d, want the stored default", got)
	}
	if len(driver.validators) != 1 || driver.validators[0]("teal") == nil || driver.validators[0]("#abc") != nil {
		t.Fatalf("color prompt missing hex validation")
	}
}

func TestEditorWithTabsKeepsOtherValues(t *testing.T) {
	mem := store.NewMemory(map[string]string{
		"shop":    "Stored",
		"snippet": model.CodeValue{HTML: "<i>kept</i>"}.Encode(),
	})
	driver := &stubDriver{
		inputs:    []string{"Renamed"},
		confirm:   []bool{true},
		selectIdx: []int{1},
	}
	editor, err := New(newTestPage(t, mem), WithPromptDriver(driver), WithTabs("general"))
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	values, err := editor.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got := values.Get("shop"); got != "Renamed" {
		t.Fatalf("shop = %q", got)
	}
	if got := values.Get("snippet[html]"); got != "<i>kept</i>" {
		t.Fatalf("snippet html = %q", got)
	}
	if got := values.Get("accent"); got != "#336699" {
		t.Fatalf("accent = %q", got)
	}
	if driver.textPos != 0 {
		t.Fatalf("prompted %d text areas outside the selected tab", driver.textPos)
	}
}

func TestEditorRejectsUnknownTab(t *testing.T) {
	if _, err := New(newTestPage(t, store.NewMemory(nil)), WithPromptDriver(&stubDriver{}), WithTabs("missing")); err == nil {
		t.Fatalf("expected error for unknown tab")
	}
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for nil page")
	}
}

func TestEditorPropagatesAbort(t *testing.T) {
	driver := &stubDriver{}
	editor, err := New(newTestPage(t, store.NewMemory(nil)), WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if _, err := editor.Run(context.Background()); err == nil {
		t.Fatalf("expected error when the driver runs out of answers")
	}
}
