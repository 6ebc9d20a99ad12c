package settings

import (
	"context"
	"fmt"
	"net/url"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/sanitize"
)

// SaveStatus reports whether Save wrote anything.
type SaveStatus string

const (
	StatusSkipped SaveStatus = "skipped"
	StatusSaved   SaveStatus = "saved"
)

// Reasons attached to skipped saves and renders.
const (
	ReasonOtherPage       = "page parameter does not match"
	ReasonMissingNonce    = "missing save token"
	ReasonInvalidNonce    = "invalid save token"
	ReasonForbidden       = "missing capability"
	ReasonInvalidTabNonce = "invalid tab token"
)

// SaveResult describes the outcome of Save.
type SaveResult struct {
	Status   SaveStatus
	Reason   string
	Written  int
	Redirect string
}

// Saved reports whether the save went through.
func (r SaveResult) Saved() bool {
	return r.Status == StatusSaved
}

// Save persists the submitted form when the request targets this page,
// carries a valid save token and comes from a principal holding the page
// capability. Guard failures return a skipped result and a nil error.
func (p *Page) Save(ctx context.Context, req Request) (SaveResult, error) {
	if req.Query.Get(ParamPage) != p.cfg.MenuSlug {
		return p.skip(ReasonOtherPage), nil
	}
	if !req.Form.Has(p.cfg.NonceName()) {
		return p.skip(ReasonMissingNonce), nil
	}
	token := req.Form.Get(p.cfg.NonceName())
	if !p.nonces.Valid(token, p.cfg.NonceAction(), req.session()) {
		return p.skip(ReasonInvalidNonce), nil
	}
	if !req.can(p.cfg.Capability) {
		return p.skip(ReasonForbidden), nil
	}

	written, err := p.Persist(ctx, req.Form)
	if err != nil {
		return SaveResult{Status: StatusSkipped, Written: written}, err
	}

	p.logger.Info("settings saved", "slug", p.cfg.MenuSlug, "fields", written)
	return SaveResult{
		Status:   StatusSaved,
		Written:  written,
		Redirect: addQueryArg(p.formAction(req), ParamUpdated, "true"),
	}, nil
}

func (p *Page) skip(reason string) SaveResult {
	p.logger.Debug("settings save skipped", "slug", p.cfg.MenuSlug, "reason", reason)
	return SaveResult{Status: StatusSkipped, Reason: reason}
}

// Persist sanitizes and stores a value for every field in every tab. Fields
// missing from values fall back to their default. Writes are not atomic: on
// error the fields written so far stay written.
func (p *Page) Persist(ctx context.Context, values url.Values) (int, error) {
	written := 0
	for _, field := range p.tabs.Fields() {
		value := SanitizeValue(field, submittedValue(field, values))
		if err := p.store.Set(ctx, field.ID, value); err != nil {
			return written, fmt.Errorf("settings: write option %q: %w", field.ID, err)
		}
		written++
	}
	return written, nil
}

// SanitizeValue applies the per-type rules to a raw submitted value.
func SanitizeValue(field model.Field, raw string) string {
	switch field.Kind() {
	case model.FieldCheckbox, model.FieldSwitch:
		return sanitize.Flag(raw)
	case model.FieldColor:
		return sanitize.HexColor(raw)
	case model.FieldTextarea:
		return sanitize.Textarea(raw)
	case model.FieldRichText:
		return raw
	default:
		return sanitize.Text(raw)
	}
}

// RichTextKeys returns the form keys carrying the panes of a richtext field.
func RichTextKeys(id string) (htmlKey, cssKey string) {
	return id + "[html]", id + "[css]"
}

func submittedValue(field model.Field, values url.Values) string {
	if field.Kind() == model.FieldRichText {
		htmlKey, cssKey := RichTextKeys(field.ID)
		if values.Has(htmlKey) || values.Has(cssKey) {
			return model.CodeValue{
				HTML: values.Get(htmlKey),
				CSS:  values.Get(cssKey),
			}.Encode()
		}
	}
	if values.Has(field.ID) {
		return values.Get(field.ID)
	}
	return field.DefaultString()
}

func addQueryArg(rawURL, key, value string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	query.Set(key, value)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
