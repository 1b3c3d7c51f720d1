package template

import (
	"fmt"
	"regexp"
	"strings"
)

// Vars is the variable bag supplied to template rendering. Values of any
// type are accepted; non-string values are formatted with their default
// representation and nil values render as the empty string.
type Vars map[string]any

// Resolve returns the string form of the named variable, or "" if the
// variable is missing or nil.
func (v Vars) Resolve(name string) string {
	val, ok := v[name]
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprint(val)
}

// Template describes the interpolatable fields of one notification shape.
// Fields may contain {{variableName}} placeholders.
type Template struct {
	Title                string
	Message              string
	RichMessage          string
	ImageURL             string
	ThumbnailURL         string
	ActionLabel          string
	ActionURL            string
	SecondaryActionLabel string
	SecondaryActionURL   string
}

// Payload is a fully interpolated template. Optional fields are empty
// strings when the template did not define them.
type Payload struct {
	Title                string
	Message              string
	RichMessage          string
	ImageURL             string
	ThumbnailURL         string
	ActionLabel          string
	ActionURL            string
	SecondaryActionLabel string
	SecondaryActionURL   string
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// Interpolate replaces every {{name}} placeholder in s with the resolved
// variable value. Unresolved placeholders become the empty string, never the
// literal placeholder text. Interpolation is pure and never fails.
func Interpolate(s string, vars Vars) string {
	if s == "" {
		return ""
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		return vars.Resolve(name)
	})
}

// Render interpolates every field of the template against the variable bag.
func Render(tpl Template, vars Vars) Payload {
	return Payload{
		Title:                Interpolate(tpl.Title, vars),
		Message:              Interpolate(tpl.Message, vars),
		RichMessage:          Interpolate(tpl.RichMessage, vars),
		ImageURL:             Interpolate(tpl.ImageURL, vars),
		ThumbnailURL:         Interpolate(tpl.ThumbnailURL, vars),
		ActionLabel:          Interpolate(tpl.ActionLabel, vars),
		ActionURL:            Interpolate(tpl.ActionURL, vars),
		SecondaryActionLabel: Interpolate(tpl.SecondaryActionLabel, vars),
		SecondaryActionURL:   Interpolate(tpl.SecondaryActionURL, vars),
	}
}

// Truncate shortens s to at most max runes, appending "..." when anything
// was cut. Truncation is rune-safe so multi-byte characters are never split.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimRight(string(runes[:max]), " ") + "..."
}
