package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/auto-applier/internal/browser"
)

// FieldKind tags a scanned element with the one fill strategy that applies
// to it. Kind resolution happens once, at scan time; the fill switch is
// exhaustive over kinds rather than re-inspecting tag/type strings.
type FieldKind int

const (
	KindText FieldKind = iota
	KindTextarea
	KindCheckbox
	KindRadio
	KindSelect
	KindFile
)

// affirmatives is the boolean-ish answer vocabulary that checks a
// checkbox or radio.
var affirmatives = map[string]bool{
	"yes":     true,
	"true":    true,
	"1":       true,
	"y":       true,
	"checked": true,
}

// KindOf resolves the fill strategy for one scanned field.
func KindOf(f browser.FormField) FieldKind {
	switch f.Tag {
	case "textarea":
		return KindTextarea
	case "select":
		return KindSelect
	}
	switch f.Type {
	case "file":
		return KindFile
	case "checkbox":
		return KindCheckbox
	case "radio":
		return KindRadio
	}
	return KindText
}

// Documents are the file-upload candidates for the current application.
type Documents struct {
	CVPath          string
	CoverLetterPath string
}

// uploadPath picks the document a file input should receive: a "cover"
// label takes the cover letter, "cv"/"resume" the selected CV, anything
// else defaults to the CV.
func uploadPath(label string, docs Documents) (string, error) {
	lower := strings.ToLower(label)
	if strings.Contains(lower, "cover") {
		if docs.CoverLetterPath == "" {
			return "", fmt.Errorf("no cover letter available for field %q", label)
		}
		return docs.CoverLetterPath, nil
	}
	if strings.Contains(lower, "cv") || strings.Contains(lower, "resume") {
		if docs.CVPath == "" {
			return "", fmt.Errorf("no CV available for field %q", label)
		}
		return docs.CVPath, nil
	}
	if docs.CVPath == "" {
		return "", fmt.Errorf("no CV available for field %q", label)
	}
	return docs.CVPath, nil
}

// matchOption finds the select option for answer: exact case-insensitive
// match first, then substring. Returns the option index, or -1.
func matchOption(options []string, answer string) int {
	lower := strings.ToLower(strings.TrimSpace(answer))
	if lower == "" {
		return -1
	}
	for i, opt := range options {
		if opt != "" && lower == strings.ToLower(opt) {
			return i
		}
	}
	for i, opt := range options {
		if opt != "" && strings.Contains(strings.ToLower(opt), lower) {
			return i
		}
	}
	return -1
}

// fillField applies the kind's strategy to one field. answer is ignored for
// file inputs, which are driven by the label keyword instead.
func fillField(ctx context.Context, page browser.Page, f browser.FormField, answer string, docs Documents) error {
	switch KindOf(f) {
	case KindFile:
		path, err := uploadPath(f.Label, docs)
		if err != nil {
			return err
		}
		return page.Upload(ctx, f.Ref, path)
	case KindCheckbox, KindRadio:
		checked := affirmatives[strings.ToLower(strings.TrimSpace(answer))]
		return page.SetChecked(ctx, f.Ref, checked)
	case KindSelect:
		idx := matchOption(f.Options, answer)
		if idx < 0 {
			return fmt.Errorf("no option matches %q", answer)
		}
		return page.SelectOption(ctx, f.Ref, idx)
	default:
		return page.SetText(ctx, f.Ref, answer)
	}
}
