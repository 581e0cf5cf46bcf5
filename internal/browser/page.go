// Package browser owns the live Chrome session used for discovery and form
// filling. The Session is an explicitly owned object passed by reference
// into the pipeline; crash recovery is an explicit Restart call, never
// implicit lazy state.
package browser

import "context"

// FormField describes one input-like element on the current page. Fields
// are transient: they are re-scanned on every fill pass and never persisted.
// Ref addresses the element through a data attribute stamped at scan time.
type FormField struct {
	Ref         string   `json:"ref"`
	Tag         string   `json:"tag"`
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Name        string   `json:"name"`
	Placeholder string   `json:"placeholder"`
	Options     []string `json:"options"`
	Required    bool     `json:"required"`
	Checked     bool     `json:"checked"`
}

// Question returns the text used to classify this field.
func (f FormField) Question() string {
	if f.Label != "" {
		return f.Label
	}
	if f.Name != "" {
		return f.Name
	}
	return f.Placeholder
}

// Button describes one clickable control on the current page.
type Button struct {
	Ref    string `json:"ref"`
	Text   string `json:"text"`
	Value  string `json:"value"`
	Submit bool   `json:"submit"`
}

// Page is the browser surface the pipeline drives. Session implements it;
// tests substitute fakes.
type Page interface {
	// Navigate loads url and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error
	// Location returns the current page URL.
	Location(ctx context.Context) (string, error)
	// BodyText returns the visible text of the page body.
	BodyText(ctx context.Context) (string, error)
	// HTML returns the rendered outer HTML of the page.
	HTML(ctx context.Context) (string, error)
	// Exists reports whether selector matches anything on the page.
	Exists(ctx context.Context, selector string) (bool, error)
	// ClickSelector clicks the first visible match of selector.
	ClickSelector(ctx context.Context, selector string) error

	// ScanFields enumerates the currently visible, non-hidden, non-button
	// input-like elements, stamping each with a unique ref.
	ScanFields(ctx context.Context) ([]FormField, error)
	// Buttons enumerates the currently visible clickable controls.
	Buttons(ctx context.Context) ([]Button, error)
	// RequiredUnfilled returns the labels of visible required fields that
	// are still empty.
	RequiredUnfilled(ctx context.Context) ([]string, error)

	// SetText fills a text-like field and fires input/change events.
	SetText(ctx context.Context, ref, value string) error
	// SetChecked drives a checkbox/radio to the wanted state.
	SetChecked(ctx context.Context, ref string, checked bool) error
	// SelectOption picks the option at index on a select field.
	SelectOption(ctx context.Context, ref string, index int) error
	// Upload attaches a local file to a file input.
	Upload(ctx context.Context, ref, path string) error
	// Click clicks the element addressed by ref.
	Click(ctx context.Context, ref string) error
	// SubmitForm submits the first form on the page directly.
	SubmitForm(ctx context.Context) error
}
