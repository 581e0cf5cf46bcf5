package browser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakePage is a canned Page for heuristics tests.
type fakePage struct {
	url       string
	body      string
	selectors map[string]bool
}

func (f *fakePage) Navigate(context.Context, string) error { return nil }
func (f *fakePage) Location(context.Context) (string, error) {
	return f.url, nil
}
func (f *fakePage) BodyText(context.Context) (string, error) {
	return f.body, nil
}
func (f *fakePage) HTML(context.Context) (string, error) { return "", nil }
func (f *fakePage) Exists(_ context.Context, selector string) (bool, error) {
	return f.selectors[selector], nil
}
func (f *fakePage) ClickSelector(context.Context, string) error        { return nil }
func (f *fakePage) ScanFields(context.Context) ([]FormField, error)    { return nil, nil }
func (f *fakePage) Buttons(context.Context) ([]Button, error)          { return nil, nil }
func (f *fakePage) RequiredUnfilled(context.Context) ([]string, error) { return nil, nil }
func (f *fakePage) SetText(context.Context, string, string) error      { return nil }
func (f *fakePage) SetChecked(context.Context, string, bool) error     { return nil }
func (f *fakePage) SelectOption(context.Context, string, int) error    { return nil }
func (f *fakePage) Upload(context.Context, string, string) error       { return nil }
func (f *fakePage) Click(context.Context, string) error                { return nil }
func (f *fakePage) SubmitForm(context.Context) error                   { return nil }

func TestIsLoginOrCaptcha(t *testing.T) {
	tests := []struct {
		name string
		page fakePage
		want bool
	}{
		{"login url", fakePage{url: "https://example.com/login?next=x"}, true},
		{"signin url", fakePage{url: "https://example.com/signin"}, true},
		{"linkedin checkpoint", fakePage{url: "https://www.linkedin.com/checkpoint/challenge"}, true},
		{"linkedin authwall", fakePage{url: "https://www.linkedin.com/authwall?x=1"}, true},
		{"sign in phrase in body", fakePage{url: "https://jobs.example.com", body: "Please Sign In to continue"}, true},
		{"spanish login phrase", fakePage{url: "https://jobs.example.com", body: "Inicia sesión para continuar"}, true},
		{"linkedin signup phrase", fakePage{url: "https://www.linkedin.com/jobs", body: "Regístrate o crear cuenta"}, true},
		{"signup phrase off linkedin ignored", fakePage{url: "https://jobs.example.com", body: "crear cuenta"}, false},
		{"session form field", fakePage{url: "https://www.linkedin.com/jobs", selectors: map[string]bool{"input[name='session_key']": true}}, true},
		{"ordinary job page", fakePage{url: "https://jobs.example.com/123", body: "Great Go role"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLoginOrCaptcha(context.Background(), &tt.page))
		})
	}
}

func TestIsCaptcha(t *testing.T) {
	tests := []struct {
		name string
		page fakePage
		want bool
	}{
		{"captcha in url", fakePage{url: "https://duckduckgo.com/captcha"}, true},
		{"captcha input", fakePage{url: "https://example.com", selectors: map[string]bool{"input[name='captcha']": true}}, true},
		{"recaptcha iframe", fakePage{url: "https://example.com", selectors: map[string]bool{"iframe[src*='recaptcha']": true}}, true},
		{"unusual traffic phrase", fakePage{url: "https://example.com", body: "We detected unusual traffic"}, true},
		{"clean page", fakePage{url: "https://example.com", body: "results"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCaptcha(context.Background(), &tt.page))
		})
	}
}

func TestFormFieldQuestion(t *testing.T) {
	assert.Equal(t, "Email", FormField{Label: "Email", Name: "email"}.Question())
	assert.Equal(t, "email", FormField{Name: "email", Placeholder: "you@x"}.Question())
	assert.Equal(t, "you@x", FormField{Placeholder: "you@x"}.Question())
}
