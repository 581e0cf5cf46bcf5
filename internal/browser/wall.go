package browser

import (
	"context"
	"strings"
)

// captchaSelectors are form elements that only appear on a CAPTCHA page.
var captchaSelectors = []string{
	"input[name='captcha']",
	"iframe[src*='recaptcha']",
}

// loginFieldSelectors are form fields that only appear on a sign-in page.
var loginFieldSelectors = []string{
	"input[name='session_key']",
	"input[name='session_password']",
}

// loginBodyPhrases in the visible text mark a sign-in wall. This is an
// accepted heuristic boundary: it can flag legitimate pages that merely
// mention signing in, and it can miss unrecognized wall variants.
var loginBodyPhrases = []string{
	"sign in",
	"log in",
	"inicia sesión",
	"iniciar sesión",
}

// IsCaptcha reports whether the current page is a CAPTCHA challenge.
func IsCaptcha(ctx context.Context, p Page) bool {
	url, err := p.Location(ctx)
	if err != nil {
		return false
	}
	if strings.Contains(strings.ToLower(url), "captcha") {
		return true
	}
	for _, sel := range captchaSelectors {
		if found, err := p.Exists(ctx, sel); err == nil && found {
			return true
		}
	}
	body, err := p.BodyText(ctx)
	if err != nil {
		return false
	}
	lower := strings.ToLower(body)
	return strings.Contains(lower, "captcha") || strings.Contains(lower, "unusual traffic")
}

// IsLoginOrCaptcha reports whether the current page is a login wall or a
// CAPTCHA challenge blocking automated progress.
func IsLoginOrCaptcha(ctx context.Context, p Page) bool {
	url, err := p.Location(ctx)
	if err != nil {
		return false
	}
	lower := strings.ToLower(url)
	if strings.Contains(lower, "login") || strings.Contains(lower, "signin") {
		return true
	}
	if strings.Contains(lower, "linkedin.com/checkpoint") || strings.Contains(lower, "linkedin.com/authwall") {
		return true
	}
	if IsCaptcha(ctx, p) {
		return true
	}

	body, err := p.BodyText(ctx)
	if err != nil {
		return false
	}
	bodyLower := strings.ToLower(body)
	for _, phrase := range loginBodyPhrases {
		if strings.Contains(bodyLower, phrase) {
			return true
		}
	}
	if strings.Contains(lower, "linkedin") &&
		(strings.Contains(bodyLower, "registrarte") || strings.Contains(bodyLower, "crear cuenta")) {
		return true
	}

	for _, sel := range loginFieldSelectors {
		if found, err := p.Exists(ctx, sel); err == nil && found {
			return true
		}
	}
	return false
}
