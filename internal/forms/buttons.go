package forms

import (
	"context"
	"strings"

	"github.com/jonathan/auto-applier/internal/browser"
)

// easyApplySelectors are known in-page apply entry points, tried in order
// before the first form scan.
var easyApplySelectors = []string{
	"button.jobs-apply-button",
	"button.jobs-apply-button--top-card",
	"button[aria-label*='Easy Apply']",
	"button[data-control-name='jobdetails_topcard_inapply']",
	"a[href*='apply']",
}

// Control-button vocabularies, English and Spanish.
var (
	submitWords = []string{"submit", "apply", "send", "finish", "enviar"}
	reviewWords = []string{"review", "revisar"}
	nextWords   = []string{"next", "siguiente", "continue", "continuar"}
)

type buttonKind int

const (
	buttonNone buttonKind = iota
	buttonSubmit
	buttonReview
	buttonNext
)

// classifyButton decides what pressing a button does. Step controls
// (next/review) are recognized by text before the submit-type attribute is
// consulted: multi-step forms routinely mark their Next button type=submit.
func classifyButton(b browser.Button) buttonKind {
	combined := strings.ToLower(strings.TrimSpace(b.Text + " " + b.Value))
	switch {
	case containsAny(combined, reviewWords):
		return buttonReview
	case containsAny(combined, nextWords):
		return buttonNext
	case b.Submit || containsAny(combined, submitWords):
		return buttonSubmit
	}
	return buttonNone
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// pickControl returns the highest-priority advance control on the page:
// submit beats review beats next.
func pickControl(buttons []browser.Button) (browser.Button, buttonKind) {
	var review, next *browser.Button
	for i := range buttons {
		switch classifyButton(buttons[i]) {
		case buttonSubmit:
			return buttons[i], buttonSubmit
		case buttonReview:
			if review == nil {
				review = &buttons[i]
			}
		case buttonNext:
			if next == nil {
				next = &buttons[i]
			}
		}
	}
	if review != nil {
		return *review, buttonReview
	}
	if next != nil {
		return *next, buttonNext
	}
	return browser.Button{}, buttonNone
}

// ClickEasyApply clicks the first known apply entry point present on the
// page. Missing entry points are fine: many postings open straight onto
// the form.
func ClickEasyApply(ctx context.Context, page browser.Page, log func(string)) {
	for _, sel := range easyApplySelectors {
		found, err := page.Exists(ctx, sel)
		if err != nil || !found {
			continue
		}
		if err := page.ClickSelector(ctx, sel); err != nil {
			continue
		}
		if log != nil {
			log("Clicked apply button: " + sel)
		}
		return
	}
}
