package discovery

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jonathan/auto-applier/internal/browser"
	"github.com/jonathan/auto-applier/internal/handoff"
)

// linkedInLinkSelector matches job links in both the logged-in and the
// public search layouts.
const linkedInLinkSelector = "a.job-card-list__title, a.base-card__full-link"

// linkedInNextSelector matches the pagination control, English or Spanish.
const linkedInNextSelector = "button[aria-label='Next'], button[aria-label='Siguiente']"

// LinkedIn searches the LinkedIn jobs surface directly.
type LinkedIn struct {
	broker *handoff.Broker
	log    func(string)
}

// Collect implements Backend.
func (b *LinkedIn) Collect(ctx context.Context, page browser.Page, queries []string, opts Options) ([]string, error) {
	out := newCollector(opts.MaxJobs)

	for _, query := range queries {
		if out.full() {
			break
		}
		searchURL := b.searchURL(query, opts)

		if err := page.Navigate(ctx, searchURL); err != nil {
			b.log(fmt.Sprintf("Navigation failed: %v", err))
			continue
		}
		if browser.IsLoginOrCaptcha(ctx, page) {
			b.log("LinkedIn login required. Waiting for manual interaction...")
			if !pauseForWall(ctx, b.broker, "Sign in to LinkedIn in the browser, then continue.") {
				break
			}
			if err := page.Navigate(ctx, searchURL); err != nil {
				continue
			}
		}

		for pageIdx := 0; pageIdx < opts.MaxPages; pageIdx++ {
			hrefs, err := extractLinks(page, ctx, linkedInLinkSelector)
			if err != nil {
				b.log(fmt.Sprintf("LinkedIn select error: %v", err))
				break
			}
			for _, href := range hrefs {
				if !out.add(href) {
					break
				}
			}
			if out.full() {
				break
			}
			// Advance only while a next control is present.
			if err := page.ClickSelector(ctx, linkedInNextSelector); err != nil {
				break
			}
		}
	}

	b.log(fmt.Sprintf("LinkedIn results: %d", len(out.results)))
	return out.results, nil
}

func (b *LinkedIn) searchURL(query string, opts Options) string {
	params := "keywords=" + url.QueryEscape(query)
	if opts.LinkedInLocation != "" {
		params += "&location=" + url.QueryEscape(opts.LinkedInLocation)
	}
	if opts.LinkedInRemoteOnly {
		params += "&f_WT=2"
	}
	return "https://www.linkedin.com/jobs/search/?" + params
}
