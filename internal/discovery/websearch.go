package discovery

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jonathan/auto-applier/internal/browser"
	"github.com/jonathan/auto-applier/internal/handoff"
)

// Result-link selectors per engine.
const (
	ddgLinkSelector  = "a.result__a, a[data-testid='result-title-a']"
	bingLinkSelector = "li.b_algo h2 a"
)

// Results per page per engine, used to compute pagination offsets.
const (
	ddgPageSize  = 50
	bingPageSize = 10
)

// WebSearch is the general-engine fallback backend: the DuckDuckGo HTML
// endpoint first (no JS walls), then Bing with an optional site: filter to
// fill the remaining budget.
type WebSearch struct {
	broker *handoff.Broker
	log    func(string)
}

// Collect implements Backend.
func (b *WebSearch) Collect(ctx context.Context, page browser.Page, queries []string, opts Options) ([]string, error) {
	out := newCollector(opts.MaxJobs)

	b.collectEngine(ctx, page, queries, opts, out, engineDDG)
	if !out.full() {
		b.collectEngine(ctx, page, queries, opts, out, engineBing)
	}

	b.log(fmt.Sprintf("Web search results: %d", len(out.results)))
	return out.results, nil
}

type engine int

const (
	engineDDG engine = iota
	engineBing
)

func (b *WebSearch) collectEngine(ctx context.Context, page browser.Page, queries []string, opts Options, out *collector, eng engine) {
	for _, query := range queries {
		if out.full() {
			return
		}
		q := query
		if eng == engineBing && opts.SiteFilter != "" {
			q = "site:" + opts.SiteFilter + " " + query
		}
		b.log(fmt.Sprintf("%s query: %s", eng.name(), q))

		for pageIdx := 0; pageIdx < opts.MaxPages; pageIdx++ {
			if out.full() {
				return
			}
			if err := page.Navigate(ctx, eng.pageURL(q, pageIdx)); err != nil {
				b.log(fmt.Sprintf("%s search error: %v", eng.name(), err))
				break
			}
			if browser.IsCaptcha(ctx, page) {
				b.log(fmt.Sprintf("%s CAPTCHA detected. Waiting for manual solve...", eng.name()))
				if !pauseForWall(ctx, b.broker, "Solve the CAPTCHA in the browser, then continue.") {
					return
				}
				if browser.IsCaptcha(ctx, page) {
					b.log("CAPTCHA still present; skipping this query page.")
					continue
				}
			}
			hrefs, err := extractLinks(page, ctx, eng.linkSelector())
			if err != nil {
				b.log(fmt.Sprintf("%s parse error: %v", eng.name(), err))
				break
			}
			for _, href := range hrefs {
				if !out.add(href) {
					return
				}
			}
		}
	}
}

func (e engine) name() string {
	if e == engineDDG {
		return "DuckDuckGo"
	}
	return "Bing"
}

func (e engine) linkSelector() string {
	if e == engineDDG {
		return ddgLinkSelector
	}
	return bingLinkSelector
}

// pageURL builds the results URL for the zero-based page index.
func (e engine) pageURL(query string, pageIdx int) string {
	escaped := url.QueryEscape(query)
	if e == engineDDG {
		return fmt.Sprintf("https://html.duckduckgo.com/html/?q=%s&s=%d", escaped, pageIdx*ddgPageSize)
	}
	return fmt.Sprintf("https://www.bing.com/search?q=%s&first=%d", escaped, pageIdx*bingPageSize+1)
}
