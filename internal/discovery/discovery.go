// Package discovery turns planned search queries into candidate job URLs.
// Two backends share one contract: a direct LinkedIn search and a general
// web-search fallback. Both paginate up to a page bound, de-duplicate by
// exact URL across the whole run, and defer to a human on a login/CAPTCHA
// wall.
package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/auto-applier/internal/browser"
	"github.com/jonathan/auto-applier/internal/handoff"
)

// Backend names accepted by New.
const (
	BackendLinkedIn  = "linkedin"
	BackendWebSearch = "websearch"
)

// Options bounds one discovery run.
type Options struct {
	MaxPages int
	MaxJobs  int
	// SiteFilter restricts web-search results to one domain (site: filter).
	SiteFilter string
	// LinkedInLocation is passed to the LinkedIn search when set.
	LinkedInLocation string
	// LinkedInRemoteOnly adds the remote-only facet to LinkedIn searches.
	LinkedInRemoteOnly bool
}

// Backend collects job URLs for a query set.
type Backend interface {
	Collect(ctx context.Context, page browser.Page, queries []string, opts Options) ([]string, error)
}

// New returns the named backend.
func New(name string, broker *handoff.Broker, log func(string)) (Backend, error) {
	if log == nil {
		log = func(string) {}
	}
	switch name {
	case BackendLinkedIn:
		return &LinkedIn{broker: broker, log: log}, nil
	case BackendWebSearch:
		return &WebSearch{broker: broker, log: log}, nil
	default:
		return nil, fmt.Errorf("unknown discovery backend %q", name)
	}
}

// collector accumulates de-duplicated URLs up to the job bound.
type collector struct {
	seen    map[string]bool
	results []string
	maxJobs int
}

func newCollector(maxJobs int) *collector {
	return &collector{seen: make(map[string]bool), maxJobs: maxJobs}
}

// add records href if it is a new absolute URL; it returns false once the
// job bound is reached.
func (c *collector) add(href string) bool {
	if c.full() {
		return false
	}
	if href == "" || !strings.HasPrefix(href, "http") {
		return true
	}
	if c.seen[href] {
		return true
	}
	c.seen[href] = true
	c.results = append(c.results, href)
	return !c.full()
}

func (c *collector) full() bool {
	return len(c.results) >= c.maxJobs
}

// extractLinks parses the rendered page HTML and returns the href of every
// element matching selector.
func extractLinks(page browser.Page, ctx context.Context, selector string) ([]string, error) {
	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	var hrefs []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			hrefs = append(hrefs, strings.TrimSpace(href))
		}
	})
	return hrefs, nil
}

// pauseForWall asks the human to clear the wall in the live browser. It
// returns false when the request is dismissed or fails.
func pauseForWall(ctx context.Context, broker *handoff.Broker, message string) bool {
	if broker == nil {
		return false
	}
	answer, err := broker.Ask(ctx, message, handoff.KindCaptcha)
	return err == nil && answer != nil
}
