package runner

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/auto-applier/internal/browser"
)

// descriptionSelectors are known job-description containers, tried before
// falling back to the whole body text.
var descriptionSelectors = []string{
	"section.jobs-description__container",
	"div.show-more-less-html__markup",
	"div.jobs-description__content",
}

// minDescriptionLen rejects container matches too short to be a real
// description (cookie banners, collapsed teasers).
const minDescriptionLen = 50

// jobDescription reads the posting text from the current page, scoped to a
// description container when one is present.
func jobDescription(ctx context.Context, page browser.Page) string {
	if html, err := page.HTML(ctx); err == nil {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
			for _, sel := range descriptionSelectors {
				text := strings.TrimSpace(doc.Find(sel).First().Text())
				if len(text) > minDescriptionLen {
					return text
				}
			}
		}
	}
	body, err := page.BodyText(ctx)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(body)
}
