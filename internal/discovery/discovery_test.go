package discovery

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/auto-applier/internal/browser"
	"github.com/jonathan/auto-applier/internal/handoff"
)

// fakePage serves canned HTML keyed by a substring of the navigated URL.
type fakePage struct {
	pages     map[string]string // URL substring -> rendered HTML
	bodies    map[string]string // URL substring -> visible body text
	selectors map[string]bool
	clickErr  error

	current   string
	navs      []string
	clicks    int
	afterNext string // HTML served after a pagination click
}

func (f *fakePage) Navigate(_ context.Context, url string) error {
	f.current = url
	f.navs = append(f.navs, url)
	return nil
}

func (f *fakePage) Location(context.Context) (string, error) { return f.current, nil }

func (f *fakePage) BodyText(context.Context) (string, error) {
	for key, body := range f.bodies {
		if strings.Contains(f.current, key) {
			return body, nil
		}
	}
	return "", nil
}

func (f *fakePage) HTML(context.Context) (string, error) {
	if f.clicks > 0 && f.afterNext != "" {
		return f.afterNext, nil
	}
	for key, html := range f.pages {
		if strings.Contains(f.current, key) {
			return html, nil
		}
	}
	return "<html><body></body></html>", nil
}

func (f *fakePage) Exists(_ context.Context, selector string) (bool, error) {
	return f.selectors[selector], nil
}

func (f *fakePage) ClickSelector(context.Context, string) error {
	if f.clickErr != nil {
		return f.clickErr
	}
	f.clicks++
	return nil
}

func (f *fakePage) ScanFields(context.Context) ([]browser.FormField, error) { return nil, nil }
func (f *fakePage) Buttons(context.Context) ([]browser.Button, error)       { return nil, nil }
func (f *fakePage) RequiredUnfilled(context.Context) ([]string, error)      { return nil, nil }
func (f *fakePage) SetText(context.Context, string, string) error           { return nil }
func (f *fakePage) SetChecked(context.Context, string, bool) error          { return nil }
func (f *fakePage) SelectOption(context.Context, string, int) error         { return nil }
func (f *fakePage) Upload(context.Context, string, string) error            { return nil }
func (f *fakePage) Click(context.Context, string) error                     { return nil }
func (f *fakePage) SubmitForm(context.Context) error                        { return nil }

func resolvingBroker() *handoff.Broker {
	return handoff.NewBroker(func(r *handoff.Request) {
		go r.Resolve("", false)
	})
}

func dismissingBroker() *handoff.Broker {
	return handoff.NewBroker(func(r *handoff.Request) {
		go r.Dismiss()
	})
}

func linkedInHTML(hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><ul>")
	for _, href := range hrefs {
		fmt.Fprintf(&b, `<li><a class="base-card__full-link" href=%q>Job</a></li>`, href)
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

func ddgHTML(hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, href := range hrefs {
		fmt.Fprintf(&b, `<div class="result"><a class="result__a" href=%q>Hit</a></div>`, href)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func bingHTML(hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><ol>")
	for _, href := range hrefs {
		fmt.Fprintf(&b, `<li class="b_algo"><h2><a href=%q>Hit</a></h2></li>`, href)
	}
	b.WriteString("</ol></body></html>")
	return b.String()
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr bool
	}{
		{"linkedin", BackendLinkedIn, false},
		{"websearch", BackendWebSearch, false},
		{"unknown", "indeed", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := New(tt.backend, nil, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, backend)
		})
	}
}

func TestCollectorDedupe(t *testing.T) {
	c := newCollector(3)
	assert.True(t, c.add("https://a.example/1"))
	assert.True(t, c.add("https://a.example/1")) // duplicate, still room
	assert.True(t, c.add("javascript:void(0)"))  // not absolute, ignored
	assert.True(t, c.add(""))
	assert.True(t, c.add("https://a.example/2"))
	assert.False(t, c.add("https://a.example/3")) // bound reached
	assert.False(t, c.add("https://a.example/4"))
	assert.Equal(t, []string{"https://a.example/1", "https://a.example/2", "https://a.example/3"}, c.results)
}

func TestLinkedInCollect(t *testing.T) {
	page := &fakePage{
		pages: map[string]string{
			"linkedin.com/jobs/search": linkedInHTML(
				"https://www.linkedin.com/jobs/view/1",
				"https://www.linkedin.com/jobs/view/2",
				"https://www.linkedin.com/jobs/view/1", // duplicate on page
			),
		},
		clickErr: fmt.Errorf("no next button"),
	}
	backend, err := New(BackendLinkedIn, nil, nil)
	require.NoError(t, err)

	urls, err := backend.Collect(context.Background(), page,
		[]string{"go developer jobs", "backend jobs remote"},
		Options{MaxPages: 3, MaxJobs: 10})
	require.NoError(t, err)

	// Same links per query, so the second query adds nothing.
	assert.Equal(t, []string{
		"https://www.linkedin.com/jobs/view/1",
		"https://www.linkedin.com/jobs/view/2",
	}, urls)
	assert.Len(t, page.navs, 2)
}

func TestLinkedInSearchURL(t *testing.T) {
	b := &LinkedIn{log: func(string) {}}

	plain := b.searchURL("go developer", Options{})
	assert.Contains(t, plain, "keywords=go+developer")
	assert.NotContains(t, plain, "location=")
	assert.NotContains(t, plain, "f_WT=2")

	full := b.searchURL("go developer", Options{LinkedInLocation: "Madrid", LinkedInRemoteOnly: true})
	assert.Contains(t, full, "location=Madrid")
	assert.Contains(t, full, "f_WT=2")
}

func TestLinkedInPagination(t *testing.T) {
	page := &fakePage{
		pages: map[string]string{
			"linkedin.com/jobs/search": linkedInHTML("https://www.linkedin.com/jobs/view/1"),
		},
		afterNext: linkedInHTML("https://www.linkedin.com/jobs/view/2"),
	}
	backend, err := New(BackendLinkedIn, nil, nil)
	require.NoError(t, err)

	urls, err := backend.Collect(context.Background(), page,
		[]string{"go jobs"}, Options{MaxPages: 2, MaxJobs: 10})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://www.linkedin.com/jobs/view/1",
		"https://www.linkedin.com/jobs/view/2",
	}, urls)
	// MaxPages bounds the loop: one advance for two pages.
	assert.Equal(t, 1, page.clicks)
}

func TestLinkedInMaxJobs(t *testing.T) {
	page := &fakePage{
		pages: map[string]string{
			"linkedin.com/jobs/search": linkedInHTML(
				"https://www.linkedin.com/jobs/view/1",
				"https://www.linkedin.com/jobs/view/2",
				"https://www.linkedin.com/jobs/view/3",
			),
		},
	}
	backend, err := New(BackendLinkedIn, nil, nil)
	require.NoError(t, err)

	urls, err := backend.Collect(context.Background(), page,
		[]string{"go jobs"}, Options{MaxPages: 5, MaxJobs: 2})
	require.NoError(t, err)
	assert.Len(t, urls, 2)
	assert.Zero(t, page.clicks)
}

func TestLinkedInLoginWall(t *testing.T) {
	t.Run("resolved wall retries the search", func(t *testing.T) {
		page := &fakePage{
			pages: map[string]string{
				"linkedin.com/jobs/search": linkedInHTML("https://www.linkedin.com/jobs/view/1"),
			},
			selectors: map[string]bool{"input[name='session_key']": true},
			clickErr:  fmt.Errorf("no next button"),
		}
		backend, err := New(BackendLinkedIn, resolvingBroker(), nil)
		require.NoError(t, err)

		urls, err := backend.Collect(context.Background(), page,
			[]string{"go jobs"}, Options{MaxPages: 1, MaxJobs: 10})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://www.linkedin.com/jobs/view/1"}, urls)
		// Initial navigation plus the post-wall retry.
		assert.Len(t, page.navs, 2)
	})

	t.Run("dismissed wall ends the run", func(t *testing.T) {
		page := &fakePage{
			selectors: map[string]bool{"input[name='session_key']": true},
		}
		backend, err := New(BackendLinkedIn, dismissingBroker(), nil)
		require.NoError(t, err)

		urls, err := backend.Collect(context.Background(), page,
			[]string{"go jobs", "backend jobs"}, Options{MaxPages: 1, MaxJobs: 10})
		require.NoError(t, err)
		assert.Empty(t, urls)
		assert.Len(t, page.navs, 1)
	})

	t.Run("no broker ends the run", func(t *testing.T) {
		page := &fakePage{
			selectors: map[string]bool{"input[name='session_key']": true},
		}
		backend, err := New(BackendLinkedIn, nil, nil)
		require.NoError(t, err)

		urls, err := backend.Collect(context.Background(), page,
			[]string{"go jobs"}, Options{MaxPages: 1, MaxJobs: 10})
		require.NoError(t, err)
		assert.Empty(t, urls)
	})
}

func TestWebSearchCollect(t *testing.T) {
	page := &fakePage{
		pages: map[string]string{
			"duckduckgo.com": ddgHTML("https://jobs.example.com/1", "https://jobs.example.com/2"),
			"bing.com":       bingHTML("https://jobs.example.com/2", "https://jobs.example.com/3"),
		},
	}
	backend, err := New(BackendWebSearch, nil, nil)
	require.NoError(t, err)

	urls, err := backend.Collect(context.Background(), page,
		[]string{"go jobs remote"}, Options{MaxPages: 1, MaxJobs: 10})
	require.NoError(t, err)

	// Bing tops up after DuckDuckGo; duplicates collapse across engines.
	assert.Equal(t, []string{
		"https://jobs.example.com/1",
		"https://jobs.example.com/2",
		"https://jobs.example.com/3",
	}, urls)
}

func TestWebSearchSkipsBingWhenFull(t *testing.T) {
	page := &fakePage{
		pages: map[string]string{
			"duckduckgo.com": ddgHTML("https://jobs.example.com/1", "https://jobs.example.com/2"),
			"bing.com":       bingHTML("https://jobs.example.com/3"),
		},
	}
	backend, err := New(BackendWebSearch, nil, nil)
	require.NoError(t, err)

	urls, err := backend.Collect(context.Background(), page,
		[]string{"go jobs"}, Options{MaxPages: 1, MaxJobs: 2})
	require.NoError(t, err)

	assert.Len(t, urls, 2)
	for _, nav := range page.navs {
		assert.NotContains(t, nav, "bing.com")
	}
}

func TestWebSearchSiteFilter(t *testing.T) {
	page := &fakePage{}
	backend, err := New(BackendWebSearch, nil, nil)
	require.NoError(t, err)

	_, err = backend.Collect(context.Background(), page,
		[]string{"go jobs"}, Options{MaxPages: 1, MaxJobs: 5, SiteFilter: "greenhouse.io"})
	require.NoError(t, err)

	var bingNav string
	for _, nav := range page.navs {
		if strings.Contains(nav, "bing.com") {
			bingNav = nav
		} else {
			// The site: filter applies to Bing only.
			assert.NotContains(t, nav, "greenhouse.io")
		}
	}
	require.NotEmpty(t, bingNav)
	assert.Contains(t, bingNav, "site%3Agreenhouse.io")
}

func TestWebSearchPagination(t *testing.T) {
	page := &fakePage{}
	backend, err := New(BackendWebSearch, nil, nil)
	require.NoError(t, err)

	_, err = backend.Collect(context.Background(), page,
		[]string{"go jobs"}, Options{MaxPages: 2, MaxJobs: 10})
	require.NoError(t, err)

	var ddgNavs, bingNavs []string
	for _, nav := range page.navs {
		if strings.Contains(nav, "duckduckgo.com") {
			ddgNavs = append(ddgNavs, nav)
		} else {
			bingNavs = append(bingNavs, nav)
		}
	}
	require.Len(t, ddgNavs, 2)
	assert.Contains(t, ddgNavs[0], "&s=0")
	assert.Contains(t, ddgNavs[1], "&s=50")
	require.Len(t, bingNavs, 2)
	assert.Contains(t, bingNavs[0], "&first=1")
	assert.Contains(t, bingNavs[1], "&first=11")
}

func TestWebSearchCaptcha(t *testing.T) {
	t.Run("solved captcha continues", func(t *testing.T) {
		page := &fakePage{
			pages: map[string]string{
				"duckduckgo.com": ddgHTML("https://jobs.example.com/1"),
			},
			bodies: map[string]string{"duckduckgo.com": "please solve this captcha"},
		}
		broker := handoff.NewBroker(func(r *handoff.Request) {
			// Human solves the challenge before continuing.
			page.bodies = nil
			go r.Resolve("", false)
		})
		backend, err := New(BackendWebSearch, broker, nil)
		require.NoError(t, err)

		urls, err := backend.Collect(context.Background(), page,
			[]string{"go jobs"}, Options{MaxPages: 1, MaxJobs: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://jobs.example.com/1"}, urls)
	})

	t.Run("unsolved captcha skips the page", func(t *testing.T) {
		page := &fakePage{
			pages: map[string]string{
				"duckduckgo.com": ddgHTML("https://jobs.example.com/1"),
				"bing.com":       bingHTML("https://jobs.example.com/2"),
			},
			bodies: map[string]string{"duckduckgo.com": "please solve this captcha"},
		}
		backend, err := New(BackendWebSearch, resolvingBroker(), nil)
		require.NoError(t, err)

		urls, err := backend.Collect(context.Background(), page,
			[]string{"go jobs"}, Options{MaxPages: 1, MaxJobs: 5})
		require.NoError(t, err)
		// DuckDuckGo stayed walled, Bing still ran.
		assert.Equal(t, []string{"https://jobs.example.com/2"}, urls)
	})

	t.Run("dismissed captcha ends the engine", func(t *testing.T) {
		page := &fakePage{
			bodies: map[string]string{"duckduckgo.com": "captcha", "bing.com": "captcha"},
		}
		backend, err := New(BackendWebSearch, dismissingBroker(), nil)
		require.NoError(t, err)

		urls, err := backend.Collect(context.Background(), page,
			[]string{"go jobs", "backend jobs"}, Options{MaxPages: 3, MaxJobs: 5})
		require.NoError(t, err)
		assert.Empty(t, urls)
		// One navigation per engine before each gave up.
		assert.Len(t, page.navs, 2)
	})
}
