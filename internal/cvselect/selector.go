// Package cvselect picks the best candidate document for a job description
// by lexical token overlap against an indexed document set.
package cvselect

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/auto-applier/internal/ingestion"
)

// indexWorkers bounds concurrent text extraction while indexing.
const indexWorkers = 4

var tokenRE = regexp.MustCompile(`[a-zA-Z0-9]+`)

// Tokenize returns the set of lower-cased alphanumeric runs in text.
func Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, token := range tokenRE.FindAllString(strings.ToLower(text), -1) {
		tokens[token] = struct{}{}
	}
	return tokens
}

// Score is |tokens(job) ∩ tokens(doc)| / |tokens(job)|. It is asymmetric on
// purpose: a short focused CV is not penalized for a long job description.
func Score(jobTokens, docTokens map[string]struct{}) float64 {
	if len(jobTokens) == 0 || len(docTokens) == 0 {
		return 0
	}
	overlap := 0
	for token := range jobTokens {
		if _, ok := docTokens[token]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(jobTokens))
}

// document is one indexed CV.
type document struct {
	path   string
	tokens map[string]struct{}
}

// Selector holds the indexed document set. Selection over a fixed index is
// deterministic: ties keep the first-indexed document.
type Selector struct {
	docs []document
}

// Index extracts and tokenizes every candidate document under root in
// parallel, preserving walk order in the resulting index. Documents that
// fail extraction, are empty, or read like cover letters are skipped.
func Index(ctx context.Context, root string, extractor ingestion.Extractor) (*Selector, error) {
	paths, err := ingestion.CollectDocuments(root)
	if err != nil {
		return nil, err
	}

	slots := make([]*document, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(indexWorkers)
	for i, path := range paths {
		g.Go(func() error {
			text, err := extractor.Extract(gctx, path)
			if err != nil || text == "" {
				return nil
			}
			if ingestion.IsCoverLetterText(text) {
				return nil
			}
			doc := &document{path: path, tokens: Tokenize(text)}
			mu.Lock()
			slots[i] = doc
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Selector{}
	for _, doc := range slots {
		if doc != nil {
			s.docs = append(s.docs, *doc)
		}
	}
	return s, nil
}

// Len returns the number of indexed documents.
func (s *Selector) Len() int {
	return len(s.docs)
}

// SelectBest returns the path of the highest-overlap document for jobText,
// its score, and whether the index held anything at all.
func (s *Selector) SelectBest(jobText string) (string, float64, bool) {
	if len(s.docs) == 0 {
		return "", 0, false
	}

	jobTokens := Tokenize(jobText)
	bestPath := ""
	bestScore := -1.0
	for _, doc := range s.docs {
		if score := Score(jobTokens, doc.tokens); score > bestScore {
			bestScore = score
			bestPath = doc.path
		}
	}
	return bestPath, bestScore, true
}
