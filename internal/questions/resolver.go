package questions

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/auto-applier/internal/handoff"
	"github.com/jonathan/auto-applier/internal/llm"
	"github.com/jonathan/auto-applier/internal/prompts"
)

// Sentinel is the literal the auto-answer prompt must return instead of
// fabricating personal data. Seeing it re-classifies the question PERSONAL.
const Sentinel = "<<NEEDS_PERSONAL>>"

// maxJobTextInPrompt bounds the job description passed to the answer prompt.
const maxJobTextInPrompt = 6000

// SaveFunc persists the personal-answer cache after a remembered answer is
// added.
type SaveFunc func(map[string]string) error

// Resolver turns a classified question into a concrete answer, blocking on
// the human hand-off broker when a PERSONAL question has no cached answer.
type Resolver struct {
	classifier *Classifier
	client     llm.Client
	broker     *handoff.Broker
	answers    map[string]string
	save       SaveFunc
	log        func(string)
}

// NewResolver wires a resolver. answers is shared with the classifier so a
// remembered answer is visible to later classifications in the same run.
func NewResolver(classifier *Classifier, client llm.Client, broker *handoff.Broker, answers map[string]string, save SaveFunc, log func(string)) *Resolver {
	if answers == nil {
		answers = make(map[string]string)
	}
	if save == nil {
		save = func(map[string]string) error { return nil }
	}
	if log == nil {
		log = func(string) {}
	}
	return &Resolver{
		classifier: classifier,
		client:     client,
		broker:     broker,
		answers:    answers,
		save:       save,
		log:        log,
	}
}

// Resolve produces the answer for one form question. ok=false with nil error
// means the human declined to answer; the caller aborts the current
// application. jobText gives the generation fallback its context.
func (r *Resolver) Resolve(ctx context.Context, question, jobText string) (answer string, ok bool, err error) {
	category := r.classifier.Classify(ctx, question)

	if category == CategoryProfile {
		if value, found := r.classifier.ProfileAnswer(question); found {
			return value, true, nil
		}
		// Nothing in the profile answers it after all.
		category = CategoryPersonal
	}

	if category == CategoryPersonal {
		return r.personalAnswer(ctx, question)
	}

	generated, err := r.autoAnswer(ctx, question, jobText)
	if err != nil {
		return "", false, err
	}
	if strings.TrimSpace(generated) == Sentinel {
		return r.personalAnswer(ctx, question)
	}
	return generated, true, nil
}

// personalAnswer serves a PERSONAL question from the cache, or blocks on a
// popup request until the human answers or dismisses it.
func (r *Resolver) personalAnswer(ctx context.Context, question string) (string, bool, error) {
	key := Normalize(question)
	if cached, found := r.answers[key]; found {
		return cached, true, nil
	}

	resp, err := r.broker.Ask(ctx, question, handoff.KindPersonal)
	if err != nil {
		return "", false, fmt.Errorf("personal answer request failed: %w", err)
	}
	if resp == nil {
		r.log("Personal answer not provided.")
		return "", false, nil
	}
	if resp.Remember {
		r.answers[key] = resp.Text
		if err := r.save(r.answers); err != nil {
			r.log(fmt.Sprintf("Could not save personal answers: %v", err))
		}
	}
	return resp.Text, true, nil
}

func (r *Resolver) autoAnswer(ctx context.Context, question, jobText string) (string, error) {
	if r.client == nil {
		return "", fmt.Errorf("no generation client configured")
	}
	if len(jobText) > maxJobTextInPrompt {
		jobText = jobText[:maxJobTextInPrompt]
	}

	prompt := prompts.Format(prompts.MustGet("forms.json", "auto-answer"), map[string]string{
		"Question":       question,
		"ProfileSummary": r.classifier.profile.Summary,
		"JobText":        jobText,
		"Sentinel":       Sentinel,
	})

	answer, err := r.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
