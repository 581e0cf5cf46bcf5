// Package forms drives a live application form to submission: it scans the
// visible fields step by step, resolves an answer for each, applies one fill
// strategy per field kind, and advances through submit/review/next controls
// under a hard step bound.
package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/auto-applier/internal/browser"
)

// DefaultContainerSelector is the in-page modal the multi-step fill loop
// watches; once it disappears the form has advanced past the modal boundary.
const DefaultContainerSelector = ".jobs-easy-apply-modal"

// Result is the terminal state of one fill run.
type Result int

const (
	// ResultSubmitted means the form was submitted.
	ResultSubmitted Result = iota
	// ResultNoFields means no fillable fields or controls were found.
	ResultNoFields
	// ResultIncomplete means required fields were still empty at submit
	// time, so submission was withheld.
	ResultIncomplete
	// ResultUnanswered means the human declined a personal question and the
	// application was aborted.
	ResultUnanswered
	// ResultNoSubmit means the fields were filled but no submit action
	// could be found or triggered.
	ResultNoSubmit
	// ResultStepLimit means the step bound was reached before submission.
	ResultStepLimit
	// ResultStopped means a cooperative stop request ended the run before
	// the form reached a submit control.
	ResultStopped
)

func (r Result) String() string {
	switch r {
	case ResultSubmitted:
		return "submitted"
	case ResultNoFields:
		return "no fields"
	case ResultIncomplete:
		return "required fields missing"
	case ResultUnanswered:
		return "personal answer not provided"
	case ResultNoSubmit:
		return "no submit action"
	case ResultStepLimit:
		return "step limit reached"
	case ResultStopped:
		return "stop requested"
	}
	return "unknown"
}

// AnswerResolver produces the answer for one form question. ok=false with a
// nil error means the human declined and the application must abort.
type AnswerResolver interface {
	Resolve(ctx context.Context, question, jobText string) (answer string, ok bool, err error)
}

// Machine is the bounded fill loop over one live form.
type Machine struct {
	page     browser.Page
	resolver AnswerResolver
	log      func(string)

	maxSteps  int
	container string
	stop      func() bool
}

// NewMachine builds a fill machine over page. container may be empty for
// plain single-page forms; maxSteps must be at least 1.
func NewMachine(page browser.Page, resolver AnswerResolver, maxSteps int, container string, log func(string)) *Machine {
	if maxSteps < 1 {
		maxSteps = 1
	}
	if log == nil {
		log = func(string) {}
	}
	return &Machine{
		page:      page,
		resolver:  resolver,
		log:       log,
		maxSteps:  maxSteps,
		container: container,
	}
}

// StopOn installs a cooperative stop check consulted before every step. When
// it reports true the run ends with ResultStopped instead of filling on.
func (m *Machine) StopOn(stop func() bool) {
	m.stop = stop
}

// Run fills the current form to a terminal state. jobText contextualizes
// generated answers; docs supplies the upload candidates.
func (m *Machine) Run(ctx context.Context, jobText string, docs Documents) (Result, error) {
	for step := 0; step < m.maxSteps; step++ {
		if m.stop != nil && m.stop() {
			m.log("Stop requested; abandoning the form.")
			return ResultStopped, nil
		}
		if m.container != "" {
			present, err := m.page.Exists(ctx, m.container)
			if err == nil && !present {
				if step == 0 {
					m.log("No form container found.")
					return ResultNoFields, nil
				}
				// The modal closed on its own after the last advance.
				return ResultSubmitted, nil
			}
		}

		fields, err := m.page.ScanFields(ctx)
		if err != nil {
			return ResultNoFields, fmt.Errorf("failed to scan form fields: %w", err)
		}

		result, aborted, err := m.fillStep(ctx, fields, jobText, docs)
		if aborted || err != nil {
			return result, err
		}

		done, result, err := m.advance(ctx, step, len(fields))
		if done || err != nil {
			return result, err
		}
	}
	m.log("Form step limit reached.")
	return ResultStepLimit, nil
}

// fillStep resolves and fills every field on the current step. Individual
// fill failures are logged and skipped; a declined personal answer aborts.
func (m *Machine) fillStep(ctx context.Context, fields []browser.FormField, jobText string, docs Documents) (Result, bool, error) {
	for _, field := range fields {
		var answer string
		if KindOf(field) != KindFile {
			question := field.Question()
			resolved, ok, err := m.resolver.Resolve(ctx, question, jobText)
			if err != nil {
				return ResultUnanswered, true, fmt.Errorf("failed to resolve %q: %w", question, err)
			}
			if !ok {
				return ResultUnanswered, true, nil
			}
			answer = resolved
		}
		if err := fillField(ctx, m.page, field, answer, docs); err != nil {
			m.log(fmt.Sprintf("Could not fill field %q: %v", field.Question(), err))
		}
	}
	return 0, false, nil
}

// advance clicks the highest-priority control. Submission is gated on the
// required-field scan; review/next keep the loop going.
func (m *Machine) advance(ctx context.Context, step, fieldCount int) (bool, Result, error) {
	buttons, err := m.page.Buttons(ctx)
	if err != nil {
		return true, ResultNoSubmit, fmt.Errorf("failed to scan buttons: %w", err)
	}
	if step == 0 && fieldCount == 0 && len(buttons) == 0 {
		m.log("No form fields found.")
		return true, ResultNoFields, nil
	}

	control, kind := pickControl(buttons)
	switch kind {
	case buttonSubmit:
		if ok, result := m.requiredGate(ctx); !ok {
			return true, result, nil
		}
		if err := m.page.Click(ctx, control.Ref); err != nil {
			return true, ResultNoSubmit, fmt.Errorf("failed to click submit: %w", err)
		}
		m.log("Submit button clicked.")
		return true, ResultSubmitted, nil

	case buttonReview, buttonNext:
		if err := m.page.Click(ctx, control.Ref); err != nil {
			return true, ResultNoSubmit, fmt.Errorf("failed to advance form: %w", err)
		}
		return false, 0, nil

	default:
		if ok, result := m.requiredGate(ctx); !ok {
			return true, result, nil
		}
		if err := m.page.SubmitForm(ctx); err != nil {
			m.log("No submit action found.")
			return true, ResultNoSubmit, nil
		}
		m.log("Form submitted via JS.")
		return true, ResultSubmitted, nil
	}
}

// requiredGate withholds submission while any required field is still empty.
func (m *Machine) requiredGate(ctx context.Context) (bool, Result) {
	missing, err := m.page.RequiredUnfilled(ctx)
	if err != nil || len(missing) == 0 {
		return true, 0
	}
	shown := missing
	if len(shown) > 6 {
		shown = shown[:6]
	}
	m.log("Required fields missing: " + strings.Join(shown, ", "))
	return false, ResultIncomplete
}
