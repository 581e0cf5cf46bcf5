// Package runner owns the single automation worker: it prepares the profile
// and queries, discovers jobs, and drives each one through match, form fill,
// and tracking. One browser session lives for the whole run and is always
// closed on the way out.
package runner

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/auto-applier/internal/browser"
	"github.com/jonathan/auto-applier/internal/config"
	"github.com/jonathan/auto-applier/internal/cvselect"
	"github.com/jonathan/auto-applier/internal/discovery"
	"github.com/jonathan/auto-applier/internal/forms"
	"github.com/jonathan/auto-applier/internal/handoff"
	"github.com/jonathan/auto-applier/internal/ingestion"
	"github.com/jonathan/auto-applier/internal/llm"
	"github.com/jonathan/auto-applier/internal/match"
	"github.com/jonathan/auto-applier/internal/observability"
	"github.com/jonathan/auto-applier/internal/profile"
	"github.com/jonathan/auto-applier/internal/queries"
	"github.com/jonathan/auto-applier/internal/questions"
	"github.com/jonathan/auto-applier/internal/storage"
	"github.com/jonathan/auto-applier/internal/tracker"
	"github.com/jonathan/auto-applier/internal/types"
)

// pausePollInterval is how often the paused worker rechecks its flags.
const pausePollInterval = 500 * time.Millisecond

// Runner executes one automation run on the calling goroutine. Pause and
// stop are cooperative flags checked between jobs; they may be flipped from
// any goroutine.
type Runner struct {
	settings *config.Settings
	client   llm.Client
	logger   *observability.Logger
	broker   *handoff.Broker
	status   func(string)

	runID   string
	session *browser.Session

	paused  atomic.Bool
	stopped atomic.Bool
}

// pipeline bundles the per-run collaborators a single job needs.
type pipeline struct {
	page     browser.Page
	analyzer *match.Analyzer
	policy   match.Policy
	resolver forms.AnswerResolver
	selector *cvselect.Selector
	profile  *types.Profile
}

// New wires a runner. status receives coarse progress lines for a UI; it
// may be nil.
func New(settings *config.Settings, client llm.Client, logger *observability.Logger, broker *handoff.Broker, status func(string)) *Runner {
	if status == nil {
		status = func(string) {}
	}
	return &Runner{
		settings: settings,
		client:   client,
		logger:   logger,
		broker:   broker,
		status:   status,
		runID:    uuid.NewString(),
	}
}

// RunID identifies this run in logs and artifact names.
func (r *Runner) RunID() string { return r.runID }

// RequestStop asks the worker to exit at the next job or form-step boundary.
func (r *Runner) RequestStop() { r.stopped.Store(true) }

// SetPaused idles the worker between jobs without releasing the browser.
func (r *Runner) SetPaused(paused bool) { r.paused.Store(paused) }

// Run executes the full pipeline: profile, queries, discovery, then one
// application attempt per job until the list, the daily limit, or a stop
// request ends the loop.
func (r *Runner) Run(ctx context.Context) error {
	defer r.status("Idle")
	log := r.logger.Func()

	if err := r.logger.TeeToCSV(r.settings.RunLogPath()); err != nil {
		log(fmt.Sprintf("Run log unavailable: %v", err))
	}
	log("Run " + r.runID + " starting.")

	prof, answers, err := r.loadState()
	if err != nil {
		return err
	}

	extractor := ingestion.NewPDFToText()
	prof, err = r.ensureProfile(ctx, prof, extractor, false)
	if err != nil {
		return err
	}

	planner := queries.NewPlanner(r.client, log)
	queryList, updated := planner.Plan(ctx, prof, r.settings.SelectedRole, r.settings.PreferredLocation(), r.settings.PreferRemote)
	if updated {
		if err := storage.SaveProfile(r.settings.ProfilePath(), prof); err != nil {
			log(fmt.Sprintf("Could not save profile: %v", err))
		}
	}
	if len(queryList) == 0 {
		log("No search queries available.")
		return nil
	}

	selector, err := cvselect.Index(ctx, r.settings.CVRoot, extractor)
	if err != nil {
		return fmt.Errorf("failed to index CVs: %w", err)
	}
	if selector.Len() > 0 {
		log(fmt.Sprintf("Indexed %d CV PDFs.", selector.Len()))
	} else {
		log("No CV PDFs found in the selected folder.")
	}

	track, err := tracker.Open(ctx, r.settings.TrackerPath())
	if err != nil {
		return err
	}
	defer track.Close()

	session, err := browser.NewSession(ctx, browser.Options{
		Headless:    r.settings.Headless,
		ExecPath:    r.settings.BrowserExecPath,
		UserDataDir: r.settings.UserDataDir,
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer session.Close()
	r.session = session

	backend, err := discovery.New(r.settings.SearchBackend, r.broker, log)
	if err != nil {
		return err
	}
	r.status("Searching jobs")
	jobs, err := backend.Collect(ctx, session, queryList, discovery.Options{
		MaxPages:           r.settings.MaxSearchPages,
		MaxJobs:            r.settings.MaxJobs,
		SiteFilter:         r.settings.SiteFilter,
		LinkedInLocation:   r.settings.LinkedInLocation,
		LinkedInRemoteOnly: r.settings.LinkedInRemoteOnly,
	})
	if err != nil {
		return fmt.Errorf("job discovery failed: %w", err)
	}
	if len(jobs) == 0 {
		log("No job URLs provided or found.")
		return nil
	}

	classifier := questions.NewClassifier(prof, answers, r.settings.PersonalKeywords, r.client)
	resolver := questions.NewResolver(classifier, r.client, r.broker, answers, func(m map[string]string) error {
		return storage.SaveAnswers(r.settings.AnswersPath(), m)
	}, log)

	p := &pipeline{
		page:     session,
		analyzer: match.NewAnalyzer(r.client, log),
		policy: match.Policy{
			TargetRole:      r.settings.SelectedRole,
			Threshold:       r.settings.MinScoreThreshold,
			MismatchPenalty: r.settings.RoleMismatchPenalty,
			AllowRemote:     r.settings.AllowRemote,
			AllowHybrid:     r.settings.AllowHybrid,
			MaxDistanceKM:   r.settings.MaxDistanceKM,
		},
		resolver: resolver,
		selector: selector,
		profile:  prof,
	}

	applied := 0
	for _, jobURL := range jobs {
		if !r.waitWhilePaused(ctx) {
			break
		}
		if applied >= r.settings.DailyLimit {
			log("Daily limit reached.")
			break
		}
		rec := r.processJob(ctx, p, jobURL)
		if rec.Status == types.StatusApplied {
			applied++
		}
		if err := track.Append(ctx, rec); err != nil {
			log(fmt.Sprintf("Could not record outcome for %s: %v", jobURL, err))
		}
	}
	log(fmt.Sprintf("Run finished: %d applications submitted.", applied))
	return nil
}

// BuildProfile forces (or hash-gates) a profile rebuild without applying.
func (r *Runner) BuildProfile(ctx context.Context, force bool) (*types.Profile, error) {
	defer r.status("Idle")
	prof, _, err := r.loadState()
	if err != nil {
		return nil, err
	}
	return r.ensureProfile(ctx, prof, ingestion.NewPDFToText(), force)
}

// PlanQueries returns the planned search queries, persisting any refresh.
func (r *Runner) PlanQueries(ctx context.Context) ([]string, error) {
	prof, _, err := r.loadState()
	if err != nil {
		return nil, err
	}
	planner := queries.NewPlanner(r.client, r.logger.Func())
	queryList, updated := planner.Plan(ctx, prof, r.settings.SelectedRole, r.settings.PreferredLocation(), r.settings.PreferRemote)
	if updated {
		if err := storage.SaveProfile(r.settings.ProfilePath(), prof); err != nil {
			return nil, err
		}
	}
	return queryList, nil
}

func (r *Runner) loadState() (*types.Profile, map[string]string, error) {
	prof, err := storage.LoadProfile(r.settings.ProfilePath())
	if err != nil {
		return nil, nil, err
	}
	answers, err := storage.LoadAnswers(r.settings.AnswersPath())
	if err != nil {
		return nil, nil, err
	}
	return prof, answers, nil
}

func (r *Runner) ensureProfile(ctx context.Context, prof *types.Profile, extractor ingestion.Extractor, force bool) (*types.Profile, error) {
	log := r.logger.Func()
	builder := profile.NewBuilder(r.client, extractor, log)

	prof, rebuilt, err := builder.Ensure(ctx, r.settings.CVRoot, prof, force)
	if err != nil {
		return nil, err
	}
	if rebuilt {
		if err := storage.SaveProfile(r.settings.ProfilePath(), prof); err != nil {
			return nil, fmt.Errorf("failed to save profile: %w", err)
		}
	}
	if len(prof.Roles) > 0 {
		log("Inferred roles: " + strings.Join(prof.Roles, ", "))
	}
	return prof, nil
}

// waitWhilePaused idles while the pause flag is set. It returns false when
// the run should end instead of continuing to the next job.
func (r *Runner) waitWhilePaused(ctx context.Context) bool {
	for r.paused.Load() {
		if r.stopped.Load() || ctx.Err() != nil {
			return false
		}
		r.status("Paused")
		time.Sleep(pausePollInterval)
	}
	return !r.stopped.Load() && ctx.Err() == nil
}

// processJob runs one job to a terminal outcome. Exactly one record comes
// back on every path, including panics.
func (r *Runner) processJob(ctx context.Context, p *pipeline, jobURL string) (rec *types.ApplicationRecord) {
	log := r.logger.Func()
	defer func() {
		if v := recover(); v != nil {
			log(fmt.Sprintf("Error for %s: %v", jobURL, v))
			rec = errorRecord(jobURL, fmt.Sprint(v))
		}
	}()

	r.status("Opening " + jobURL)
	if err := p.page.Navigate(ctx, jobURL); err != nil {
		log(fmt.Sprintf("Navigation failed: %v", err))
		if r.session != nil {
			if rerr := r.session.Restart(); rerr != nil {
				log(fmt.Sprintf("Browser restart failed: %v", rerr))
			}
		}
		return errorRecord(jobURL, err.Error())
	}

	if browser.IsLoginOrCaptcha(ctx, p.page) {
		log("Login/CAPTCHA detected. Waiting for manual interaction...")
		if !r.pauseForWall(ctx) {
			return wallRecord(jobURL, "Login/CAPTCHA required")
		}
		if browser.IsLoginOrCaptcha(ctx, p.page) {
			return wallRecord(jobURL, "Login/CAPTCHA still present")
		}
	}

	jobText := jobDescription(ctx, p.page)
	if jobText == "" {
		log("Could not read job description; skipping.")
		return errorRecord(jobURL, "Empty job description")
	}

	analysis := p.analyzer.Analyze(ctx, jobText, p.profile.Summary, p.policy.TargetRole)
	decision := p.policy.Decide(analysis)
	score := decision.AdjustedScore
	if !decision.Accept {
		log(fmt.Sprintf("Discarded %s (score %d)", jobURL, score))
		return jobRecord(jobURL, analysis, &score, "", types.StatusDiscarded, decision.Reason)
	}

	r.status("Applying " + jobURL)
	coverPath := r.generateCoverLetter(ctx, analysis, p.profile)
	var cvPath string
	if p.selector != nil {
		cvPath, _, _ = p.selector.SelectBest(jobText)
	}

	forms.ClickEasyApply(ctx, p.page, log)
	container := ""
	if found, err := p.page.Exists(ctx, forms.DefaultContainerSelector); err == nil && found {
		container = forms.DefaultContainerSelector
	}
	machine := forms.NewMachine(p.page, p.resolver, r.settings.MaxFormSteps, container, log)
	machine.StopOn(r.stopped.Load)
	result, err := machine.Run(ctx, jobText, forms.Documents{CVPath: cvPath, CoverLetterPath: coverPath})
	if err != nil {
		log(fmt.Sprintf("Error for %s: %v", jobURL, err))
		return jobRecord(jobURL, analysis, &score, cvPath, types.StatusError, err.Error())
	}

	status, notes := outcomeFor(result)
	return jobRecord(jobURL, analysis, &score, cvPath, status, notes)
}

// pauseForWall blocks on a human hand-off to clear a login/CAPTCHA wall.
func (r *Runner) pauseForWall(ctx context.Context) bool {
	if r.broker == nil {
		return false
	}
	answer, err := r.broker.Ask(ctx, "Complete the login/CAPTCHA in the browser, then continue.", handoff.KindCaptcha)
	return err == nil && answer != nil
}

// outcomeFor maps a fill result to the recorded terminal status.
func outcomeFor(result forms.Result) (types.ApplicationStatus, string) {
	switch result {
	case forms.ResultSubmitted:
		return types.StatusApplied, "Submitted"
	case forms.ResultUnanswered:
		return types.StatusPopupRequired, "Personal answer not provided"
	case forms.ResultNoFields:
		// No in-page form: the posting applies through an external site.
		return types.StatusExternal, "No in-page application form"
	case forms.ResultStopped:
		return types.StatusSkipped, "Stopped before completing the form"
	default:
		return types.StatusError, "Form submission failed: " + result.String()
	}
}

func errorRecord(jobURL, notes string) *types.ApplicationRecord {
	return &types.ApplicationRecord{JobURL: jobURL, Status: types.StatusError, Notes: notes}
}

func wallRecord(jobURL, notes string) *types.ApplicationRecord {
	return &types.ApplicationRecord{JobURL: jobURL, Status: types.StatusPopupRequired, Notes: notes}
}

func jobRecord(jobURL string, analysis *types.JobAnalysis, score *int, cvUsed string, status types.ApplicationStatus, notes string) *types.ApplicationRecord {
	return &types.ApplicationRecord{
		Role:     analysis.Role,
		Company:  analysis.CompanyName,
		JobTitle: analysis.JobTitle,
		JobURL:   jobURL,
		Location: analysis.Location,
		Remote:   string(analysis.WorkMode),
		CVUsed:   cvUsed,
		Score:    score,
		Status:   status,
		Notes:    notes,
	}
}
