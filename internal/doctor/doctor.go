package doctor

import (
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
)

// Check is one diagnostic. Run must be safe to call concurrently with other
// checks; checks only read the filesystem and configuration.
type Check interface {
	Name() string
	// Category is "config", "steam" or "filesystem"; doctor --category
	// filters on it.
	Category() string
	Run() *CheckResult
}

// Runner runs registered checks in parallel and reports them in
// registration order.
type Runner struct {
	checks     []Check
	categories []string
	now        func() time.Time
}

func NewRunner(checks ...Check) *Runner {
	return &Runner{checks: checks, now: time.Now}
}

func (r *Runner) Register(checks ...Check) {
	r.checks = append(r.checks, checks...)
}

// Only restricts Run to checks in the given categories. No categories
// means every check runs.
func (r *Runner) Only(categories ...string) {
	r.categories = categories
}

func (r *Runner) selected() []Check {
	if len(r.categories) == 0 {
		return r.checks
	}
	var out []Check
	for _, c := range r.checks {
		if slices.Contains(r.categories, c.Category()) {
			out = append(out, c)
		}
	}
	return out
}

func (r *Runner) Run() *DoctorReport {
	checks := r.selected()
	report := &DoctorReport{
		Timestamp: r.now().UTC(),
		Results:   make([]*CheckResult, len(checks)),
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range checks {
		g.Go(func() error {
			report.Results[i] = c.Run()
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range report.Results {
		report.Summary.add(res.Status)
	}
	return report
}

func (s *Summary) add(sev Severity) {
	switch sev {
	case SeverityPass:
		s.Passed++
	case SeverityInfo:
		s.Info++
	case SeverityWarning:
		s.Warnings++
	case SeverityError:
		s.Errors++
	}
}

// DoctorReport is the outcome of one Runner.Run, serialized as-is by
// doctor --json.
type DoctorReport struct {
	Timestamp time.Time      `json:"timestamp"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

func (r *DoctorReport) HasErrors() bool   { return r.Summary.Errors > 0 }
func (r *DoctorReport) HasWarnings() bool { return r.Summary.Warnings > 0 }

// Problems returns the results at SeverityWarning or worse.
func (r *DoctorReport) Problems() []*CheckResult {
	var out []*CheckResult
	for _, res := range r.Results {
		if res.Status >= SeverityWarning {
			out = append(out, res)
		}
	}
	return out
}
