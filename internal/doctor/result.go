// Package doctor provides diagnostic checks for an slsah setup.
package doctor

import "github.com/cockroachdb/errors"

// Severity ranks a check result. Higher is worse.
type Severity int

const (
	SeverityPass Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

var severityNames = [...]string{"pass", "info", "warning", "error"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// MarshalText renders the severity by name, so JSON reports read
// "status": "warning".
func (s Severity) MarshalText() ([]byte, error) {
	if s.String() == "unknown" {
		return nil, errors.Newf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText parses a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	for i, name := range severityNames {
		if string(b) == name {
			*s = Severity(i)
			return nil
		}
	}
	return errors.Newf("unknown severity %q", b)
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Status   Severity `json:"status"`
	Message  string   `json:"message"`

	// Details depend on the check, e.g. the path of a config file or the
	// AppIDs a manifest lists.
	Details map[string]any `json:"details,omitempty"`

	// FixHint is a command or action that resolves the problem.
	FixHint string `json:"fix_hint,omitempty"`
}

// Summary counts results by severity.
type Summary struct {
	Passed   int `json:"passed"`
	Info     int `json:"info"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}
