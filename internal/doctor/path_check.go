package doctor

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
)

// maxSecretFilePerm is the loosest mode a file holding the Web API key may have.
const maxSecretFilePerm os.FileMode = 0o600

// PathTarget is one file or directory PathPermissionCheck inspects.
type PathTarget struct {
	Label string
	Path  string
	Dir   bool
	// Required targets are reported when missing; others are skipped.
	Required bool
	// Secret files must not be readable by group or others.
	Secret bool
}

func (t PathTarget) kind() string {
	if t.Dir {
		return "directory"
	}
	return "file"
}

// pathFinding is one problem with one target, as it appears under
// Details["issues"].
type pathFinding struct {
	Path        string   `json:"path"`
	Label       string   `json:"label,omitempty"`
	Type        string   `json:"type"`
	Problem     string   `json:"problem"`
	Severity    Severity `json:"severity"`
	Permissions string   `json:"permissions,omitempty"`
	FixHint     string   `json:"fix_hint,omitempty"`
}

func (t PathTarget) finding(sev Severity, problem, fix string, mode os.FileMode) pathFinding {
	f := pathFinding{Path: t.Path, Label: t.Label, Type: t.kind(), Problem: problem, Severity: sev, FixHint: fix}
	if mode != 0 {
		f.Permissions = fmt.Sprintf("%04o", mode.Perm())
	}
	return f
}

// PathPermissionCheck verifies the paths slsah reads and writes: the stats
// directory must be writable by the user running Steam, and files holding
// the API key must be private.
type PathPermissionCheck struct {
	targets []PathTarget
}

var _ Check = (*PathPermissionCheck)(nil)

func NewPathPermissionCheck(targets ...PathTarget) *PathPermissionCheck {
	return &PathPermissionCheck{targets: targets}
}

func (c *PathPermissionCheck) Name() string     { return "path-permissions" }
func (c *PathPermissionCheck) Category() string { return "filesystem" }

func (c *PathPermissionCheck) Run() *CheckResult {
	var findings []pathFinding
	checked := 0
	for _, t := range c.targets {
		if t.Path == "" {
			continue
		}
		checked++
		findings = append(findings, inspect(t)...)
	}

	res := &CheckResult{Name: c.Name(), Category: c.Category(), Status: SeverityPass}
	if len(findings) == 0 {
		res.Message = fmt.Sprintf("all %d paths have valid permissions", checked)
		return res
	}

	var hints []string
	for _, f := range findings {
		res.Status = max(res.Status, f.Severity)
		if f.FixHint != "" {
			hints = append(hints, f.FixHint)
		}
	}
	res.Message = fmt.Sprintf("found %d issue(s) across %d paths", len(findings), checked)
	res.FixHint = strings.Join(hints, "; ")
	res.Details = map[string]any{
		"checked_paths": checked,
		"issue_count":   len(findings),
		"issues":        findings,
	}
	return res
}

func inspect(t PathTarget) []pathFinding {
	info, err := os.Stat(t.Path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if !t.Required {
			return nil
		}
		fix := ""
		if t.Dir {
			fix = "mkdir -p " + t.Path
		}
		return []pathFinding{t.finding(SeverityWarning, "does not exist", fix, 0)}
	case err != nil:
		return []pathFinding{t.finding(SeverityError, fmt.Sprintf("cannot stat %s: %v", t.kind(), err), "", 0)}
	case info.IsDir() != t.Dir:
		return []pathFinding{t.finding(SeverityError, "expected "+t.kind(), "", 0)}
	}

	mode := info.Mode()
	var out []pathFinding
	if t.Dir {
		if !writable(t.Path) {
			out = append(out, t.finding(SeverityError, "directory is not writable", "chmod u+w "+t.Path, mode))
		}
	} else if f, err := os.Open(t.Path); err != nil {
		return []pathFinding{t.finding(SeverityError, "file is not readable", "chmod u+r "+t.Path, mode)}
	} else {
		f.Close()
	}

	// Unix permissions do not apply on Windows.
	if runtime.GOOS == "windows" {
		return out
	}
	perm := mode.Perm()
	if perm&0o002 != 0 {
		fix := "chmod 644 " + t.Path
		if t.Dir {
			fix = "chmod 755 " + t.Path
		}
		out = append(out, t.finding(SeverityWarning, t.kind()+" is world-writable", fix, mode))
	}
	if t.Secret && !t.Dir && perm&^maxSecretFilePerm != 0 {
		out = append(out, t.finding(SeverityWarning,
			fmt.Sprintf("holds credentials but has mode %04o (want %04o or less)", perm, maxSecretFilePerm),
			"chmod 600 "+t.Path, mode))
	}
	return out
}

// writable creates and removes a scratch file in dir; mode bits alone miss
// ACLs and read-only mounts.
func writable(dir string) bool {
	f, err := os.CreateTemp(dir, ".slsah-doctor-*")
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(f.Name())
	return true
}
