package doctor

import (
	"errors"
	"fmt"
	"os"

	"github.com/thoreinstein/slsah/internal/manifest"
	"github.com/thoreinstein/slsah/internal/slsconfig"
	"github.com/thoreinstein/slsah/internal/vdf"
	"github.com/thoreinstein/slsah/pkg/fileutil"
)

// SLSsteamConfigCheck verifies the SLSsteam config parses and reports the
// size of the sections slsah manages.
type SLSsteamConfigCheck struct {
	path string
}

var _ Check = (*SLSsteamConfigCheck)(nil)

// NewSLSsteamConfigCheck checks the config at path.
func NewSLSsteamConfigCheck(path string) *SLSsteamConfigCheck {
	return &SLSsteamConfigCheck{path: path}
}

func (c *SLSsteamConfigCheck) Name() string     { return "slssteam-config" }
func (c *SLSsteamConfigCheck) Category() string { return "config" }

func (c *SLSsteamConfigCheck) Run() *CheckResult {
	r := &CheckResult{Name: c.Name(), Category: c.Category(), Details: map[string]any{"path": c.path}}

	if _, err := os.Stat(c.path); errors.Is(err, os.ErrNotExist) {
		r.Status = SeverityWarning
		r.Message = "SLSsteam config not found"
		r.FixHint = "start Steam with SLSsteam once so it writes its config"
		return r
	}

	cfg, err := slsconfig.NewStore(c.path).Load()
	if err != nil {
		r.Status = SeverityError
		r.Message = err.Error()
		r.FixHint = "fix the YAML, or restore a backup with 'slsah backup restore'"
		return r
	}

	r.Status = SeverityPass
	r.Message = fmt.Sprintf("%d additional app(s), %d fake AppID mapping(s)", len(cfg.AdditionalApps), len(cfg.FakeAppIDs))
	r.Details["additional_apps"] = len(cfg.AdditionalApps)
	r.Details["fake_app_ids"] = len(cfg.FakeAppIDs)
	return r
}

// LibraryManifestCheck verifies libraryfolders.vdf exists and parses.
type LibraryManifestCheck struct {
	path string
}

var _ Check = (*LibraryManifestCheck)(nil)

// NewLibraryManifestCheck checks the manifest at path.
func NewLibraryManifestCheck(path string) *LibraryManifestCheck {
	return &LibraryManifestCheck{path: path}
}

func (c *LibraryManifestCheck) Name() string     { return "library-manifest" }
func (c *LibraryManifestCheck) Category() string { return "steam" }

func (c *LibraryManifestCheck) Run() *CheckResult {
	r := &CheckResult{Name: c.Name(), Category: c.Category(), Details: map[string]any{"path": c.path}}

	libs, err := manifest.ReadLibraryFile(c.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		r.Status = SeverityWarning
		r.Message = "Steam library manifest not found"
		r.FixHint = "set steam_dir with 'slsah config set steam_dir <path>'"
		return r
	case err != nil:
		// The best-effort scan still works on damaged files.
		r.Status = SeverityWarning
		r.Message = err.Error()
		if ids, rerr := manifest.ReadAppIDsFile(c.path); rerr == nil {
			r.Details["apps"] = len(ids)
		}
		return r
	}

	apps := 0
	for _, l := range libs {
		apps += len(l.Apps)
	}
	r.Status = SeverityPass
	r.Message = fmt.Sprintf("%d library folder(s), %d installed app(s)", len(libs), apps)
	r.Details["libraries"] = len(libs)
	r.Details["apps"] = apps
	return r
}

// CredentialsCheck verifies the Web API key and Steam ID are configured.
// The key is only ever reported masked.
type CredentialsCheck struct {
	apiKey  string
	steamID string
}

var _ Check = (*CredentialsCheck)(nil)

// NewCredentialsCheck checks the given credentials.
func NewCredentialsCheck(apiKey, steamID string) *CredentialsCheck {
	return &CredentialsCheck{apiKey: apiKey, steamID: steamID}
}

func (c *CredentialsCheck) Name() string     { return "credentials" }
func (c *CredentialsCheck) Category() string { return "config" }

func (c *CredentialsCheck) Run() *CheckResult {
	r := &CheckResult{Name: c.Name(), Category: c.Category(), Details: map[string]any{}}

	var missing []string
	if c.apiKey == "" {
		missing = append(missing, "api_key")
	} else {
		r.Details["api_key"] = MaskValue(c.apiKey)
	}
	if c.steamID == "" {
		missing = append(missing, "steam_id")
	} else {
		r.Details["steam_id"] = c.steamID
	}

	switch {
	case len(missing) > 0:
		r.Status = SeverityWarning
		r.Message = fmt.Sprintf("not configured: %v", missing)
		r.FixHint = "slsah config set api_key <key> (https://steamcommunity.com/dev/apikey); slsah config set steam_id <id>"
	case !LooksLikeSecret(c.apiKey):
		r.Status = SeverityWarning
		r.Message = "api_key does not look like a Steam Web API key (32 hex digits)"
	default:
		r.Status = SeverityPass
		r.Message = "API key and Steam ID configured"
	}
	return r
}

// StatsTemplateCheck verifies the user stats template decodes. Generation
// works without one but cannot seed stats files.
type StatsTemplateCheck struct {
	path string
}

var _ Check = (*StatsTemplateCheck)(nil)

// NewStatsTemplateCheck checks the template at path.
func NewStatsTemplateCheck(path string) *StatsTemplateCheck {
	return &StatsTemplateCheck{path: path}
}

func (c *StatsTemplateCheck) Name() string     { return "stats-template" }
func (c *StatsTemplateCheck) Category() string { return "steam" }

func (c *StatsTemplateCheck) Run() *CheckResult {
	r := &CheckResult{Name: c.Name(), Category: c.Category(), Details: map[string]any{"path": c.path}}

	data, ok, err := fileutil.ReadOptional(c.path)
	switch {
	case err != nil:
		r.Status = SeverityError
		r.Message = err.Error()
		return r
	case !ok:
		r.Status = SeverityInfo
		r.Message = "no stats template; user stats files will not be created"
		r.FixHint = "set stats_template to a UserGameStats_<steamid>_<appid>.bin to copy"
		return r
	}

	if _, err := vdf.Decode(data); err != nil {
		r.Status = SeverityError
		r.Message = err.Error()
		return r
	}
	r.Status = SeverityPass
	r.Message = fmt.Sprintf("template decodes (%d bytes)", len(data))
	return r
}
