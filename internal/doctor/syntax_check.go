package doctor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// decoders maps a file extension to a parser whose error, if any, is
// reported as the syntax problem. Unknown extensions are parsed as YAML,
// the format of both slsah's and SLSsteam's config.
var decoders = map[string]func([]byte) error{
	".json": decodeJSON,
	".yaml": decodeYAML,
	".yml":  decodeYAML,
	".toml": decodeTOML,
	".ini":  decodeINI,
}

// fileSyntax is one entry of Details["files"].
type fileSyntax struct {
	Path    string   `json:"path"`
	Status  Severity `json:"status"`
	Message string   `json:"message,omitempty"`
}

// ConfigSyntaxCheck verifies that slsah's own files parse: the config (YAML
// or TOML, whatever --config points at), the app info cache (JSON) and any
// Goldberg achiev.ini handed to it.
type ConfigSyntaxCheck struct {
	files []string
}

var _ Check = (*ConfigSyntaxCheck)(nil)

func NewConfigSyntaxCheck(files ...string) *ConfigSyntaxCheck {
	return &ConfigSyntaxCheck{files: files}
}

func (c *ConfigSyntaxCheck) Name() string     { return "config-syntax" }
func (c *ConfigSyntaxCheck) Category() string { return "config" }

func (c *ConfigSyntaxCheck) Run() *CheckResult {
	var files []fileSyntax
	var passed, failed, missing int
	for _, p := range c.files {
		if p == "" {
			continue
		}
		fs := checkSyntax(p)
		files = append(files, fs)
		switch fs.Status {
		case SeverityPass:
			passed++
		case SeverityError:
			failed++
		default:
			missing++
		}
	}

	res := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details: map[string]any{
			"files":   files,
			"checked": len(files),
			"passed":  passed,
			"errors":  failed,
			"missing": missing,
		},
	}
	switch {
	case failed > 0:
		res.Status = SeverityError
		res.Message = fmt.Sprintf("%d file(s) have syntax errors", failed)
		res.FixHint = "fix the syntax, or delete the app info cache to rebuild it"
	case passed > 0:
		res.Status = SeverityPass
		res.Message = fmt.Sprintf("%d file(s) validated successfully", passed)
	default:
		res.Status = SeverityInfo
		res.Message = "no files found to validate"
	}
	return res
}

func checkSyntax(path string) fileSyntax {
	fs := fileSyntax{Path: path, Status: SeverityPass}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fs.Status, fs.Message = SeverityInfo, "file does not exist (not configured)"
		return fs
	case err != nil:
		fs.Status, fs.Message = SeverityError, err.Error()
		return fs
	}
	if len(bytes.TrimSpace(data)) == 0 {
		fs.Message = "empty file"
		return fs
	}

	decode, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		decode = decodeYAML
	}
	if err := decode(data); err != nil {
		fs.Status, fs.Message = SeverityError, describeSyntaxError(err, data)
	}
	return fs
}

func decodeJSON(data []byte) error {
	var v any
	return json.Unmarshal(data, &v)
}

func decodeYAML(data []byte) error {
	var v any
	return yaml.Unmarshal(data, &v)
}

func decodeTOML(data []byte) error {
	var v map[string]any
	return toml.Unmarshal(data, &v)
}

func decodeINI(data []byte) error {
	_, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, data)
	return err
}

// describeSyntaxError adds a line and column where the parser reports only
// an offset or a position object.
func describeSyntaxError(err error, data []byte) string {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		tomlErr   *toml.DecodeError
	)
	switch {
	case errors.As(err, &syntaxErr):
		line, col := offsetToLineCol(data, int(syntaxErr.Offset))
		return fmt.Sprintf("JSON syntax error at line %d, column %d: %v", line, col, err)
	case errors.As(err, &typeErr):
		line, col := offsetToLineCol(data, int(typeErr.Offset))
		return fmt.Sprintf("JSON type error at line %d, column %d: %v", line, col, err)
	case errors.As(err, &tomlErr):
		line, col := tomlErr.Position()
		return fmt.Sprintf("TOML error at line %d, column %d: %v", line, col, err)
	default:
		// yaml.v3 and ini errors already name the line.
		return err.Error()
	}
}

// offsetToLineCol converts a byte offset into 1-based line and column.
func offsetToLineCol(data []byte, offset int) (line, col int) {
	offset = min(max(offset, 0), len(data))
	before := data[:offset]
	line = bytes.Count(before, []byte{'\n'}) + 1
	col = offset - (bytes.LastIndexByte(before, '\n') + 1) + 1
	return line, col
}
