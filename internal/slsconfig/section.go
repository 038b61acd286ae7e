package slsconfig

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Section keys SLSsteam understands.
const (
	KeyAdditionalApps = "AdditionalApps"
	KeyFakeAppIDs     = "FakeAppIds"
)

var (
	// ErrConfigParse indicates the config file is not valid YAML or a
	// section has an unexpected shape.
	ErrConfigParse = errors.New("config parse error")

	// ErrWrite indicates the config file could not be written.
	ErrWrite = errors.New("config write error")
)

// ReadSection decodes the top-level value at key into out. It reports
// whether the key was present with a non-null value. Invalid YAML is
// reported as ErrConfigParse so callers can abort before editing.
func ReadSection(text, key string, out any) (bool, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return false, errors.Wrapf(ErrConfigParse, "%v", err)
	}
	node, ok := doc[key]
	if !ok || node.Tag == "!!null" {
		return false, nil
	}
	if err := node.Decode(out); err != nil {
		return false, errors.Wrapf(ErrConfigParse, "section %s: %v", key, err)
	}
	return true, nil
}

// ReadAppIDs returns the list stored at key, or nil if it is absent.
func ReadAppIDs(text, key string) ([]int64, error) {
	var ids []int64
	if _, err := ReadSection(text, key, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ReadAppIDMap returns the mapping stored at key, or an empty map if it is
// absent.
func ReadAppIDMap(text, key string) (map[int64]int64, error) {
	m := make(map[int64]int64)
	if _, err := ReadSection(text, key, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// WriteSection returns text with the section at key replaced by value.
// value must be a []int64 (rendered as a sorted, de-duplicated list) or a
// map[int64]int64 (rendered sorted by key). Only the heading's own lines
// change: comments, blank lines and other sections are kept byte for byte.
//
// The heading is the first line whose trimmed content starts with "key:".
// Its body is the run of following lines with more leading whitespace than
// the heading, plus sequence items written flush with the heading. A missing
// heading is appended at the end of the file.
func WriteSection(text, key string, value any) (string, error) {
	lines := splitLines(text)

	start, indent := findHeading(lines, key)
	if start < 0 {
		lines, start = appendHeading(lines, key)
		indent = 0
	} else {
		lines[start] = normalizeHeading(lines[start], key, indent)
	}

	rendered, err := render(value, indent)
	if err != nil {
		return "", err
	}

	end := start + 1
	for end < len(lines) && inSection(lines[end], indent) {
		end++
	}

	out := make([]string, 0, len(lines)-(end-start-1)+len(rendered))
	out = append(out, lines[:start+1]...)
	out = append(out, rendered...)
	out = append(out, lines[end:]...)
	return strings.Join(out, ""), nil
}

// splitLines splits text into lines that keep their terminators, so joining
// them restores the input exactly.
func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func findHeading(lines []string, key string) (int, int) {
	prefix := key + ":"
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, prefix) {
			return i, leadingWhitespace(line)
		}
	}
	return -1, 0
}

// normalizeHeading terminates the heading line and drops an inline value
// such as "[]" or "{}", which would otherwise clash with the block body
// written below it. A trailing comment is kept.
func normalizeHeading(line, key string, indent int) string {
	rest := strings.TrimSpace(strings.TrimSpace(line)[len(key)+1:])
	if rest != "" && !strings.HasPrefix(rest, "#") {
		return line[:indent] + key + ":\n"
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	return line
}

// appendHeading adds "key:" at the end of the file, separated from existing
// content by a blank line.
func appendHeading(lines []string, key string) ([]string, int) {
	if n := len(lines); n > 0 {
		if !strings.HasSuffix(lines[n-1], "\n") {
			lines[n-1] += "\n"
		}
		if strings.TrimSpace(lines[n-1]) != "" {
			lines = append(lines, "\n")
		}
	}
	lines = append(lines, key+":\n")
	return lines, len(lines) - 1
}

func inSection(line string, indent int) bool {
	n := leadingWhitespace(line)
	if n > indent {
		return true
	}
	// YAML allows "key:\n- 1" with the items at the key's column.
	item := strings.TrimRight(line[n:], "\r\n")
	return n == indent && (item == "-" || strings.HasPrefix(item, "- "))
}

// checkSection reports ErrConfigParse unless text parses and holds value at
// key, so a splice that produced a document the editor cannot read back is
// never saved.
func checkSection(text, key string, value any) error {
	switch v := value.(type) {
	case []int64:
		got, err := ReadAppIDs(text, key)
		if err != nil {
			return err
		}
		want := slices.Clone(v)
		slices.Sort(want)
		if !slices.Equal(got, slices.Compact(want)) {
			return errors.Wrapf(ErrConfigParse, "section %s reads back as %v", key, got)
		}
	case map[int64]int64:
		got, err := ReadAppIDMap(text, key)
		if err != nil {
			return err
		}
		if !maps.Equal(got, v) {
			return errors.Wrapf(ErrConfigParse, "section %s reads back as %v", key, got)
		}
	}
	return nil
}

func leadingWhitespace(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func render(value any, indent int) ([]string, error) {
	pad := strings.Repeat("  ", indent+1)

	switch v := value.(type) {
	case []int64:
		ids := slices.Clone(v)
		slices.Sort(ids)
		ids = slices.Compact(ids)
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			out = append(out, pad+"- "+strconv.FormatInt(id, 10)+"\n")
		}
		return out, nil
	case map[int64]int64:
		keys := slices.SortedFunc(maps.Keys(v), cmp.Compare[int64])
		out := make([]string, 0, len(keys))
		for _, k := range keys {
			out = append(out, fmt.Sprintf("%s%d: %d\n", pad, k, v[k]))
		}
		return out, nil
	default:
		return nil, errors.Newf("unsupported section value %T", value)
	}
}
