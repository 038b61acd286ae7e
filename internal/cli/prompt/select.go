// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/logging"
)

// Sentinel errors for app selection.
var (
	ErrNoApps             = errors.New("no apps to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// App is one selectable entry.
type App struct {
	ID   int64
	Name string
}

func (a App) label() string {
	if a.Name == "" {
		return strconv.FormatInt(a.ID, 10)
	}
	return fmt.Sprintf("%d  %s", a.ID, a.Name)
}

// Selector handles interactive selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
	find   func(header string, apps []App) ([]int, error)
}

// NewSelector creates a Selector using stdin and stdout. On a terminal
// apps are picked with a fuzzy finder.
func NewSelector() *Selector {
	s := NewSelectorWithIO(os.Stdin, os.Stdout)
	if logging.IsTTY(os.Stdin) && logging.IsTTY(os.Stdout) {
		s.find = fuzzyFind
	}
	return s
}

// NewSelectorWithIO creates a Selector with custom reader and writer for
// testing. It always uses the numbered prompt.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// SelectApps asks the user to choose one or more apps.
//
// Returns:
//   - ErrNoApps if the list is empty
//   - The selected apps, in list order
//   - ErrInvalidSelection if a number is out of range or not a number
//   - ErrSelectionCancelled on EOF, an empty answer or an aborted finder
func (s *Selector) SelectApps(header string, apps []App) ([]App, error) {
	if len(apps) == 0 {
		return nil, ErrNoApps
	}

	var idx []int
	var err error
	if s.find != nil {
		idx, err = s.find(header, apps)
	} else {
		idx, err = s.numbered(header, apps)
	}
	if err != nil {
		return nil, err
	}

	slices.Sort(idx)
	out := make([]App, 0, len(idx))
	for _, i := range slices.Compact(idx) {
		out = append(out, apps[i])
	}
	return out, nil
}

func (s *Selector) numbered(header string, apps []App) ([]int, error) {
	fmt.Fprintf(s.writer, "%s:\n", header)
	for i, a := range apps {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, a.label())
	}
	fmt.Fprintf(s.writer, "Select (e.g. 1,3): ")

	input, err := s.readLine()
	if err != nil {
		return nil, err
	}
	if input == "" {
		return nil, ErrSelectionCancelled
	}

	var idx []int
	for _, field := range strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", field)
		}
		if n < 1 || n > len(apps) {
			return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", n, len(apps))
		}
		idx = append(idx, n-1)
	}
	return idx, nil
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (s *Selector) Confirm(question string) (bool, error) {
	fmt.Fprintf(s.writer, "%s [y/N]: ", question)
	input, err := s.readLine()
	if err != nil {
		if errors.Is(err, ErrSelectionCancelled) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(input) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (s *Selector) readLine() (string, error) {
	input, err := bufio.NewReader(s.reader).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(input) == "" {
			return "", ErrSelectionCancelled
		}
		if !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "reading selection")
		}
	}
	return strings.TrimSpace(input), nil
}

func fuzzyFind(header string, apps []App) ([]int, error) {
	idx, err := fuzzyfinder.FindMulti(
		apps,
		func(i int) string {
			return apps[i].label()
		},
		fuzzyfinder.WithHeader(header+" (tab to mark, enter to confirm)"),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}
	return idx, nil
}
