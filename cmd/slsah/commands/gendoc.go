package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/internal/errors"
)

var (
	genDocDir    string
	genDocFormat string
)

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate reference documentation for every command",
	Hidden: true,
	Args:   cobra.NoArgs,
	Annotations: map[string]string{
		flags.AnnotationConfigOptional: "true",
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runGenDocWithWriter(cmd.OutOrStdout(), cmd.Root(), genDocDir, genDocFormat)
	},
}

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "output directory (required)")
	genDocCmd.Flags().StringVar(&genDocFormat, "format", "markdown", "markdown or man")
	rootCmd.AddCommand(genDocCmd)
}

func runGenDocWithWriter(w io.Writer, root *cobra.Command, dir, format string) error {
	if dir == "" {
		return errors.NewUserError(errors.New("--dir is required"), "")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "creating output directory"), "")
	}

	var err error
	switch format {
	case "markdown", "md":
		err = doc.GenMarkdownTreeCustom(root, dir, frontMatter, markdownLink)
	case "man":
		err = doc.GenManTree(root, &doc.GenManHeader{Title: "SLSAH", Section: "1", Source: "slsah"}, dir)
	default:
		return errors.NewUserError(errors.Newf("unknown format %q", format), "Use --format markdown or --format man")
	}
	if err != nil {
		return errors.Wrapf(err, "generating %s", format)
	}

	fmt.Fprintf(w, "Documentation written to %s\n", dir)
	return nil
}

// frontMatter titles a page from its file name: slsah_schema_generate.md
// becomes "slsah schema generate".
func frontMatter(filename string) string {
	title := strings.ReplaceAll(strings.TrimSuffix(filepath.Base(filename), ".md"), "_", " ")
	return fmt.Sprintf("---\ntitle: %q\ndescription: %q\n---\n", title, "Reference for "+title)
}

func markdownLink(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name))) + ".md"
}
