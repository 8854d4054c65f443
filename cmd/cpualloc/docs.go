package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

const defaultDocsDir = "docs/cli-reference"

var headingRe = regexp.MustCompile(`(?m)^(#{2,5}) `)

// NewDocsCommand creates a new hidden command to generate CLI reference docs.
func NewDocsCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:                   "docs",
		Short:                 "Generate cpualloc CLI reference docs in markdown.",
		DisableFlagsInUseLine: true,
		Hidden:                true,
		Args:                  cobra.NoArgs,
		ValidArgsFunction:     cobra.NoFileCompletions,
		// The docs command doesn't need the config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return generateDocs(cmd.Root(), dir)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", defaultDocsDir, "Directory to write the markdown files to.")
	_ = cmd.MarkFlagDirname("dir")

	return cmd
}

func generateDocs(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create docs directory '%s': %w", dir, err)
	}
	// Remove existing markdown files.
	mdFiles, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return fmt.Errorf("list existing CLI docs: %w", err)
	}
	for _, f := range mdFiles {
		if err = os.Remove(f); err != nil {
			return fmt.Errorf("remove '%s': %w", f, err)
		}
	}

	root.DisableAutoGenTag = true
	if err = doc.GenMarkdownTree(root, dir); err != nil {
		return fmt.Errorf("generate CLI docs: %w", err)
	}

	mdFiles, err = filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return fmt.Errorf("list generated CLI docs: %w", err)
	}
	for _, f := range mdFiles {
		// Completion docs are generated by cobra and not specific to cpualloc.
		if strings.Contains(filepath.Base(f), "completion") {
			if err = os.Remove(f); err != nil {
				return fmt.Errorf("remove '%s': %w", f, err)
			}
			continue
		}
		if err = postProcessMarkdown(f); err != nil {
			return fmt.Errorf("post-process '%s': %w", f, err)
		}
	}
	return nil
}

// postProcessMarkdown raises heading levels by one and removes links to the completion docs.
func postProcessMarkdown(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.Contains(line, "[cpualloc completion") {
			lines = append(lines, line)
		}
	}
	content := strings.Join(lines, "\n")
	content = strings.ReplaceAll(content, "SEE ALSO", "See also")
	content = headingRe.ReplaceAllStringFunc(content, func(h string) string {
		return h[1:]
	})

	return os.WriteFile(filename, []byte(content), 0o644)
}
