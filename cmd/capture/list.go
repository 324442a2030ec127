// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/capture/internal/catalog"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cataloged captures",
	Long: `List prints the captures recorded in the catalog, newest capture first.
Filter by tag or domain; --yaml prints the full frontmatter of each entry.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("tag", "", "only captures with this tag")
	listCmd.Flags().String("domain", "", "only captures from this domain")
	listCmd.Flags().Bool("yaml", false, "output entries as YAML")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	path := expandHome(viper.GetString("catalog.path"))
	if path == "" {
		return errors.New("catalog is disabled: set catalog.path")
	}

	store, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	tag, _ := cmd.Flags().GetString("tag")
	domain, _ := cmd.Flags().GetString("domain")
	entries, err := store.List(cmd.Context(), catalog.Filter{Tag: tag, Domain: domain})
	if err != nil {
		return err
	}

	asYAML, _ := cmd.Flags().GetBool("yaml")
	return writeEntries(os.Stdout, entries, asYAML)
}

func writeEntries(w io.Writer, entries []catalog.Entry, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("encoding entries: %w", err)
		}
		return enc.Close()
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No captures found.")
		return nil
	}

	fmt.Fprintf(w, "%-10s  %-24s  %-50s  %s\n", "Captured", "Domain", "Title", "Tags")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, e := range entries {
		fmt.Fprintf(w, "%-10s  %-24s  %-50s  %s\n",
			e.Record.CaptureDate,
			truncate(e.Record.Domain, 24),
			truncate(e.Record.Title, 50),
			strings.Join(e.Record.Tags, ", "))
	}
	fmt.Fprintf(w, "\n%d captures\n", len(entries))
	return nil
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
