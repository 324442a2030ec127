// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the capture CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/capture/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets resolves API keys from the environment and .secrets/.
var loadedSecrets *secrets.Store

// rootCmd captures one input, or retags an existing capture.
var rootCmd = &cobra.Command{
	Use:   "capture [url | file.pdf | file.html]",
	Short: "Capture web pages and documents as Markdown with frontmatter",
	Long: `capture turns a web page, a saved HTML file or a PDF into a folder holding
one Markdown document with YAML frontmatter plus its original artifact.

By default the page is printed to PDF and parsed by Reducto for equations
and tables, converted by pandoc for images and links, and the two versions
are merged by the generative model. --no-reducto uses the pandoc version
alone; --generate asks the model for the whole document in one call.

Use --retag FOLDER to re-extract metadata for an existing capture.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: loadCredentials,
	RunE:              runCapture,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./capture.yaml or ~/.config/capture/capture.yaml)")

	rootCmd.Flags().StringP("output", "o", "", "output directory (the capture folder is created inside)")
	rootCmd.Flags().StringP("browser", "b", "", "browser executable path (default: auto-detect)")
	rootCmd.Flags().Bool("no-reducto", false, "skip Reducto and the merge, use the HTML conversion only")
	rootCmd.Flags().Bool("generate", false, "generate the document from the PDF in one model call")
	rootCmd.Flags().String("retag", "", "re-extract metadata for an existing capture folder")
	rootCmd.Flags().Bool("cleanup", false, "polish PDF extractions with the generative model")

	_ = viper.BindPFlag("output_dir", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("browser", rootCmd.Flags().Lookup("browser"))
	_ = viper.BindPFlag("cleanup_pdf", rootCmd.Flags().Lookup("cleanup"))
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("capture")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "capture"))
		}
	}

	viper.SetEnvPrefix("CAPTURE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadCredentials populates loadedSecrets from .env and .secrets/.
func loadCredentials(cmd *cobra.Command, args []string) error {
	loaded, err := secrets.LoadDotenv(".env")
	if err != nil {
		return err
	}
	if len(loaded) > 0 {
		fmt.Fprintf(os.Stderr, "Loaded environment: %v\n", loaded)
	}

	files, err := secrets.Load(".secrets/")
	if err != nil {
		return err
	}
	loadedSecrets = secrets.NewStore(files)
	if names := loadedSecrets.Names(); len(names) > 0 {
		sort.Strings(names)
		fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", names)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
