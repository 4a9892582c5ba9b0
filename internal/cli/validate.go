package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjglira/GoSkeptic/internal/config"
	"github.com/fjglira/GoSkeptic/internal/parser"
	"github.com/fjglira/GoSkeptic/internal/scanner"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and the documents it names",
	Long: `Loads the configuration file and checks for errors, missing required fields
and invalid values, then parses every input document and its templates without
writing any output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gen, err := newGenerator(cfg)
		if err != nil {
			return err
		}
		cfg.DryRun = true
		res, err := gen.Generate(cfg)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		name := cfgFile
		if name == "" {
			name = "default configuration"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration %q is valid: %d document(s), %d test(s).\n", name, len(res.Documents), res.Tests)
		log.Debugf("Loaded config: %+v", cfg)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list <directory>",
	Short: "List the Markdown documents below a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := scanner.MarkdownFiles(args[0])
		if err != nil {
			return err
		}
		store := parser.NewTemplateStore(config.DefaultConfig().Templates.Suffix, "", nil)
		for _, f := range files {
			if store.IsCompanion(f) {
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
}
