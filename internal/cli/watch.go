package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fjglira/GoSkeptic/internal/config"
	"github.com/fjglira/GoSkeptic/internal/generator"
)

var watchCmd = &cobra.Command{
	Use:   "watch [documents...]",
	Short: "Regenerate the Go test file whenever documentation changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(func(c *config.Config) {
			applyGenerateFlags(cmd, c, args)
		})
		if err != nil {
			return err
		}

		gen, err := newGenerator(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.WithField("debounce", cfg.Watch.DebounceInterval()).Info("Watching documentation for changes")
		return generator.NewWatcher(gen, cfg, log).Run(ctx)
	},
}

func init() {
	f := watchCmd.Flags()
	f.StringVar(&generateFlags.rootDir, "root-dir", "", "Cargo project root (project.root_dir)")
	f.StringVar(&generateFlags.outDir, "out-dir", "", "Cargo build output directory (project.out_dir)")
	f.StringVar(&generateFlags.target, "target", "", "target triple passed to the compiler (project.target)")
	f.StringVarP(&generateFlags.output, "output", "o", "", "generated file path")
	rootCmd.AddCommand(watchCmd)
}
