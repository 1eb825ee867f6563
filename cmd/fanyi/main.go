package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/fanyi/internal/cli"
	"codeberg.org/snonux/fanyi/internal/logging"
	"codeberg.org/snonux/fanyi/internal/processor"
	"codeberg.org/snonux/fanyi/internal/translation"
	"codeberg.org/snonux/fanyi/internal/youdao"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command with the subcommand implementations
	rootCmd := cli.CreateRootCommand(flags, cli.Actions{
		APIs: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, func(ctx context.Context, p *processor.Processor) error {
				return p.ListAPIs()
			})
		},
		Langs: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, func(ctx context.Context, p *processor.Processor) error {
				return p.ListLanguages(ctx)
			})
		},
		Domains: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, func(ctx context.Context, p *processor.Processor) error {
				return p.ListDomains(ctx)
			})
		},
		Translate: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, func(ctx context.Context, p *processor.Processor) error {
				if flags.BatchFile != "" {
					return p.ProcessBatch(ctx, flags.BatchFile)
				}
				if len(args) == 0 {
					return fmt.Errorf("nothing to translate, pass a text or --batch")
				}
				return p.TranslateText(ctx, args[0])
			})
		},
		Serve: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, func(ctx context.Context, p *processor.Processor) error {
				return p.RunServer(ctx)
			})
		},
	})

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func withProcessor(cmd *cobra.Command, run func(ctx context.Context, p *processor.Processor) error) error {
	settings := cli.LoadSettings()

	logger, err := logging.New(settings.LogLevel, settings.LogFormat)
	if err != nil {
		return err
	}

	cfg := youdao.DefaultConfig()
	cfg.Logger = logger
	cfg.BreakerFailures = settings.BreakerFailures

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proc := processor.NewProcessor(settings, translation.Options{Youdao: cfg}, logger)
	return run(ctx, proc)
}
