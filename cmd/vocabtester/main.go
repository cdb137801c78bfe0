package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/vocabtester/internal/archive"
	"codeberg.org/snonux/vocabtester/internal/cli"
	"codeberg.org/snonux/vocabtester/internal/logging"
	"codeberg.org/snonux/vocabtester/internal/models"
	"codeberg.org/snonux/vocabtester/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		cli.ApplyConfig(cmd, flags)
		if _, err := logging.Setup(flags.LogLevel, os.Stderr); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runCommand(ctx, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, flags *cli.Flags) error {
	if flags.DBPath == "" {
		flags.DBPath = filepath.Join(cli.StateDir(), "vocab.db")
	}

	// Handle --archive flag before the database is opened
	if flags.Archive {
		dir, err := archive.ArchiveDatabase(flags.DBPath)
		if err != nil {
			return fmt.Errorf("failed to archive database: %w", err)
		}
		fmt.Printf("Database archived to %s\n", dir)
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister, err := models.NewLister(ctx, os.Stdout, cli.GetOpenAIKey(), cli.GetGeminiKey())
		if err != nil {
			return err
		}
		return lister.ListAvailableModels(ctx)
	}

	proc, err := processor.NewProcessor(ctx, flags)
	if err != nil {
		return err
	}
	defer proc.Close()

	switch {
	case flags.ListTags:
		return proc.ListTags(ctx)
	case flags.Stats:
		return proc.PrintStats(ctx)
	case flags.AddWord != "":
		if err := proc.AddWord(ctx, flags.AddWord); err != nil {
			return err
		}
	case flags.BatchFile != "":
		if err := proc.ProcessBatch(ctx); err != nil {
			return err
		}
	case flags.TextMode:
		return proc.RunTextMode(ctx, os.Stdin)
	case !flags.GenerateAnki:
		// No mode selected - launch GUI mode by default
		return proc.RunGUIMode(ctx)
	}

	// Generate Anki file if requested, also after --add or --batch
	if flags.GenerateAnki {
		fmt.Printf("\nGenerating Anki import file...\n")
		outputPath, err := proc.GenerateAnkiFile(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate Anki file: %w", err)
		}
		fmt.Printf("Anki file created: %s\n", outputPath)
	}
	return nil
}
