// tablekit is a CLI tool for defining tables and fields with validated
// names and api names.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/n1rna/tablekit/internal/command"
	"github.com/n1rna/tablekit/internal/config"
	"github.com/n1rna/tablekit/internal/entities"
	"github.com/n1rna/tablekit/internal/fieldtype"
	"github.com/n1rna/tablekit/internal/logger"
)

var (
	version     = "dev"
	cfgBaseDir  string
	globalFlags = struct {
		debug bool
	}{}
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "tablekit",
		Short: "tablekit - Define tables and fields with safe api names",
		Long: `tablekit is a CLI tool for defining tables and their fields.
Every table and field has a display name and an api name that are validated,
kept unique among siblings and safe to use in API contracts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration from environment and config file
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// Override base directory if specified via flag
			if cfgBaseDir != "" {
				cfg.BaseDir = cfgBaseDir
				// Re-validate after override
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
				if err := cfg.LoadFile(filepath.Join(cfg.BaseDir, "config.yaml")); err != nil {
					return err
				}
			}

			if err := configureLogger(cfg); err != nil {
				return err
			}

			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			manager, err := entities.NewManager(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}

			// Store in command context
			ctx := command.WithEntityManager(cmd.Context(), manager)
			ctx = command.WithRegistry(ctx, fieldtype.NewDefaultRegistry())
			cmd.SetContext(ctx)
			return nil
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVar(&cfgBaseDir, "dir", "",
		"Base directory for tablekit storage (default: $TABLEKIT_HOME or ~/.tablekit)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.debug, "debug", false, "Enable debug output")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "entities",
		Title: "Entity Management:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "global",
		Title: "Global Commands:",
	})

	// Add commands organized by groups
	rootCmd.AddCommand(
		command.NewTableCommand("entities"), // Table management
		command.NewFieldCommand("entities"), // Field management
		command.NewTypesCommand("entities"), // Field type listing

		command.NewUICommand("global"),       // Terminal forms
		command.NewBackfillCommand("global"), // Api name backfill
	)

	// Enable version flag
	rootCmd.SetVersionTemplate("tablekit version {{.Version}}\n")

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configureLogger applies the configured level; --debug wins
func configureLogger(cfg *config.Config) error {
	if globalFlags.debug {
		logger.SetGlobalLevel(logger.DEBUG)
		logger.GetLogger().SetShowFile(true)
		return nil
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.SetGlobalLevel(level)
	return nil
}
