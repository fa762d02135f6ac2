package main

import (
	"encoding/json"
	"fmt"
	"os"

	"resume-builder/internal/config"
	"resume-builder/internal/domain"
	apperrors "resume-builder/internal/errors"
	"resume-builder/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli carries what every subcommand needs once flags are parsed.
type cli struct {
	cfgPath string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "resumectl",
		Short: "Build, check and export resumes from the command line",
		Long: `resumectl reads resume documents stored as JSON (the same shape the
builder saves) and renders them with the built-in templates.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.cfgPath)
			if err != nil {
				return err
			}
			l, err := logger.New(cfg.Log.Level, "console")
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "config file (yaml, json or toml)")

	root.AddCommand(
		newTemplatesCmd(),
		newValidateCmd(),
		newProgressCmd(),
		newPreviewCmd(c),
		newExportCmd(c),
		newMigrateCmd(c),
	)
	return root
}

// loadDocument reads a resume document and normalizes it the way the form
// does.
func loadDocument(path string) (domain.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !json.Valid(raw) {
		return domain.Document{}, apperrors.InvalidInput(path+" is not valid JSON", nil)
	}
	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Document{}, apperrors.InvalidInput("failed to decode "+path, err)
	}
	if err := doc.Normalize(); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}
