package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resume-builder/internal/adapter/analytics"
	"resume-builder/internal/adapter/cache"
	"resume-builder/internal/adapter/events"
	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/internal/theme"
	"resume-builder/internal/usecase"
	infra "resume-builder/pkg/infrastructure"

	"github.com/spf13/cobra"
)

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Templates"))
			for _, t := range theme.All() {
				fmt.Fprintf(out, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-13s", t.ID)), valueStyle.Render(t.Name))
				fmt.Fprintf(out, "  %s\n", mutedStyle.Render(t.Description))
			}
			return nil
		},
	}
}

// newValidateCmd checks a file the way the builder would store it: it is
// decoded and normalized first, so case-insensitive or missing skill levels
// pass. --strict checks the raw file against the stored shape instead.
func newValidateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:     "validate <resume.json>",
		Short:   "Check a resume document against the schema",
		Args:    cobra.ExactArgs(1),
		Example: "  resumectl validate ./jane.json\n  resumectl validate --strict ./jane.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strict {
				raw, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", args[0], err)
				}
				if err := model.ValidateJSON(raw); err != nil {
					return err
				}
			} else {
				doc, err := loadDocument(args[0])
				if err != nil {
					return err
				}
				if err := model.ValidateDocument(doc); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ "+args[0]+" is a valid resume document"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "check the raw file against the stored shape without normalizing")
	return cmd
}

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <resume.json>",
		Short: "Show how complete a resume is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			state, err := usecase.NewForm().State(doc)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %d%%\n", labelStyle.Render("Progress:"), progressBar(state.Progress), state.Progress)
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Name:"), valueStyle.Render(domain.DraftName(state.Document, "")))
			return nil
		},
	}
}

func newPreviewCmd(c *cli) *cobra.Command {
	var templateID, output string
	cmd := &cobra.Command{
		Use:   "preview <resume.json>",
		Short: "Render the preview page to an HTML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			page, err := c.exporter().Preview(cmd.Context(), doc, templateID)
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])) + ".preview.html"
			}
			if err := os.WriteFile(output, page, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Preview written to "+output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&templateID, "template", "t", theme.DefaultID, "template id")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>.preview.html)")
	return cmd
}

func newExportCmd(c *cli) *cobra.Command {
	var templateID, format, dir string
	cmd := &cobra.Command{
		Use:   "export <resume.json>",
		Short: "Export a resume to PDF, DOCX or HTML",
		Args:  cobra.ExactArgs(1),
		Example: `  resumectl export ./jane.json
  resumectl export ./jane.json --format docx --template professional -o ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := render.ParseEncoding(format)
			if err != nil {
				return err
			}
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			a, err := c.exporter().Export(cmd.Context(), usecase.ExportRequest{
				TemplateID: templateID,
				Encoding:   enc,
				Document:   doc,
			})
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
			path := filepath.Join(dir, a.Filename)
			if err := os.WriteFile(path, a.Bytes, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				successStyle.Render("✓ Exported "+path),
				mutedStyle.Render(fmt.Sprintf("(%d bytes)", len(a.Bytes))))
			return nil
		},
	}
	cmd.Flags().StringVarP(&templateID, "template", "t", theme.DefaultID, "template id")
	cmd.Flags().StringVarP(&format, "format", "f", string(render.EncodingPDF), "pdf, docx or html")
	cmd.Flags().StringVarP(&dir, "output", "o", ".", "output directory")
	return cmd
}

// exporter builds an exporter with no cache sharing, events or analytics;
// the browser is only started for PDF output.
func (c *cli) exporter() *usecase.Exporter {
	return usecase.NewExporter(
		infra.NewChromedpRenderer(c.cfg.Browser.ExecPath, c.cfg.Browser.Timeout, c.logger),
		cache.NewMemory(),
		events.Noop{},
		analytics.Noop{},
		usecase.ExporterConfig{
			PDFMode:  c.cfg.Export.PDFMode,
			Attempts: c.cfg.Export.Attempts,
			Backoff:  c.cfg.Export.Backoff,
		},
		c.logger,
	)
}
