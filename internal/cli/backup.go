package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/HojaMaestra/internal/model"
	"github.com/piwi3910/HojaMaestra/internal/project"
)

func newBackupCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Save or restore the configuration, templates and history.",
	}

	exportCmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write a full backup to FILE.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := project.LoadTemplates(e.templatesPath())
			if err != nil {
				return fmt.Errorf("failed to load templates: %w", err)
			}
			st, closeStore, err := e.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			sheets, err := st.List(cmd.Context(), "")
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], e.cfg, templates, sheets); err != nil {
				return err
			}
			e.logger.Info("backup written", zap.String("path", args[0]), zap.Int("sheets", len(sheets)))
			fmt.Fprintf(cmd.OutOrStdout(), "backed up %d sheets and %d templates to %s\n",
				len(sheets), len(templates.Templates), args[0])
			return nil
		},
	}

	var force bool
	restoreCmd := &cobra.Command{
		Use:   "restore FILE",
		Short: "Replace the configuration, templates and history with a backup.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("restoring replaces the whole history; pass --force to confirm")
			}
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			st, closeStore, err := e.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			n, err := st.ReplaceAll(cmd.Context(), backup.Sheets)
			if err != nil {
				return err
			}

			// The restored config keeps pointing at the history it was
			// restored into.
			cfg := backup.Config
			cfg.DatabasePath = e.cfg.DatabasePath
			if err := project.SaveTemplates(e.templatesPath(), model.TemplateStore{Templates: backup.Templates}); err != nil {
				return fmt.Errorf("failed to save templates: %w", err)
			}
			if err := project.SaveAppConfig(e.configPath, cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			e.cfg = cfg
			e.logger.Info("backup restored",
				zap.String("path", args[0]),
				zap.String("created", backup.CreatedAt),
				zap.Int("sheets", n))
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d sheets and %d templates\n", n, len(backup.Templates))
			return nil
		},
	}
	restoreCmd.Flags().BoolVar(&force, "force", false, "confirm replacing the current data")

	cmd.AddCommand(exportCmd, restoreCmd)
	return cmd
}
