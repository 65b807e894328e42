/*
Copyright © 2025 Orbis Authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"orbis/internal/ui"
)

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup <destino>",
	Short: "Copia os dados para um arquivo de backup",
	Long: `Copia o arquivo de dados atual para o caminho indicado.

Examples:
  orbis backup ~/backups/orbis-2026-08-29.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	s, err := GetStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	dest := args[0]
	if err := s.Backup(dest); err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	cmd.Printf("%s Backup gravado em %s\n", ui.StyleSuccess.Render("✔"), dest)
	return nil
}
