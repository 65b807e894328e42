/*
Copyright © 2025 Orbis Authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"orbis/internal/ui"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "tarefas"},
	Short:   "Lista as tarefas pendentes",
	Long: `Lista todas as tarefas pendentes, ordenadas por prioridade.

Examples:
  orbis list
  orbis ls`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := GetStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	tasks, err := s.ListPendingTasks()
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	if len(tasks) == 0 {
		cmd.Println("Nenhuma tarefa pendente. 🎉")
		return nil
	}

	ui.RenderTasks(cmd.OutOrStdout(), tasks)
	return nil
}
