/*
Copyright © 2025 Orbis Authors
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"orbis/internal/ui"
	"orbis/models"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <titulo>",
	Short: "Adiciona uma nova tarefa",
	Long: `Adiciona uma nova tarefa pendente.

Examples:
  orbis add "Pagar conta de luz"
  orbis add "Enviar relatorio" --prioridade alta --prazo 2026-09-15`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addPrioridade string
	addPrazo      string
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addPrioridade, "prioridade", "media", "Prioridade da tarefa (alta, media, baixa)")
	addCmd.Flags().StringVar(&addPrazo, "prazo", "", "Prazo no formato YYYY-MM-DD")
}

func runAdd(cmd *cobra.Command, args []string) error {
	titulo := strings.TrimSpace(strings.Join(args, " "))
	if titulo == "" {
		return fmt.Errorf("titulo cannot be empty")
	}

	prioridade := models.Priority(strings.ToLower(addPrioridade))
	switch prioridade {
	case models.PriorityAlta, models.PriorityMedia, models.PriorityBaixa:
	default:
		return fmt.Errorf("prioridade invalida: %s (use alta, media ou baixa)", addPrioridade)
	}

	s, err := GetStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	task, err := s.CreateTask(models.Task{
		Titulo:     titulo,
		Status:     models.StatusPendente,
		Prioridade: prioridade,
		DataPrazo:  addPrazo,
	})
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	cmd.Printf("%s Tarefa %q criada.\n", ui.StyleSuccess.Render("✔"), task.Titulo)
	return nil
}
