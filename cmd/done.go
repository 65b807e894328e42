/*
Copyright © 2025 Orbis Authors
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"orbis/internal/textutil"
	"orbis/internal/ui"
	"orbis/models"
	"orbis/store"
)

// ErrNoPendingTasks is returned when completion is requested with an
// empty pending list.
var ErrNoPendingTasks = errors.New("no pending tasks")

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:     "done [termo]",
	Aliases: []string{"concluir"},
	Short:   "Conclui uma tarefa pendente",
	Long: `Conclui uma tarefa pendente.

Com um termo de busca, conclui a tarefa mais antiga cujo titulo contem
o termo (sem diferenciar acentos ou maiusculas). Sem argumentos, abre
uma selecao interativa.

Examples:
  orbis done relatorio
  orbis done`,
	RunE: runDone,
}

func init() {
	rootCmd.AddCommand(doneCmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	s, err := GetStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	var task models.Task
	if len(args) > 0 {
		task, err = findTaskByTerm(cmd, s, strings.Join(args, " "))
	} else {
		task, err = selectTaskInteractive(s, "Qual tarefa voce concluiu")
	}
	if err != nil {
		if errors.Is(err, ErrNoPendingTasks) {
			cmd.Println("Nenhuma tarefa pendente.")
			return nil
		}
		if errors.Is(err, promptui.ErrInterrupt) {
			return nil
		}
		return err
	}
	if task.ID == "" {
		return nil
	}

	if _, err := s.CompleteTask(task.ID); err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	cmd.Printf("%s Tarefa %q concluida!\n", ui.StyleSuccess.Render("✔"), task.Titulo)
	return nil
}

// findTaskByTerm resolves a search term to the earliest pending match
// and reports the alternatives that were skipped.
func findTaskByTerm(cmd *cobra.Command, s store.Store, term string) (models.Task, error) {
	matches, err := s.FindTasksByTitle(term)
	if err != nil {
		return models.Task{}, fmt.Errorf("find tasks: %w", err)
	}
	if len(matches) == 0 {
		cmd.Printf("Nenhuma tarefa encontrada com %q.\n", term)
		return models.Task{}, nil
	}
	if len(matches) > 1 {
		cmd.Printf("Havia %d resultados, concluindo a mais antiga. Outras opcoes:\n", len(matches))
		for i, m := range matches[1:] {
			cmd.Printf("  %d. %s\n", i+2, m.Titulo)
		}
	}
	return matches[0], nil
}

// selectTaskInteractive presents a prompt to pick one pending task.
func selectTaskInteractive(s store.Store, label string) (models.Task, error) {
	tasks, err := s.ListPendingTasks()
	if err != nil {
		return models.Task{}, fmt.Errorf("list tasks for selection: %w", err)
	}
	if len(tasks) == 0 {
		return models.Task{}, ErrNoPendingTasks
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .Titulo | cyan }} ({{ .Prioridade }})`,
		Inactive: `  {{ .Titulo | faint }} ({{ .Prioridade }})`,
		Selected: `{{ "✔" | green }} {{ .Titulo | faint }}`,
		Details: `
--------- Tarefa ----------
{{ "Titulo:\t" | faint }} {{ .Titulo }}
{{ "Prioridade:\t" | faint }} {{ .Prioridade }}
{{ "Prazo:\t" | faint }} {{ .DataPrazo }}`,
	}

	searcher := func(input string, index int) bool {
		return strings.Contains(textutil.Fold(tasks[index].Titulo), textutil.Fold(input))
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     tasks,
		Templates: templates,
		Searcher:  searcher,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return models.Task{}, err
	}
	return tasks[i], nil
}
