/*
Copyright © 2025 Orbis Authors
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"orbis/internal/ui"
	"orbis/models"
	"orbis/store"
)

// habitsCmd represents the habits command
var habitsCmd = &cobra.Command{
	Use:     "habits",
	Aliases: []string{"habitos"},
	Short:   "Mostra os habitos de hoje",
	Long: `Mostra os habitos cadastrados com o progresso de hoje e do mes.

Examples:
  orbis habits
  orbis habits log corrida
  orbis habits add "Corrida matinal" --icone 🏃 --meta 20`,
	Args: cobra.NoArgs,
	RunE: runHabits,
}

// habitsLogCmd marks a habit as done for today.
var habitsLogCmd = &cobra.Command{
	Use:   "log <termo>",
	Short: "Registra um habito para hoje",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHabitsLog,
}

// habitsAddCmd creates a new habit.
var habitsAddCmd = &cobra.Command{
	Use:   "add <titulo>",
	Short: "Cadastra um novo habito",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHabitsAdd,
}

var (
	habitIcone string
	habitMeta  int
)

func init() {
	rootCmd.AddCommand(habitsCmd)
	habitsCmd.AddCommand(habitsLogCmd)
	habitsCmd.AddCommand(habitsAddCmd)

	habitsAddCmd.Flags().StringVar(&habitIcone, "icone", models.DefaultHabitIcon, "Emoji exibido ao lado do habito")
	habitsAddCmd.Flags().IntVar(&habitMeta, "meta", models.DefaultMetaMensal, "Meta mensal de registros")
}

func runHabits(cmd *cobra.Command, args []string) error {
	s, err := GetStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	today := time.Now().Format(models.DateLayout)
	statuses, err := s.ListHabitStatuses(today)
	if err != nil {
		return fmt.Errorf("list habits: %w", err)
	}

	if len(statuses) == 0 {
		cmd.Println("Nenhum habito cadastrado.")
		return nil
	}

	ui.RenderHabits(cmd.OutOrStdout(), statuses)
	return nil
}

func runHabitsLog(cmd *cobra.Command, args []string) error {
	term := strings.Join(args, " ")

	s, err := GetStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	matches, err := s.FindHabitsByTitle(term)
	if err != nil {
		return fmt.Errorf("find habits: %w", err)
	}
	if len(matches) == 0 {
		cmd.Printf("Nenhum habito encontrado com %q.\n", term)
		return nil
	}

	habit := matches[0]
	today := time.Now().Format(models.DateLayout)
	if _, err := s.LogHabit(habit.ID, today); err != nil {
		if errors.Is(err, store.ErrHabitAlreadyLogged) {
			cmd.Printf("Habito %q ja foi registrado hoje.\n", habit.Titulo)
			return nil
		}
		return fmt.Errorf("log habit: %w", err)
	}
	cmd.Printf("%s Habito %q registrado para hoje!\n", ui.StyleSuccess.Render("✔"), habit.Titulo)
	return nil
}

func runHabitsAdd(cmd *cobra.Command, args []string) error {
	titulo := strings.TrimSpace(strings.Join(args, " "))
	if titulo == "" {
		return fmt.Errorf("titulo cannot be empty")
	}

	s, err := GetStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	habit, err := s.CreateHabit(models.Habit{
		Titulo:     titulo,
		Icone:      habitIcone,
		MetaMensal: habitMeta,
	})
	if err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	cmd.Printf("%s Habito %s %q criado.\n", ui.StyleSuccess.Render("✔"), habit.Icone, habit.Titulo)
	return nil
}
