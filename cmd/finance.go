/*
Copyright © 2025 Orbis Authors
*/
package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"orbis/internal/ui"
	"orbis/models"
)

// financeCmd represents the finance command
var financeCmd = &cobra.Command{
	Use:     "finance",
	Aliases: []string{"financas"},
	Short:   "Lista as financas dos ultimos 30 dias",
	Long: `Lista receitas e despesas registradas nos ultimos 30 dias,
com o saldo do periodo.

Examples:
  orbis finance
  orbis gasto 23.50 Uber
  orbis receita 5000 Salario`,
	Args: cobra.NoArgs,
	RunE: runFinance,
}

// gastoCmd registers an expense.
var gastoCmd = &cobra.Command{
	Use:   "gasto <valor> <descricao>",
	Short: "Registra uma despesa",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegisterFinance(cmd, args, models.TipoDespesa)
	},
}

// receitaCmd registers an income entry.
var receitaCmd = &cobra.Command{
	Use:   "receita <valor> <descricao>",
	Short: "Registra uma receita",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegisterFinance(cmd, args, models.TipoReceita)
	},
}

var financeCategoria string

func init() {
	rootCmd.AddCommand(financeCmd)
	rootCmd.AddCommand(gastoCmd)
	rootCmd.AddCommand(receitaCmd)

	for _, c := range []*cobra.Command{gastoCmd, receitaCmd} {
		c.Flags().StringVar(&financeCategoria, "categoria", models.DefaultCategoria, "Categoria da entrada")
	}
}

func runFinance(cmd *cobra.Command, args []string) error {
	s, err := GetStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	since := time.Now().AddDate(0, 0, -30).Format(models.DateLayout)
	entries, err := s.ListFinancesSince(since)
	if err != nil {
		return fmt.Errorf("list finances: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("Nenhuma entrada nos ultimos 30 dias.")
		return nil
	}

	ui.RenderFinances(cmd.OutOrStdout(), entries)
	return nil
}

func runRegisterFinance(cmd *cobra.Command, args []string, tipo models.FinanceType) error {
	valor, err := strconv.ParseFloat(strings.Replace(args[0], ",", ".", 1), 64)
	if err != nil {
		return fmt.Errorf("valor invalido: %s", args[0])
	}
	descricao := strings.TrimSpace(strings.Join(args[1:], " "))
	if descricao == "" {
		return fmt.Errorf("descricao cannot be empty")
	}

	s, err := GetStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	entry, err := s.CreateFinance(models.Finance{
		Descricao: descricao,
		Valor:     math.Abs(valor),
		Tipo:      tipo,
		Categoria: financeCategoria,
	})
	if err != nil {
		return fmt.Errorf("create finance entry: %w", err)
	}

	label := "Despesa"
	if entry.Tipo == models.TipoReceita {
		label = "Receita"
	}
	cmd.Printf("%s %s de R$%.2f (%s) registrada.\n", ui.StyleSuccess.Render("✔"), label, entry.Valor, entry.Descricao)
	return nil
}
