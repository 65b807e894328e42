package ui

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"orbis/models"
)

// RenderTasks writes a task table to w.
func RenderTasks(w io.Writer, tasks []models.Task) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "Titulo", "Prioridade", "Status", "Prazo"})
	for i, t := range tasks {
		prazo := t.DataPrazo
		if prazo == "" {
			prazo = "-"
		}
		prio := PriorityStyle(string(t.Prioridade)).Render(string(t.Prioridade))
		tw.AppendRow(table.Row{i + 1, t.Titulo, prio, string(t.Status), prazo})
	}
	tw.Render()
}

// RenderHabits writes a habit status table to w.
func RenderHabits(w io.Writer, habits []models.HabitStatus) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"", "Habito", "Hoje", "Este mes"})
	for _, h := range habits {
		icone := h.Icone
		if icone == "" {
			icone = models.DefaultHabitIcon
		}
		hoje := "⬜"
		if h.DoneToday {
			hoje = "✅"
		}
		tw.AppendRow(table.Row{icone, h.Titulo, hoje, fmt.Sprintf("%d/%d", h.ThisMonth, h.MetaMensal)})
	}
	tw.Render()
}

// RenderFinances writes a ledger table to w, with totals in the footer.
func RenderFinances(w io.Writer, entries []models.Finance) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Data", "Descricao", "Categoria", "Tipo", "Valor"})
	var receitas, despesas float64
	for _, f := range entries {
		valor := fmt.Sprintf("R$%.2f", f.Valor)
		if f.Tipo == models.TipoReceita {
			receitas += f.Valor
			valor = StyleSuccess.Render(valor)
		} else {
			despesas += f.Valor
			valor = StyleError.Render(valor)
		}
		tw.AppendRow(table.Row{f.Data, f.Descricao, f.Categoria, string(f.Tipo), valor})
	}
	tw.AppendFooter(table.Row{"", "", "", "Saldo", fmt.Sprintf("R$%.2f", receitas-despesas)})
	tw.Render()
}
