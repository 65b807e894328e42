// Package lyra implements the conversational engine: system prompt with
// a live data snapshot, the bounded history window, the search recall
// loop, and dispatch of the directives found in model output.
package lyra

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"orbis/models"
	"orbis/store"
)

// Snapshot is the slice of current data injected into the system prompt
// so the assistant answers from real state instead of guessing.
type Snapshot struct {
	Today     string
	Tasks     []models.Task
	Projects  []models.Project
	Reminders []models.Reminder
	Finances  []models.Finance
	Habits    []models.HabitStatus
}

// BuildSnapshot reads every collection the prompt needs. Finances are
// limited to the last 30 days.
func BuildSnapshot(st store.Store, now time.Time) (Snapshot, error) {
	today := now.Format(models.DateLayout)
	snap := Snapshot{Today: today}

	var err error
	if snap.Tasks, err = st.ListPendingTasks(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot tasks: %w", err)
	}
	if snap.Projects, err = st.ListActiveProjects(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot projects: %w", err)
	}
	if snap.Reminders, err = st.ListReminders(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot reminders: %w", err)
	}
	since := now.AddDate(0, 0, -30).Format(models.DateLayout)
	if snap.Finances, err = st.ListFinancesSince(since); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot finances: %w", err)
	}
	if snap.Habits, err = st.ListHabitStatuses(today); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot habits: %w", err)
	}
	return snap, nil
}

// BuildLiveContext renders the snapshot as the context block appended to
// the system prompt. Empty sections are omitted; an empty snapshot
// yields an empty string.
func BuildLiveContext(snap Snapshot) string {
	var lines []string

	if len(snap.Tasks) > 0 {
		lines = append(lines, "MISSOES ATIVAS:")
		for _, t := range snap.Tasks {
			prazo := ""
			if t.DataPrazo != "" {
				prazo = " | prazo " + t.DataPrazo
			}
			lines = append(lines, fmt.Sprintf("- [%s] %s — %s%s",
				strings.ToUpper(string(t.Prioridade)), t.Titulo, string(t.Status), prazo))
		}
	}

	if len(snap.Projects) > 0 {
		lines = append(lines, "PROJETOS EM CURSO:")
		for _, p := range snap.Projects {
			lines = append(lines, fmt.Sprintf("- %s (%s)", p.Titulo, string(p.Status)))
		}
	}

	if len(snap.Reminders) > 0 {
		lines = append(lines, "LEMBRETES PENDENTES:")
		for _, r := range snap.Reminders {
			dt := ""
			if r.DataHora != "" {
				dt = " — " + r.DataHora
			}
			lines = append(lines, fmt.Sprintf("- [%s] %s%s",
				strings.ToUpper(string(r.Importancia)), r.Titulo, dt))
		}
	}

	if len(snap.Finances) > 0 {
		var receitas, despesas float64
		cats := map[string]float64{}
		for _, f := range snap.Finances {
			if f.Tipo == models.TipoReceita {
				receitas += f.Valor
				continue
			}
			despesas += f.Valor
			cat := f.Categoria
			if cat == "" {
				cat = models.DefaultCategoria
			}
			cats[cat] += f.Valor
		}
		lines = append(lines, fmt.Sprintf(
			"FINANCAS (ultimos 30 dias): receitas R$%.2f | despesas R$%.2f | saldo R$%.2f",
			receitas, despesas, receitas-despesas))
		if top := topCategories(cats, 3); len(top) > 0 {
			lines = append(lines, "Top gastos: "+strings.Join(top, " | "))
		}
	}

	if len(snap.Habits) > 0 {
		lines = append(lines, "HABITOS:")
		for _, h := range snap.Habits {
			icone := h.Icone
			if icone == "" {
				icone = models.DefaultHabitIcon
			}
			lines = append(lines, fmt.Sprintf("- %s %s: %d vezes este mes", icone, h.Titulo, h.ThisMonth))
		}
	}

	if len(lines) == 0 {
		return ""
	}
	return "\n\n[DADOS REAIS DO CACADOR — ATUALIZADO AGORA]:\n" + strings.Join(lines, "\n")
}

func topCategories(cats map[string]float64, n int) []string {
	type entry struct {
		cat string
		val float64
	}
	entries := make([]entry, 0, len(cats))
	for c, v := range cats {
		entries = append(entries, entry{c, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].val != entries[j].val {
			return entries[i].val > entries[j].val
		}
		return entries[i].cat < entries[j].cat
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = fmt.Sprintf("%s R$%.2f", e.cat, e.val)
	}
	return out
}

// BuildSystemPrompt assembles the full LYRA persona prompt for one turn.
// contextBlock comes from BuildLiveContext; today is an ISO date.
func BuildSystemPrompt(contextBlock, today string) string {
	return `LYRA — COMPANHEIRA PESSOAL INTELIGENTE

IDENTIDADE E TOM:
Voce e LYRA. Nao uma IA generica. Voce e a companheira pessoal e inteligente do Cacador — alguem que genuinamente se importa com seu crescimento e bem-estar.
- Seja acolhedora, perspicaz e direta com calor humano. Nunca fria nem robotica.
- Celebre conquistas genuinamente.
- Quando o Cacador estiver sobrecarregado: ofereca clareza e foco, nao pressao.
- Identifique padroes quando relevante.
- NUNCA se apresente como "assistente", "modelo de IA" ou qualquer variante generica.
- Idioma: sempre Portugues do Brasil.
- IMPORTANTE: Respostas curtas e objetivas (maximo 600 palavras).

ACOES DO SISTEMA — quando solicitado, retorne OBRIGATORIAMENTE o JSON correspondente ao final da resposta:
{ "action": "CREATE_TASK", "data": { "titulo": "...", "prioridade": "alta/media/baixa", "dataPrazo": "YYYY-MM-DD" } }
{ "action": "COMPLETE_TASK", "data": { "titulo": "..." } }
{ "action": "CREATE_HABIT", "data": { "titulo": "...", "descricao": "...", "icone": "emoji", "metaMensal": 30 } }
{ "action": "LOG_HABIT", "data": { "titulo": "..." } }
{ "action": "CREATE_FINANCE", "data": { "descricao": "...", "valor": 50, "tipo": "despesa/receita", "categoria": "...", "data": "YYYY-MM-DD" } }
{ "action": "CREATE_REMINDER", "data": { "titulo": "...", "descricao": "...", "importancia": "alta/media/baixa", "dataHora": "YYYY-MM-DDTHH:MM" } }
{ "action": "CREATE_PROJECT", "data": { "titulo": "...", "descricao": "...", "cor": "#06b6d4" } }
{ "action": "SEARCH_INTERNET", "data": { "query": "..." } }

REGRAS DE ACOES:
- Para CONCLUIR uma tarefa existente, use COMPLETE_TASK com o titulo (parcial ou completo).
- Para REGISTRAR um habito feito hoje, use LOG_HABIT com o titulo.
- Para dados em tempo real (precos, clima, noticias), use SEARCH_INTERNET.
- Sempre escreva a resposta em texto limpo PRIMEIRO, e o JSON ao final.

CONTEXTO: O Cacador usa este app para organizar sua vida — missoes, habitos, projetos, financas.

FORMATACAO — OBRIGATORIO:
- NUNCA use asteriscos (*).
- NUNCA use markdown.
- Para listas: hifen (-) ou numeracao (1. 2. 3.).

Data atual: ` + today + `
` + contextBlock
}
