package lyra

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"orbis/models"
)

func TestBuildLiveContextEmptySnapshot(t *testing.T) {
	assert.Empty(t, BuildLiveContext(Snapshot{Today: "2026-08-29"}))
}

func TestBuildLiveContextSections(t *testing.T) {
	snap := Snapshot{
		Today: "2026-08-29",
		Tasks: []models.Task{
			{Titulo: "Pagar conta", Prioridade: models.PriorityAlta, Status: models.StatusPendente, DataPrazo: "2026-09-01"},
		},
		Projects: []models.Project{
			{Titulo: "Casa nova", Status: models.ProjectAtivo},
		},
		Reminders: []models.Reminder{
			{Titulo: "Dentista", Importancia: models.PriorityMedia, DataHora: "2026-09-01T14:00"},
		},
		Finances: []models.Finance{
			{Descricao: "Salario", Valor: 5000, Tipo: models.TipoReceita},
			{Descricao: "Mercado", Valor: 350, Tipo: models.TipoDespesa, Categoria: "alimentacao"},
			{Descricao: "Uber", Valor: 50, Tipo: models.TipoDespesa, Categoria: "transporte"},
		},
		Habits: []models.HabitStatus{
			{Habit: models.Habit{Titulo: "Leitura", Icone: "📚"}, ThisMonth: 12},
		},
	}

	got := BuildLiveContext(snap)
	assert.Contains(t, got, "MISSOES ATIVAS:")
	assert.Contains(t, got, "- [ALTA] Pagar conta — pendente | prazo 2026-09-01")
	assert.Contains(t, got, "PROJETOS EM CURSO:")
	assert.Contains(t, got, "- Casa nova (ativo)")
	assert.Contains(t, got, "LEMBRETES PENDENTES:")
	assert.Contains(t, got, "- [MEDIA] Dentista — 2026-09-01T14:00")
	assert.Contains(t, got, "FINANCAS (ultimos 30 dias): receitas R$5000.00 | despesas R$400.00 | saldo R$4600.00")
	assert.Contains(t, got, "Top gastos: alimentacao R$350.00 | transporte R$50.00")
	assert.Contains(t, got, "HABITOS:")
	assert.Contains(t, got, "- 📚 Leitura: 12 vezes este mes")
}

func TestBuildSystemPromptContract(t *testing.T) {
	prompt := BuildSystemPrompt("", "2026-08-29")

	assert.Contains(t, prompt, "Voce e LYRA.")
	assert.Contains(t, prompt, `"action": "CREATE_TASK"`)
	assert.Contains(t, prompt, `"action": "SEARCH_INTERNET"`)
	assert.Contains(t, prompt, "Data atual: 2026-08-29")
	assert.True(t, strings.Contains(prompt, "NUNCA use asteriscos"))
}

func TestTopCategoriesOrderAndCap(t *testing.T) {
	cats := map[string]float64{
		"alimentacao": 350,
		"transporte":  50,
		"lazer":       120,
		"saude":       80,
	}
	got := topCategories(cats, 3)
	assert.Equal(t, []string{"alimentacao R$350.00", "lazer R$120.00", "saude R$80.00"}, got)
}
