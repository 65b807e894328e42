package action

import (
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orbis/models"
	"orbis/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st := store.NewFileStore()
	cfg := map[string]string{
		"dataFile":       filepath.Join(t.TempDir(), "orbis.json"),
		"dataFileFormat": "json",
	}
	require.NoError(t, st.Initialize(cfg))
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestDispatcher(t *testing.T) (*Dispatcher, store.Store) {
	t.Helper()
	st := newTestStore(t)
	return NewDispatcher(st, slog.New(slog.DiscardHandler)), st
}

func TestDispatchCreateTask(t *testing.T) {
	d, st := newTestDispatcher(t)

	r := d.Dispatch(Directive{Kind: KindCreateTask, Payload: CreateTaskPayload{
		Titulo:     "Pagar conta",
		Prioridade: models.PriorityMedia,
	}})
	assert.Equal(t, OutcomeApplied, r.Outcome)
	assert.Equal(t, `[ LYRA ]: Tarefa "Pagar conta" criada.`, r.Message)

	tasks, err := st.ListPendingTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Pagar conta", tasks[0].Titulo)
}

func TestDispatchCreateTaskDuplicateTitle(t *testing.T) {
	d, _ := newTestDispatcher(t)
	payload := CreateTaskPayload{Titulo: "Pagar conta", Prioridade: models.PriorityMedia}

	first := d.Dispatch(Directive{Kind: KindCreateTask, Payload: payload})
	require.Equal(t, OutcomeApplied, first.Outcome)

	again := d.Dispatch(Directive{Kind: KindCreateTask, Payload: CreateTaskPayload{
		Titulo:     "pagar conta",
		Prioridade: models.PriorityAlta,
	}})
	assert.Equal(t, OutcomeDuplicate, again.Outcome)
	assert.Contains(t, again.Message, "[ ALERTA ]:")
}

func TestDispatchCompleteTaskNotFound(t *testing.T) {
	d, _ := newTestDispatcher(t)

	r := d.Dispatch(Directive{Kind: KindCompleteTask, Payload: CompleteTaskPayload{Titulo: "relatorio"}})
	assert.Equal(t, OutcomeNotFound, r.Outcome)
	assert.Equal(t, `Nenhuma tarefa encontrada com "relatorio".`, r.Message)
}

func TestDispatchCompleteTaskFoldsAccents(t *testing.T) {
	d, st := newTestDispatcher(t)
	_, err := st.CreateTask(models.Task{Titulo: "Enviar relatório mensal"})
	require.NoError(t, err)

	r := d.Dispatch(Directive{Kind: KindCompleteTask, Payload: CompleteTaskPayload{Titulo: "relatorio"}})
	assert.Equal(t, OutcomeApplied, r.Outcome)
	assert.Equal(t, `[ LYRA ]: Tarefa "Enviar relatório mensal" concluida.`, r.Message)
}

func TestDispatchCompleteTaskListsAlternatives(t *testing.T) {
	d, st := newTestDispatcher(t)
	_, err := st.CreateTask(models.Task{Titulo: "Revisar contrato"})
	require.NoError(t, err)
	_, err = st.CreateTask(models.Task{Titulo: "Revisar proposta"})
	require.NoError(t, err)

	r := d.Dispatch(Directive{Kind: KindCompleteTask, Payload: CompleteTaskPayload{Titulo: "revisar"}})
	assert.Equal(t, OutcomeApplied, r.Outcome)
	assert.Contains(t, r.Message, `Tarefa "Revisar contrato" concluida.`)
	assert.Contains(t, r.Message, "(Havia 2 resultados, concluida a primeira. Outras opcoes:\n2. Revisar proposta)")
}

func TestDispatchLogHabitEarliestMatchWins(t *testing.T) {
	d, st := newTestDispatcher(t)
	_, err := st.CreateHabit(models.Habit{Titulo: "Corrida matinal"})
	require.NoError(t, err)
	_, err = st.CreateHabit(models.Habit{Titulo: "Corrida noturna"})
	require.NoError(t, err)

	r := d.Dispatch(Directive{Kind: KindLogHabit, Payload: LogHabitPayload{Titulo: "corrida"}})
	assert.Equal(t, OutcomeApplied, r.Outcome)
	assert.Equal(t, `[ LYRA ]: Habito "Corrida matinal" registrado hoje.`, r.Message)
}

func TestDispatchLogHabitAlreadyLoggedToday(t *testing.T) {
	d, st := newTestDispatcher(t)
	_, err := st.CreateHabit(models.Habit{Titulo: "Leitura"})
	require.NoError(t, err)

	dir := Directive{Kind: KindLogHabit, Payload: LogHabitPayload{Titulo: "leitura"}}
	require.Equal(t, OutcomeApplied, d.Dispatch(dir).Outcome)

	again := d.Dispatch(dir)
	assert.Equal(t, OutcomeAlreadyLogged, again.Outcome)
	assert.Equal(t, `[ ALERTA ]: Habito "Leitura" ja foi registrado hoje.`, again.Message)
}

func TestDispatchLogHabitNotFound(t *testing.T) {
	d, _ := newTestDispatcher(t)

	r := d.Dispatch(Directive{Kind: KindLogHabit, Payload: LogHabitPayload{Titulo: "meditacao"}})
	assert.Equal(t, OutcomeNotFound, r.Outcome)
	assert.Equal(t, `Nenhum habito encontrado com "meditacao".`, r.Message)
}

func TestDispatchCreateFinanceIdempotent(t *testing.T) {
	d, st := newTestDispatcher(t)
	payload := CreateFinancePayload{
		Descricao: "Uber",
		Valor:     23.50,
		Tipo:      models.TipoDespesa,
		Categoria: "transporte",
	}

	first := d.Dispatch(Directive{Kind: KindCreateFinance, Payload: payload})
	assert.Equal(t, OutcomeApplied, first.Outcome)
	assert.Equal(t, `[ LYRA ]: Despesa de R$23.50 (Uber) registrada.`, first.Message)

	again := d.Dispatch(Directive{Kind: KindCreateFinance, Payload: payload})
	assert.Equal(t, OutcomeDuplicate, again.Outcome)
	assert.Contains(t, again.Message, "[ ALERTA ]:")

	since := time.Now().AddDate(0, 0, -1).Format(models.DateLayout)
	entries, err := st.ListFinancesSince(since)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDispatchCreateFinanceSameDescricaoDifferentTipo(t *testing.T) {
	d, _ := newTestDispatcher(t)

	despesa := CreateFinancePayload{Descricao: "Freela", Valor: 100, Tipo: models.TipoDespesa, Categoria: "outros"}
	receita := CreateFinancePayload{Descricao: "Freela", Valor: 100, Tipo: models.TipoReceita, Categoria: "outros"}

	assert.Equal(t, OutcomeApplied, d.Dispatch(Directive{Kind: KindCreateFinance, Payload: despesa}).Outcome)
	r := d.Dispatch(Directive{Kind: KindCreateFinance, Payload: receita})
	assert.Equal(t, OutcomeApplied, r.Outcome)
	assert.Equal(t, `[ LYRA ]: Receita de R$100.00 (Freela) registrada.`, r.Message)
}

func TestDispatchCreateHabit(t *testing.T) {
	d, _ := newTestDispatcher(t)

	r := d.Dispatch(Directive{Kind: KindCreateHabit, Payload: CreateHabitPayload{
		Titulo:     "Leitura",
		Icone:      "📚",
		MetaMensal: 20,
	}})
	assert.Equal(t, OutcomeApplied, r.Outcome)
	assert.Equal(t, `[ LYRA ]: Habito "Leitura" criado.`, r.Message)
}

func TestDispatchCreateReminderAndProject(t *testing.T) {
	d, _ := newTestDispatcher(t)

	rem := d.Dispatch(Directive{Kind: KindCreateReminder, Payload: CreateReminderPayload{
		Titulo:      "Dentista",
		Importancia: models.PriorityAlta,
		DataHora:    "2026-09-01T14:00",
	}})
	assert.Equal(t, OutcomeApplied, rem.Outcome)
	assert.Equal(t, `[ LYRA ]: Lembrete "Dentista" criado.`, rem.Message)

	proj := d.Dispatch(Directive{Kind: KindCreateProject, Payload: CreateProjectPayload{
		Titulo: "Casa nova",
		Cor:    models.DefaultProjectColor,
	}})
	assert.Equal(t, OutcomeApplied, proj.Outcome)
	assert.Equal(t, `[ LYRA ]: Projeto "Casa nova" criado.`, proj.Message)
}

type failingStore struct {
	store.Store
}

func (failingStore) ListPendingTasks() ([]models.Task, error) {
	return nil, errors.New("disk on fire")
}

func TestDispatchStoreFailureIsReported(t *testing.T) {
	d := NewDispatcher(failingStore{}, slog.New(slog.DiscardHandler))

	r := d.Dispatch(Directive{Kind: KindCreateTask, Payload: CreateTaskPayload{
		Titulo:     "Pagar conta",
		Prioridade: models.PriorityMedia,
	}})
	assert.Equal(t, OutcomeFailed, r.Outcome)
	assert.Equal(t, `[ ALERTA ]: Falha ao criar tarefa "Pagar conta".`, r.Message)
}

func TestDispatchAllPreservesOrder(t *testing.T) {
	d, _ := newTestDispatcher(t)

	text := `Feito!
{"action": "CREATE_TASK", "data": {"titulo": "Pagar conta"}}
{"action": "CREATE_FINANCE", "data": {"descricao": "Uber", "valor": 23.5, "tipo": "despesa"}}`

	results := d.DispatchAll(Parse(text))
	require.Len(t, results, 2)
	assert.Equal(t, `[ LYRA ]: Tarefa "Pagar conta" criada.`, results[0].Message)
	assert.Equal(t, `[ LYRA ]: Despesa de R$23.50 (Uber) registrada.`, results[1].Message)
}
