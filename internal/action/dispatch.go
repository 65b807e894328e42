package action

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"orbis/models"
	"orbis/store"
)

// Outcome distinguishes what a dispatch actually did, replacing the
// silent nil returns of the hosted pipeline this replaced: callers can
// tell "nothing to do" from "something went wrong".
type Outcome int

const (
	// OutcomeApplied means the domain operation succeeded.
	OutcomeApplied Outcome = iota
	// OutcomeNotFound means a fuzzy lookup matched nothing.
	OutcomeNotFound
	// OutcomeDuplicate means an equivalent record already exists and no
	// write was performed.
	OutcomeDuplicate
	// OutcomeAlreadyLogged means the habit was already logged today.
	OutcomeAlreadyLogged
	// OutcomeFailed means the persistence layer returned an error.
	OutcomeFailed
)

// Result is the user-visible product of a dispatch. Message is ready for
// display; empty means nothing should be shown.
type Result struct {
	Kind    Kind
	Outcome Outcome
	Message string
}

// Display prefixes, a display convention only, never parsed.
const (
	prefixLyra   = "[ LYRA ]:"
	prefixAlerta = "[ ALERTA ]:"
)

// Dispatcher routes validated directives to the store. Exactly one
// create/update call is made per directive; repeated equivalent
// directives are absorbed by the dedup guard.
type Dispatcher struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewDispatcher builds a dispatcher over the given store. logger may be
// nil, in which case slog.Default() is used.
func NewDispatcher(st store.Store, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{store: st, logger: logger, now: time.Now}
}

// Dispatch performs the domain operation for one directive and returns
// its result. SEARCH_INTERNET is not a persistence action and yields an
// empty result; the chat engine intercepts it before dispatch.
func (d *Dispatcher) Dispatch(dir Directive) Result {
	switch p := dir.Payload.(type) {
	case CreateTaskPayload:
		return d.createTask(p)
	case CompleteTaskPayload:
		return d.completeTask(p)
	case LogHabitPayload:
		return d.logHabit(p)
	case CreateFinancePayload:
		return d.createFinance(p)
	case CreateHabitPayload:
		return d.createHabit(p)
	case CreateReminderPayload:
		return d.createReminder(p)
	case CreateProjectPayload:
		return d.createProject(p)
	case SearchInternetPayload:
		d.logger.Warn("search directive reached dispatcher", "query", p.Query)
		return Result{Kind: KindSearchInternet, Outcome: OutcomeFailed}
	}
	return Result{Kind: dir.Kind, Outcome: OutcomeFailed}
}

// DispatchAll dispatches directives in appearance order and returns the
// non-empty confirmation messages, in the same order.
func (d *Dispatcher) DispatchAll(dirs []Directive) []Result {
	results := make([]Result, 0, len(dirs))
	for _, dir := range dirs {
		r := d.Dispatch(dir)
		if r.Message != "" {
			results = append(results, r)
		}
	}
	return results
}

func (d *Dispatcher) failed(kind Kind, msg string, err error) Result {
	d.logger.Error("directive dispatch failed", "kind", string(kind), "error", err)
	return Result{Kind: kind, Outcome: OutcomeFailed, Message: msg}
}

func (d *Dispatcher) createTask(p CreateTaskPayload) Result {
	dup, err := isDuplicateTask(d.store, p.Titulo)
	if err != nil {
		return d.failed(KindCreateTask, fmt.Sprintf("%s Falha ao criar tarefa %q.", prefixAlerta, p.Titulo), err)
	}
	if dup {
		return Result{
			Kind:    KindCreateTask,
			Outcome: OutcomeDuplicate,
			Message: fmt.Sprintf("%s Tarefa %q ja existe.", prefixAlerta, p.Titulo),
		}
	}

	task := models.Task{Titulo: p.Titulo, Prioridade: p.Prioridade, DataPrazo: p.DataPrazo, Status: models.StatusPendente}
	if _, err := d.store.CreateTask(task); err != nil {
		return d.failed(KindCreateTask, fmt.Sprintf("%s Falha ao criar tarefa %q.", prefixAlerta, p.Titulo), err)
	}
	return Result{
		Kind:    KindCreateTask,
		Outcome: OutcomeApplied,
		Message: fmt.Sprintf("%s Tarefa %q criada.", prefixLyra, p.Titulo),
	}
}

func (d *Dispatcher) completeTask(p CompleteTaskPayload) Result {
	matches, err := d.store.FindTasksByTitle(p.Titulo)
	if err != nil {
		return d.failed(KindCompleteTask, fmt.Sprintf("%s Falha ao concluir tarefa %q.", prefixAlerta, p.Titulo), err)
	}
	if len(matches) == 0 {
		return Result{
			Kind:    KindCompleteTask,
			Outcome: OutcomeNotFound,
			Message: fmt.Sprintf("Nenhuma tarefa encontrada com %q.", p.Titulo),
		}
	}

	first := matches[0]
	if _, err := d.store.CompleteTask(first.ID); err != nil {
		return d.failed(KindCompleteTask, fmt.Sprintf("%s Falha ao concluir tarefa %q.", prefixAlerta, first.Titulo), err)
	}

	msg := fmt.Sprintf("%s Tarefa %q concluida.", prefixLyra, first.Titulo)
	if len(matches) > 1 {
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n\n(Havia %d resultados, concluida a primeira. Outras opcoes:", msg, len(matches))
		for i, t := range matches[1:] {
			fmt.Fprintf(&b, "\n%d. %s", i+2, t.Titulo)
		}
		b.WriteString(")")
		msg = b.String()
	}
	return Result{Kind: KindCompleteTask, Outcome: OutcomeApplied, Message: msg}
}

func (d *Dispatcher) logHabit(p LogHabitPayload) Result {
	matches, err := d.store.FindHabitsByTitle(p.Titulo)
	if err != nil {
		return d.failed(KindLogHabit, fmt.Sprintf("%s Falha ao registrar habito %q.", prefixAlerta, p.Titulo), err)
	}
	if len(matches) == 0 {
		return Result{
			Kind:    KindLogHabit,
			Outcome: OutcomeNotFound,
			Message: fmt.Sprintf("Nenhum habito encontrado com %q.", p.Titulo),
		}
	}

	habit := matches[0]
	today := d.now().Format(models.DateLayout)
	if _, err := d.store.LogHabit(habit.ID, today); err != nil {
		if errors.Is(err, store.ErrHabitAlreadyLogged) {
			return Result{
				Kind:    KindLogHabit,
				Outcome: OutcomeAlreadyLogged,
				Message: fmt.Sprintf("%s Habito %q ja foi registrado hoje.", prefixAlerta, habit.Titulo),
			}
		}
		return d.failed(KindLogHabit, fmt.Sprintf("%s Falha ao registrar habito %q.", prefixAlerta, habit.Titulo), err)
	}
	return Result{
		Kind:    KindLogHabit,
		Outcome: OutcomeApplied,
		Message: fmt.Sprintf("%s Habito %q registrado hoje.", prefixLyra, habit.Titulo),
	}
}

func (d *Dispatcher) createFinance(p CreateFinancePayload) Result {
	dup, err := isDuplicateFinance(d.store, p, d.now())
	if err != nil {
		return d.failed(KindCreateFinance, fmt.Sprintf("%s Falha ao registrar lancamento %q.", prefixAlerta, p.Descricao), err)
	}
	if dup {
		return Result{
			Kind:    KindCreateFinance,
			Outcome: OutcomeDuplicate,
			Message: fmt.Sprintf("%s Lancamento equivalente ja registrado: %q.", prefixAlerta, p.Descricao),
		}
	}

	entry := models.Finance{
		Descricao: p.Descricao,
		Valor:     p.Valor,
		Tipo:      p.Tipo,
		Categoria: p.Categoria,
		Data:      p.Data,
	}
	if _, err := d.store.CreateFinance(entry); err != nil {
		return d.failed(KindCreateFinance, fmt.Sprintf("%s Falha ao registrar lancamento %q.", prefixAlerta, p.Descricao), err)
	}

	label := "Despesa"
	if p.Tipo == models.TipoReceita {
		label = "Receita"
	}
	return Result{
		Kind:    KindCreateFinance,
		Outcome: OutcomeApplied,
		Message: fmt.Sprintf("%s %s de R$%.2f (%s) registrada.", prefixLyra, label, p.Valor, p.Descricao),
	}
}

func (d *Dispatcher) createHabit(p CreateHabitPayload) Result {
	dup, err := isDuplicateHabit(d.store, p.Titulo)
	if err != nil {
		return d.failed(KindCreateHabit, fmt.Sprintf("%s Falha ao criar habito %q.", prefixAlerta, p.Titulo), err)
	}
	if dup {
		return Result{
			Kind:    KindCreateHabit,
			Outcome: OutcomeDuplicate,
			Message: fmt.Sprintf("%s Habito %q ja existe.", prefixAlerta, p.Titulo),
		}
	}

	habit := models.Habit{Titulo: p.Titulo, Descricao: p.Descricao, Icone: p.Icone, MetaMensal: p.MetaMensal}
	if _, err := d.store.CreateHabit(habit); err != nil {
		return d.failed(KindCreateHabit, fmt.Sprintf("%s Falha ao criar habito %q.", prefixAlerta, p.Titulo), err)
	}
	return Result{
		Kind:    KindCreateHabit,
		Outcome: OutcomeApplied,
		Message: fmt.Sprintf("%s Habito %q criado.", prefixLyra, p.Titulo),
	}
}

func (d *Dispatcher) createReminder(p CreateReminderPayload) Result {
	dup, err := isDuplicateReminder(d.store, p.Titulo, p.DataHora)
	if err != nil {
		return d.failed(KindCreateReminder, fmt.Sprintf("%s Falha ao criar lembrete %q.", prefixAlerta, p.Titulo), err)
	}
	if dup {
		return Result{
			Kind:    KindCreateReminder,
			Outcome: OutcomeDuplicate,
			Message: fmt.Sprintf("%s Lembrete %q ja existe.", prefixAlerta, p.Titulo),
		}
	}

	reminder := models.Reminder{Titulo: p.Titulo, Descricao: p.Descricao, Importancia: p.Importancia, DataHora: p.DataHora}
	if _, err := d.store.CreateReminder(reminder); err != nil {
		return d.failed(KindCreateReminder, fmt.Sprintf("%s Falha ao criar lembrete %q.", prefixAlerta, p.Titulo), err)
	}
	return Result{
		Kind:    KindCreateReminder,
		Outcome: OutcomeApplied,
		Message: fmt.Sprintf("%s Lembrete %q criado.", prefixLyra, p.Titulo),
	}
}

func (d *Dispatcher) createProject(p CreateProjectPayload) Result {
	dup, err := isDuplicateProject(d.store, p.Titulo)
	if err != nil {
		return d.failed(KindCreateProject, fmt.Sprintf("%s Falha ao criar projeto %q.", prefixAlerta, p.Titulo), err)
	}
	if dup {
		return Result{
			Kind:    KindCreateProject,
			Outcome: OutcomeDuplicate,
			Message: fmt.Sprintf("%s Projeto %q ja existe.", prefixAlerta, p.Titulo),
		}
	}

	project := models.Project{Titulo: p.Titulo, Descricao: p.Descricao, Cor: p.Cor}
	if _, err := d.store.CreateProject(project); err != nil {
		return d.failed(KindCreateProject, fmt.Sprintf("%s Falha ao criar projeto %q.", prefixAlerta, p.Titulo), err)
	}
	return Result{
		Kind:    KindCreateProject,
		Outcome: OutcomeApplied,
		Message: fmt.Sprintf("%s Projeto %q criado.", prefixLyra, p.Titulo),
	}
}
