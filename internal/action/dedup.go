package action

import (
	"math"
	"time"

	"orbis/internal/textutil"
	"orbis/models"
	"orbis/store"
)

// financeEpsilon bounds the amount delta under which two entries are
// considered the same charge.
const financeEpsilon = 0.005

// dedupWindowDays is how far back the finance guard looks for an
// equivalent entry.
const dedupWindowDays = 30

// isDuplicateFinance reports whether an equivalent ledger entry already
// exists: same tipo, amount within epsilon, and fold-equal descricao.
// The assistant re-emits directives on retried requests; without this
// guard duplicate entries accumulate silently.
func isDuplicateFinance(st store.Store, candidate CreateFinancePayload, now time.Time) (bool, error) {
	since := now.AddDate(0, 0, -dedupWindowDays).Format(models.DateLayout)
	existing, err := st.ListFinancesSince(since)
	if err != nil {
		return false, err
	}
	for _, f := range existing {
		if f.Tipo != candidate.Tipo {
			continue
		}
		if math.Abs(f.Valor-candidate.Valor) > financeEpsilon {
			continue
		}
		if textutil.FoldEqual(f.Descricao, candidate.Descricao) {
			return true, nil
		}
	}
	return false, nil
}

// isDuplicateTask reports whether a pending task with a fold-equal title
// already exists.
func isDuplicateTask(st store.Store, titulo string) (bool, error) {
	tasks, err := st.ListPendingTasks()
	if err != nil {
		return false, err
	}
	for _, t := range tasks {
		if textutil.FoldEqual(t.Titulo, titulo) {
			return true, nil
		}
	}
	return false, nil
}

// isDuplicateHabit reports whether a habit with a fold-equal title
// already exists.
func isDuplicateHabit(st store.Store, titulo string) (bool, error) {
	habits, err := st.ListHabits()
	if err != nil {
		return false, err
	}
	for _, h := range habits {
		if textutil.FoldEqual(h.Titulo, titulo) {
			return true, nil
		}
	}
	return false, nil
}

// isDuplicateReminder reports whether a reminder with a fold-equal title
// and the same datetime already exists.
func isDuplicateReminder(st store.Store, titulo, dataHora string) (bool, error) {
	reminders, err := st.ListReminders()
	if err != nil {
		return false, err
	}
	for _, r := range reminders {
		if r.DataHora == dataHora && textutil.FoldEqual(r.Titulo, titulo) {
			return true, nil
		}
	}
	return false, nil
}

// isDuplicateProject reports whether an active project with a fold-equal
// title already exists.
func isDuplicateProject(st store.Store, titulo string) (bool, error) {
	projects, err := st.ListActiveProjects()
	if err != nil {
		return false, err
	}
	for _, p := range projects {
		if textutil.FoldEqual(p.Titulo, titulo) {
			return true, nil
		}
	}
	return false, nil
}
