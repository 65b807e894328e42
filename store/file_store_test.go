package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"orbis/models"
)

func setupTestStore(t *testing.T) *FileStore {
	t.Helper()

	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "orbis.json")

	store := NewFileStore()
	config := map[string]string{
		"dataFile":       filePath,
		"dataFileFormat": "json",
	}

	err := store.Initialize(config)
	if err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}

	return store
}

func TestFileStore_TaskLifecycle(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	created, err := store.CreateTask(models.Task{Titulo: "Pagar conta"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if created.ID == "" {
		t.Error("Created task should have an ID")
	}
	if created.Status != models.StatusPendente {
		t.Errorf("Status default: got %q, want %q", created.Status, models.StatusPendente)
	}
	if created.Prioridade != models.PriorityMedia {
		t.Errorf("Prioridade default: got %q, want %q", created.Prioridade, models.PriorityMedia)
	}

	pending, err := store.ListPendingTasks()
	if err != nil {
		t.Fatalf("ListPendingTasks failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("Expected 1 pending task, got %d", len(pending))
	}

	done, err := store.CompleteTask(created.ID)
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if done.Status != models.StatusConcluida {
		t.Errorf("Status after complete: got %q, want %q", done.Status, models.StatusConcluida)
	}
	if done.DoneAt == nil {
		t.Error("DoneAt should be stamped on completion")
	}

	pending, err = store.ListPendingTasks()
	if err != nil {
		t.Fatalf("ListPendingTasks failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected no pending tasks, got %d", len(pending))
	}

	if _, err := store.CompleteTask("missing-id"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestFileStore_ListPendingOrder(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	// Undated tasks sort after dated ones, earlier deadlines first.
	if _, err := store.CreateTask(models.Task{Titulo: "Sem prazo"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateTask(models.Task{Titulo: "Depois", DataPrazo: "2026-09-20"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateTask(models.Task{Titulo: "Antes", DataPrazo: "2026-09-01"}); err != nil {
		t.Fatal(err)
	}

	pending, err := store.ListPendingTasks()
	if err != nil {
		t.Fatal(err)
	}
	got := []string{pending[0].Titulo, pending[1].Titulo, pending[2].Titulo}
	want := []string{"Antes", "Depois", "Sem prazo"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Order mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}

func TestFileStore_FindTasksByTitle(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	first, err := store.CreateTask(models.Task{Titulo: "Enviar relatório mensal"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateTask(models.Task{Titulo: "Revisar relatorio anual"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateTask(models.Task{Titulo: "Comprar presente"}); err != nil {
		t.Fatal(err)
	}

	// Accent-folded, case-insensitive substring match.
	matches, err := store.FindTasksByTitle("RELATORIO")
	if err != nil {
		t.Fatalf("FindTasksByTitle failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(matches))
	}
	if matches[0].ID != first.ID {
		t.Errorf("Earliest-created match should come first, got %q", matches[0].Titulo)
	}

	// Completed tasks never match.
	if _, err := store.CompleteTask(first.ID); err != nil {
		t.Fatal(err)
	}
	matches, err = store.FindTasksByTitle("relatorio")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match after completion, got %d", len(matches))
	}
}

func TestFileStore_FindTasksByTitleCap(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	for i := 0; i < 8; i++ {
		if _, err := store.CreateTask(models.Task{Titulo: "Estudar Go"}); err != nil {
			t.Fatal(err)
		}
	}

	matches, err := store.FindTasksByTitle("estudar")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 5 {
		t.Errorf("Expected match cap of 5, got %d", len(matches))
	}
}

func TestFileStore_HabitLogging(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	habit, err := store.CreateHabit(models.Habit{Titulo: "Corrida matinal"})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if habit.Icone != models.DefaultHabitIcon {
		t.Errorf("Icone default: got %q, want %q", habit.Icone, models.DefaultHabitIcon)
	}
	if habit.MetaMensal != models.DefaultMetaMensal {
		t.Errorf("MetaMensal default: got %d, want %d", habit.MetaMensal, models.DefaultMetaMensal)
	}

	const today = "2026-08-29"
	if _, err := store.LogHabit(habit.ID, today); err != nil {
		t.Fatalf("LogHabit failed: %v", err)
	}

	logged, err := store.IsHabitLogged(habit.ID, today)
	if err != nil {
		t.Fatal(err)
	}
	if !logged {
		t.Error("IsHabitLogged should report true after logging")
	}

	// Second log for the same day is rejected.
	if _, err := store.LogHabit(habit.ID, today); !errors.Is(err, ErrHabitAlreadyLogged) {
		t.Errorf("Expected ErrHabitAlreadyLogged, got %v", err)
	}

	// A different day is fine.
	if _, err := store.LogHabit(habit.ID, "2026-08-30"); err != nil {
		t.Fatalf("LogHabit next day failed: %v", err)
	}

	statuses, err := store.ListHabitStatuses(today)
	if err != nil {
		t.Fatalf("ListHabitStatuses failed: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("Expected 1 habit status, got %d", len(statuses))
	}
	if !statuses[0].DoneToday {
		t.Error("DoneToday should be true")
	}
	if statuses[0].ThisMonth != 2 {
		t.Errorf("ThisMonth: got %d, want 2", statuses[0].ThisMonth)
	}

	if _, err := store.LogHabit("missing-id", today); !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("Expected ErrHabitNotFound, got %v", err)
	}
}

func TestFileStore_FinancesSince(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	if _, err := store.CreateFinance(models.Finance{Descricao: "Uber", Valor: 23.5, Tipo: models.TipoDespesa, Data: "2026-08-10"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateFinance(models.Finance{Descricao: "Salario", Valor: 5000, Tipo: models.TipoReceita, Data: "2026-08-01"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateFinance(models.Finance{Descricao: "Antigo", Valor: 10, Tipo: models.TipoDespesa, Data: "2026-06-01"}); err != nil {
		t.Fatal(err)
	}

	entries, err := store.ListFinancesSince("2026-07-30")
	if err != nil {
		t.Fatalf("ListFinancesSince failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries in window, got %d", len(entries))
	}
	// Newest first.
	if entries[0].Descricao != "Uber" {
		t.Errorf("Expected newest entry first, got %q", entries[0].Descricao)
	}

	// Tipo other than receita is coerced to despesa, categoria defaulted.
	coerced, err := store.CreateFinance(models.Finance{Descricao: "Cafe", Valor: 8, Tipo: "investimento", Data: "2026-08-12"})
	if err != nil {
		t.Fatal(err)
	}
	if coerced.Tipo != models.TipoDespesa {
		t.Errorf("Tipo coercion: got %q, want %q", coerced.Tipo, models.TipoDespesa)
	}
	if coerced.Categoria != models.DefaultCategoria {
		t.Errorf("Categoria default: got %q, want %q", coerced.Categoria, models.DefaultCategoria)
	}
}

func TestFileStore_CreateFinanceNegativeValor(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	// The sign lives in Tipo; a negative valor stores its magnitude.
	created, err := store.CreateFinance(models.Finance{Descricao: "Uber", Valor: -50, Tipo: models.TipoDespesa})
	if err != nil {
		t.Fatalf("CreateFinance with negative valor failed: %v", err)
	}
	if created.Valor != 50 {
		t.Errorf("Valor: got %v, want 50", created.Valor)
	}
}

func TestFileStore_RemindersAndProjects(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	reminder, err := store.CreateReminder(models.Reminder{Titulo: "Consulta medica", DataHora: "2026-09-02 14:30"})
	if err != nil {
		t.Fatalf("CreateReminder failed: %v", err)
	}
	if reminder.Importancia != models.PriorityMedia {
		t.Errorf("Importancia default: got %q, want %q", reminder.Importancia, models.PriorityMedia)
	}

	reminders, err := store.ListReminders()
	if err != nil {
		t.Fatal(err)
	}
	if len(reminders) != 1 {
		t.Fatalf("Expected 1 reminder, got %d", len(reminders))
	}

	project, err := store.CreateProject(models.Project{Titulo: "Reforma da casa"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if project.Cor == "" {
		t.Error("Project color should default")
	}

	projects, err := store.ListActiveProjects()
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 {
		t.Fatalf("Expected 1 active project, got %d", len(projects))
	}
}

func TestFileStore_PersistenceAcrossReopen(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "orbis.json")
	config := map[string]string{"dataFile": filePath, "dataFileFormat": "json"}

	store := NewFileStore()
	if err := store.Initialize(config); err != nil {
		t.Fatal(err)
	}
	created, err := store.CreateTask(models.Task{Titulo: "Persistir"})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := NewFileStore()
	if err := reopened.Initialize(config); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = reopened.Close() }()

	pending, err := reopened.ListPendingTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != created.ID {
		t.Fatalf("Expected persisted task %q, got %v", created.ID, pending)
	}
}

func TestFileStore_Formats(t *testing.T) {
	for _, format := range []string{"yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			tempDir := t.TempDir()
			filePath := filepath.Join(tempDir, "orbis."+format)
			config := map[string]string{"dataFile": filePath, "dataFileFormat": format}

			store := NewFileStore()
			if err := store.Initialize(config); err != nil {
				t.Fatal(err)
			}
			if _, err := store.CreateTask(models.Task{Titulo: "Formato " + format}); err != nil {
				t.Fatal(err)
			}
			if err := store.Close(); err != nil {
				t.Fatal(err)
			}

			reopened := NewFileStore()
			if err := reopened.Initialize(config); err != nil {
				t.Fatalf("Reopen in %s failed: %v", format, err)
			}
			defer func() { _ = reopened.Close() }()

			tasks, err := reopened.ListPendingTasks()
			if err != nil {
				t.Fatal(err)
			}
			if len(tasks) != 1 {
				t.Fatalf("Expected 1 task after %s reopen, got %d", format, len(tasks))
			}
		})
	}
}

func TestFileStore_Backup(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	if _, err := store.CreateTask(models.Task{Titulo: "Backup me"}); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "backup.json")
	if err := store.Backup(dest); err != nil {
		t.Fatalf("Backup failed: %v", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("Backup file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Backup file should not be empty")
	}
}
