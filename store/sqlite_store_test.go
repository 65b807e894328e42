package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"orbis/models"
)

func setupSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store := NewSQLiteStore()
	if err := store.Initialize(map[string]string{"dataFile": ":memory:"}); err != nil {
		t.Fatalf("Failed to initialize sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_TaskLifecycle(t *testing.T) {
	store := setupSQLiteStore(t)

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

	done, err := store.CompleteTask(created.ID)
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if done.Status != models.StatusConcluida {
		t.Errorf("Status after complete: got %q, want %q", done.Status, models.StatusConcluida)
	}

	pending, err := store.ListPendingTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected no pending tasks, got %d", len(pending))
	}

	if _, err := store.CompleteTask("missing-id"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestSQLiteStore_FindTasksByTitleFolded(t *testing.T) {
	store := setupSQLiteStore(t)

	first, err := store.CreateTask(models.Task{Titulo: "Enviar relatório mensal"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateTask(models.Task{Titulo: "Comprar presente"}); err != nil {
		t.Fatal(err)
	}

	matches, err := store.FindTasksByTitle("RELATORIO")
	if err != nil {
		t.Fatalf("FindTasksByTitle failed: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != first.ID {
		t.Fatalf("Expected the accented title to match, got %v", matches)
	}
}

func TestSQLiteStore_HabitLogUnique(t *testing.T) {
	store := setupSQLiteStore(t)

	habit, err := store.CreateHabit(models.Habit{Titulo: "Leitura"})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	const today = "2026-08-29"
	if _, err := store.LogHabit(habit.ID, today); err != nil {
		t.Fatalf("LogHabit failed: %v", err)
	}
	if _, err := store.LogHabit(habit.ID, today); !errors.Is(err, ErrHabitAlreadyLogged) {
		t.Errorf("Expected ErrHabitAlreadyLogged, got %v", err)
	}
	if _, err := store.LogHabit("missing-id", today); !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("Expected ErrHabitNotFound, got %v", err)
	}

	statuses, err := store.ListHabitStatuses(today)
	if err != nil {
		t.Fatalf("ListHabitStatuses failed: %v", err)
	}
	if len(statuses) != 1 || !statuses[0].DoneToday || statuses[0].ThisMonth != 1 {
		t.Fatalf("Unexpected habit status: %+v", statuses)
	}
}

func TestSQLiteStore_FinancesSince(t *testing.T) {
	store := setupSQLiteStore(t)

	if _, err := store.CreateFinance(models.Finance{Descricao: "Uber", Valor: 23.5, Tipo: models.TipoDespesa, Data: "2026-08-10"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateFinance(models.Finance{Descricao: "Antigo", Valor: 10, Tipo: models.TipoDespesa, Data: "2026-06-01"}); err != nil {
		t.Fatal(err)
	}

	entries, err := store.ListFinancesSince("2026-07-30")
	if err != nil {
		t.Fatalf("ListFinancesSince failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Descricao != "Uber" {
		t.Fatalf("Expected only the recent entry, got %v", entries)
	}
}

func TestSQLiteStore_CreateFinanceNegativeValor(t *testing.T) {
	store := setupSQLiteStore(t)

	created, err := store.CreateFinance(models.Finance{Descricao: "Uber", Valor: -50, Tipo: models.TipoDespesa})
	if err != nil {
		t.Fatalf("CreateFinance with negative valor failed: %v", err)
	}
	if created.Valor != 50 {
		t.Errorf("Valor: got %v, want 50", created.Valor)
	}
}

func TestSQLiteStore_BackupToFile(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "orbis.db")

	store := NewSQLiteStore()
	if err := store.Initialize(map[string]string{"dataFile": dbPath}); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = store.Close() }()

	if _, err := store.CreateTask(models.Task{Titulo: "Backup me"}); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(tempDir, "backup.db")
	if err := store.Backup(dest); err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("Backup file missing: %v", err)
	}
}

func TestSQLiteStore_BackupInMemoryRejected(t *testing.T) {
	store := setupSQLiteStore(t)
	if err := store.Backup(filepath.Join(t.TempDir(), "backup.db")); err == nil {
		t.Error("Expected error backing up an in-memory database")
	}
}
