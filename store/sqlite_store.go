package store

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"orbis/models"
)

// SQLiteStore implements Store using SQLite for persistence. Fuzzy title
// matching is done in Go (accent folding) rather than SQL LIKE, so both
// backends share the same match and tie-break semantics.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite-backed store.
// It does not open the database; Initialize must be called separately.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Initialize opens (or creates) the database at config["dataFile"] and
// applies the schema. ":memory:" is accepted for tests.
func (s *SQLiteStore) Initialize(config map[string]string) error {
	dbPath := config[dataFileKey]
	if dbPath == "" {
		dbPath = "orbis.db"
	}
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create data directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("enable foreign keys: %w", err)
	}

	s.db = db
	s.dbPath = dbPath

	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		titulo TEXT NOT NULL,
		descricao TEXT DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pendente',
		prioridade TEXT NOT NULL DEFAULT 'media',
		data_prazo TEXT DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		done_at TEXT
	);

	CREATE TABLE IF NOT EXISTS habits (
		id TEXT PRIMARY KEY,
		titulo TEXT NOT NULL,
		descricao TEXT DEFAULT '',
		icone TEXT DEFAULT '✨',
		meta_mensal INTEGER DEFAULT 30,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS habit_logs (
		id TEXT PRIMARY KEY,
		habit_id TEXT NOT NULL,
		date TEXT NOT NULL,
		FOREIGN KEY (habit_id) REFERENCES habits(id) ON DELETE CASCADE,
		UNIQUE(habit_id, date)
	);

	CREATE TABLE IF NOT EXISTS finances (
		id TEXT PRIMARY KEY,
		descricao TEXT NOT NULL,
		valor REAL NOT NULL,
		tipo TEXT NOT NULL DEFAULT 'despesa',
		categoria TEXT NOT NULL DEFAULT 'outros',
		data TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reminders (
		id TEXT PRIMARY KEY,
		titulo TEXT NOT NULL,
		descricao TEXT DEFAULT '',
		importancia TEXT NOT NULL DEFAULT 'media',
		data_hora TEXT DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		titulo TEXT NOT NULL,
		descricao TEXT DEFAULT '',
		cor TEXT NOT NULL DEFAULT '#06b6d4',
		status TEXT NOT NULL DEFAULT 'ativo',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	CREATE INDEX IF NOT EXISTS idx_habit_logs_habit ON habit_logs(habit_id);
	CREATE INDEX IF NOT EXISTS idx_finances_data ON finances(data);
	`
	_, err := s.db.Exec(schema)
	return err
}

const sqliteTimeLayout = time.RFC3339Nano

func fmtTime(t time.Time) string { return t.UTC().Format(sqliteTimeLayout) }

func parseTime(s string) time.Time {
	t, _ := time.Parse(sqliteTimeLayout, s)
	return t
}

// --- Tasks ---

func (s *SQLiteStore) CreateTask(task models.Task) (models.Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Status == "" {
		task.Status = models.StatusPendente
	}
	if task.Prioridade == "" {
		task.Prioridade = models.PriorityMedia
	}
	if err := models.ValidateStruct(task); err != nil {
		return models.Task{}, fmt.Errorf("validation failed for new task: %w", err)
	}
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, titulo, descricao, status, prioridade, data_prazo, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Titulo, task.Descricao, string(task.Status), string(task.Prioridade), task.DataPrazo, fmtTime(task.CreatedAt), fmtTime(task.UpdatedAt),
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	var out []models.Task
	for rows.Next() {
		var t models.Task
		var createdAt, updatedAt string
		var doneAt sql.NullString
		if err := rows.Scan(&t.ID, &t.Titulo, &t.Descricao, &t.Status, &t.Prioridade, &t.DataPrazo, &createdAt, &updatedAt, &doneAt); err != nil {
			return nil, err
		}
		t.CreatedAt = parseTime(createdAt)
		t.UpdatedAt = parseTime(updatedAt)
		if doneAt.Valid && doneAt.String != "" {
			d := parseTime(doneAt.String)
			t.DoneAt = &d
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const taskColumns = "id, titulo, descricao, status, prioridade, data_prazo, created_at, updated_at, done_at"

func (s *SQLiteStore) ListPendingTasks() ([]models.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskColumns+` FROM tasks WHERE status != ?
		 ORDER BY CASE WHEN data_prazo = '' THEN 1 ELSE 0 END, data_prazo, created_at`,
		string(models.StatusConcluida),
	)
	if err != nil {
		return nil, fmt.Errorf("list pending tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanTasks(rows)
}

// FindTasksByTitle matches pending tasks by folded substring, earliest
// created first, at most 5 candidates.
func (s *SQLiteStore) FindTasksByTitle(term string) ([]models.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskColumns+` FROM tasks WHERE status != ? ORDER BY created_at`,
		string(models.StatusConcluida),
	)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	all, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}
	var out []models.Task
	for _, t := range all {
		if foldContains(t.Titulo, term) {
			out = append(out, t)
			if len(out) == taskMatchLimit {
				break
			}
		}
	}
	return out, nil
}

func (s *SQLiteStore) CompleteTask(id string) (models.Task, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(
		`UPDATE tasks SET status = ?, updated_at = ?, done_at = ? WHERE id = ?`,
		string(models.StatusConcluida), fmtTime(now), fmtTime(now), id,
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("complete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Task{}, ErrTaskNotFound
	}

	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	var t models.Task
	var createdAt, updatedAt string
	var doneAt sql.NullString
	if err := row.Scan(&t.ID, &t.Titulo, &t.Descricao, &t.Status, &t.Prioridade, &t.DataPrazo, &createdAt, &updatedAt, &doneAt); err != nil {
		return models.Task{}, fmt.Errorf("reload completed task: %w", err)
	}
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	if doneAt.Valid && doneAt.String != "" {
		d := parseTime(doneAt.String)
		t.DoneAt = &d
	}
	return t, nil
}

// --- Habits ---

func (s *SQLiteStore) CreateHabit(habit models.Habit) (models.Habit, error) {
	if habit.ID == "" {
		habit.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	habit.CreatedAt = now
	habit.UpdatedAt = now
	if habit.Icone == "" {
		habit.Icone = models.DefaultHabitIcon
	}
	if habit.MetaMensal == 0 {
		habit.MetaMensal = models.DefaultMetaMensal
	}
	if err := models.ValidateStruct(habit); err != nil {
		return models.Habit{}, fmt.Errorf("validation failed for new habit: %w", err)
	}
	_, err := s.db.Exec(
		`INSERT INTO habits (id, titulo, descricao, icone, meta_mensal, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Titulo, habit.Descricao, habit.Icone, habit.MetaMensal, fmtTime(habit.CreatedAt), fmtTime(habit.UpdatedAt),
	)
	if err != nil {
		return models.Habit{}, fmt.Errorf("insert habit: %w", err)
	}
	return habit, nil
}

func scanHabits(rows *sql.Rows) ([]models.Habit, error) {
	var out []models.Habit
	for rows.Next() {
		var h models.Habit
		var createdAt, updatedAt string
		if err := rows.Scan(&h.ID, &h.Titulo, &h.Descricao, &h.Icone, &h.MetaMensal, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		h.CreatedAt = parseTime(createdAt)
		h.UpdatedAt = parseTime(updatedAt)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListHabits() ([]models.Habit, error) {
	rows, err := s.db.Query(`SELECT id, titulo, descricao, icone, meta_mensal, created_at, updated_at FROM habits ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanHabits(rows)
}

func (s *SQLiteStore) ListHabitStatuses(today string) ([]models.HabitStatus, error) {
	habits, err := s.ListHabits()
	if err != nil {
		return nil, err
	}
	month := today
	if len(today) >= 7 {
		month = today[:7]
	}
	out := make([]models.HabitStatus, 0, len(habits))
	for _, h := range habits {
		st := models.HabitStatus{Habit: h}
		row := s.db.QueryRow(
			`SELECT COUNT(*), COALESCE(SUM(CASE WHEN date = ? THEN 1 ELSE 0 END), 0)
			 FROM habit_logs WHERE habit_id = ? AND date LIKE ?`,
			today, h.ID, month+"%",
		)
		var doneToday int
		if err := row.Scan(&st.ThisMonth, &doneToday); err != nil {
			return nil, fmt.Errorf("habit log counts: %w", err)
		}
		st.DoneToday = doneToday > 0
		out = append(out, st)
	}
	return out, nil
}

// FindHabitsByTitle matches habits by folded substring, earliest created
// first, at most 3 candidates.
func (s *SQLiteStore) FindHabitsByTitle(term string) ([]models.Habit, error) {
	all, err := s.ListHabits()
	if err != nil {
		return nil, err
	}
	var out []models.Habit
	for _, h := range all {
		if foldContains(h.Titulo, term) {
			out = append(out, h)
			if len(out) == habitMatchLimit {
				break
			}
		}
	}
	return out, nil
}

func (s *SQLiteStore) IsHabitLogged(habitID, date string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM habit_logs WHERE habit_id = ? AND date = ?`, habitID, date).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check habit log: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) LogHabit(habitID, date string) (models.HabitLog, error) {
	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM habits WHERE id = ?`, habitID).Scan(&exists); err != nil {
		return models.HabitLog{}, fmt.Errorf("check habit: %w", err)
	}
	if exists == 0 {
		return models.HabitLog{}, ErrHabitNotFound
	}
	logged, err := s.IsHabitLogged(habitID, date)
	if err != nil {
		return models.HabitLog{}, err
	}
	if logged {
		return models.HabitLog{}, ErrHabitAlreadyLogged
	}
	entry := models.HabitLog{ID: uuid.NewString(), HabitID: habitID, Date: date}
	if _, err := s.db.Exec(
		`INSERT INTO habit_logs (id, habit_id, date) VALUES (?, ?, ?)`,
		entry.ID, entry.HabitID, entry.Date,
	); err != nil {
		return models.HabitLog{}, fmt.Errorf("insert habit log: %w", err)
	}
	return entry, nil
}

// --- Finances ---

func (s *SQLiteStore) CreateFinance(entry models.Finance) (models.Finance, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	entry.Valor = math.Abs(entry.Valor)
	if entry.Categoria == "" {
		entry.Categoria = models.DefaultCategoria
	}
	if entry.Data == "" {
		entry.Data = now.Format(models.DateLayout)
	}
	if entry.Tipo != models.TipoReceita {
		entry.Tipo = models.TipoDespesa
	}
	if err := models.ValidateStruct(entry); err != nil {
		return models.Finance{}, fmt.Errorf("validation failed for new finance entry: %w", err)
	}
	_, err := s.db.Exec(
		`INSERT INTO finances (id, descricao, valor, tipo, categoria, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Descricao, entry.Valor, string(entry.Tipo), entry.Categoria, entry.Data, fmtTime(entry.CreatedAt), fmtTime(entry.UpdatedAt),
	)
	if err != nil {
		return models.Finance{}, fmt.Errorf("insert finance entry: %w", err)
	}
	return entry, nil
}

func (s *SQLiteStore) ListFinancesSince(date string) ([]models.Finance, error) {
	rows, err := s.db.Query(
		`SELECT id, descricao, valor, tipo, categoria, data, created_at, updated_at FROM finances WHERE data >= ? ORDER BY data DESC`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("list finances: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Finance
	for rows.Next() {
		var f models.Finance
		var createdAt, updatedAt string
		if err := rows.Scan(&f.ID, &f.Descricao, &f.Valor, &f.Tipo, &f.Categoria, &f.Data, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		f.CreatedAt = parseTime(createdAt)
		f.UpdatedAt = parseTime(updatedAt)
		out = append(out, f)
	}
	return out, rows.Err()
}

// --- Reminders ---

func (s *SQLiteStore) CreateReminder(reminder models.Reminder) (models.Reminder, error) {
	if reminder.ID == "" {
		reminder.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now
	if reminder.Importancia == "" {
		reminder.Importancia = models.PriorityMedia
	}
	if err := models.ValidateStruct(reminder); err != nil {
		return models.Reminder{}, fmt.Errorf("validation failed for new reminder: %w", err)
	}
	_, err := s.db.Exec(
		`INSERT INTO reminders (id, titulo, descricao, importancia, data_hora, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reminder.ID, reminder.Titulo, reminder.Descricao, string(reminder.Importancia), reminder.DataHora, fmtTime(reminder.CreatedAt), fmtTime(reminder.UpdatedAt),
	)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("insert reminder: %w", err)
	}
	return reminder, nil
}

func (s *SQLiteStore) ListReminders() ([]models.Reminder, error) {
	rows, err := s.db.Query(
		`SELECT id, titulo, descricao, importancia, data_hora, created_at, updated_at FROM reminders
		 ORDER BY CASE WHEN data_hora = '' THEN 1 ELSE 0 END, data_hora, created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Reminder
	for rows.Next() {
		var r models.Reminder
		var createdAt, updatedAt string
		if err := rows.Scan(&r.ID, &r.Titulo, &r.Descricao, &r.Importancia, &r.DataHora, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		r.CreatedAt = parseTime(createdAt)
		r.UpdatedAt = parseTime(updatedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- Projects ---

func (s *SQLiteStore) CreateProject(project models.Project) (models.Project, error) {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Cor == "" {
		project.Cor = models.DefaultProjectColor
	}
	if project.Status == "" {
		project.Status = models.ProjectAtivo
	}
	if err := models.ValidateStruct(project); err != nil {
		return models.Project{}, fmt.Errorf("validation failed for new project: %w", err)
	}
	_, err := s.db.Exec(
		`INSERT INTO projects (id, titulo, descricao, cor, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Titulo, project.Descricao, project.Cor, string(project.Status), fmtTime(project.CreatedAt), fmtTime(project.UpdatedAt),
	)
	if err != nil {
		return models.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return project, nil
}

func (s *SQLiteStore) ListActiveProjects() ([]models.Project, error) {
	rows, err := s.db.Query(
		`SELECT id, titulo, descricao, cor, status, created_at, updated_at FROM projects WHERE status = ? ORDER BY created_at`,
		string(models.ProjectAtivo),
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Project
	for rows.Next() {
		var p models.Project
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Titulo, &p.Descricao, &p.Cor, &p.Status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = parseTime(createdAt)
		p.UpdatedAt = parseTime(updatedAt)
		out = append(out, p)
	}
	return out, rows.Err()
}

// Backup writes a consistent snapshot of the database to the destination.
func (s *SQLiteStore) Backup(destinationPath string) error {
	if s.dbPath == ":memory:" {
		return fmt.Errorf("cannot back up an in-memory database")
	}
	if dir := filepath.Dir(destinationPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create backup directory: %w", err)
		}
	}
	_ = os.Remove(destinationPath) // VACUUM INTO refuses to overwrite
	if _, err := s.db.Exec(`VACUUM INTO ?`, destinationPath); err != nil {
		return fmt.Errorf("backup database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
