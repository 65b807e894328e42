package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	yaml "gopkg.in/yaml.v3"

	"orbis/models"
)

const (
	defaultDataFile   = "orbis.json"
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"
	checksumSuffix    = ".checksum"
)

// fileData is the single-document representation of every collection.
type fileData struct {
	Tasks     []models.Task     `json:"tasks" yaml:"tasks" toml:"tasks"`
	Habits    []models.Habit    `json:"habits" yaml:"habits" toml:"habits"`
	HabitLogs []models.HabitLog `json:"habit_logs" yaml:"habit_logs" toml:"habit_logs"`
	Finances  []models.Finance  `json:"finances" yaml:"finances" toml:"finances"`
	Reminders []models.Reminder `json:"reminders" yaml:"reminders" toml:"reminders"`
	Projects  []models.Project  `json:"projects" yaml:"projects" toml:"projects"`
}

// FileStore implements Store using a single data file. It supports JSON,
// YAML, and TOML formats and uses file-level locking so concurrent
// processes (CLI and webhook server) serialize their writes.
type FileStore struct {
	filePath string
	data     fileData
	flk      *flock.Flock
	format   string
}

// NewFileStore creates a new instance of FileStore.
// It does not initialize the store; Initialize must be called separately.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// Initialize configures the FileStore. It expects a 'dataFile' key in the
// config map; if absent it defaults to 'orbis.json' in the current
// directory. It loads existing data and establishes the file lock.
func (s *FileStore) Initialize(config map[string]string) error {
	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = defaultDataFile
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML, formatTOML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml, toml", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	if s.filePath == defaultDataFile && s.format != formatJSON {
		s.filePath = "orbis." + s.format
	}

	if dir := filepath.Dir(s.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}

	s.flk = flock.New(s.filePath + ".lock")

	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock data file for initialization: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	return s.loadDataInternal()
}

func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// loadDataInternal reads the data file, verifies its checksum, and
// unmarshals. Caller must hold the lock.
func (s *FileStore) loadDataInternal() error {
	checksumFilePath := s.filePath + checksumSuffix

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.data = fileData{}
			_ = os.Remove(checksumFilePath)
			f, createErr := os.OpenFile(s.filePath, os.O_CREATE|os.O_RDWR, 0o644)
			if createErr != nil {
				return fmt.Errorf("failed to create data file %s: %w", s.filePath, createErr)
			}
			_ = f.Close()
			_ = os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644)
			return nil
		}
		return fmt.Errorf("failed to read data file %s: %w", s.filePath, err)
	}

	if _, err := os.Stat(checksumFilePath); err == nil {
		expected, readErr := os.ReadFile(checksumFilePath)
		if readErr != nil {
			return fmt.Errorf("failed to read checksum file %s: %w", checksumFilePath, readErr)
		}
		if actual := calculateChecksum(data); actual != strings.TrimSpace(string(expected)) {
			return fmt.Errorf("checksum mismatch for %s - file is corrupt or tampered", s.filePath)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking checksum file %s: %w", checksumFilePath, err)
	}

	if len(data) == 0 {
		s.data = fileData{}
		return nil
	}

	var doc fileData
	switch s.format {
	case formatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from %s: %w", s.filePath, err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from %s: %w", s.filePath, err)
		}
	case formatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal TOML from %s: %w", s.filePath, err)
		}
	default:
		return fmt.Errorf("unsupported data format for loading: %s", s.format)
	}

	s.data = doc
	return nil
}

// saveDataInternal writes the document and its checksum atomically.
// Caller must hold the lock.
func (s *FileStore) saveDataInternal() error {
	var marshaled []byte
	var err error

	switch s.format {
	case formatJSON:
		marshaled, err = json.MarshalIndent(s.data, "", "  ")
	case formatYAML:
		marshaled, err = yaml.Marshal(s.data)
	case formatTOML:
		buf := new(bytes.Buffer)
		if encodeErr := toml.NewEncoder(buf).Encode(s.data); encodeErr == nil {
			marshaled = buf.Bytes()
		} else {
			err = fmt.Errorf("failed to marshal TOML: %w", encodeErr)
		}
	default:
		return fmt.Errorf("unsupported data format for saving: %s", s.format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal data to %s: %w", s.format, err)
	}

	tempFilePath := s.filePath + ".tmp"
	checksumFilePath := s.filePath + checksumSuffix
	tempChecksumFilePath := checksumFilePath + ".tmp"

	defer func() { _ = os.Remove(tempFilePath) }()
	defer func() { _ = os.Remove(tempChecksumFilePath) }()

	if err := os.WriteFile(tempFilePath, marshaled, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary data file %s: %w", tempFilePath, err)
	}
	if err := os.WriteFile(tempChecksumFilePath, []byte(calculateChecksum(marshaled)), 0o644); err != nil {
		return fmt.Errorf("failed to write temporary checksum file %s: %w", tempChecksumFilePath, err)
	}
	if err := os.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temporary data file to %s: %w", s.filePath, err)
	}
	if err := os.Rename(tempChecksumFilePath, checksumFilePath); err != nil {
		return fmt.Errorf("data file %s updated, but failed to update checksum file %s: %w - store may be inconsistent", s.filePath, checksumFilePath, err)
	}
	return nil
}

// generateID creates a new universally unique identifier string.
func generateID() string {
	return uuid.NewString()
}

// withWrite serializes a mutation: lock, reload, mutate, save.
func (s *FileStore) withWrite(mutate func() error) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock file for write: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadDataInternal(); err != nil {
		return fmt.Errorf("failed to reload data before write: %w", err)
	}
	if err := mutate(); err != nil {
		return err
	}
	return s.saveDataInternal()
}

// withRead reloads under a shared lock and runs the reader.
func (s *FileStore) withRead(read func() error) error {
	if err := s.flk.RLock(); err != nil {
		return fmt.Errorf("could not lock file for read: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadDataInternal(); err != nil {
		return fmt.Errorf("failed to reload data before read: %w", err)
	}
	return read()
}

// --- Tasks ---

// CreateTask adds a new task, generating its ID and timestamps.
func (s *FileStore) CreateTask(task models.Task) (models.Task, error) {
	err := s.withWrite(func() error {
		if task.ID == "" {
			task.ID = generateID()
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
			return fmt.Errorf("validation failed for new task: %w", err)
		}
		s.data.Tasks = append(s.data.Tasks, task)
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// ListPendingTasks returns every task that is not yet concluded, ordered
// by deadline (undated tasks last) then creation time.
func (s *FileStore) ListPendingTasks() ([]models.Task, error) {
	var out []models.Task
	err := s.withRead(func() error {
		for _, t := range s.data.Tasks {
			if t.Status != models.StatusConcluida {
				out = append(out, t)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DataPrazo, out[j].DataPrazo
			if a != b {
				if a == "" {
					return false
				}
				if b == "" {
					return true
				}
				return a < b
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
		return nil
	})
	return out, err
}

// FindTasksByTitle matches pending tasks by folded substring. The result
// is ordered by CreatedAt ascending; the earliest-created match wins any
// tie. At most 5 candidates are returned.
func (s *FileStore) FindTasksByTitle(term string) ([]models.Task, error) {
	var out []models.Task
	err := s.withRead(func() error {
		for _, t := range s.data.Tasks {
			if t.Status == models.StatusConcluida {
				continue
			}
			if foldContains(t.Titulo, term) {
				out = append(out, t)
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
		if len(out) > taskMatchLimit {
			out = out[:taskMatchLimit]
		}
		return nil
	})
	return out, err
}

// CompleteTask marks the task as concluded and stamps DoneAt.
func (s *FileStore) CompleteTask(id string) (models.Task, error) {
	var done models.Task
	err := s.withWrite(func() error {
		for i := range s.data.Tasks {
			if s.data.Tasks[i].ID == id {
				now := time.Now().UTC()
				s.data.Tasks[i].Status = models.StatusConcluida
				s.data.Tasks[i].UpdatedAt = now
				s.data.Tasks[i].DoneAt = &now
				done = s.data.Tasks[i]
				return nil
			}
		}
		return ErrTaskNotFound
	})
	if err != nil {
		return models.Task{}, err
	}
	return done, nil
}

// --- Habits ---

// CreateHabit adds a new habit, filling icon and monthly goal defaults.
func (s *FileStore) CreateHabit(habit models.Habit) (models.Habit, error) {
	err := s.withWrite(func() error {
		if habit.ID == "" {
			habit.ID = generateID()
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
			return fmt.Errorf("validation failed for new habit: %w", err)
		}
		s.data.Habits = append(s.data.Habits, habit)
		return nil
	})
	if err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// ListHabits returns all habits ordered by creation time.
func (s *FileStore) ListHabits() ([]models.Habit, error) {
	var out []models.Habit
	err := s.withRead(func() error {
		out = append(out, s.data.Habits...)
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
		return nil
	})
	return out, err
}

// ListHabitStatuses decorates each habit with its done-today flag and the
// log count for the month containing 'today' (YYYY-MM-DD).
func (s *FileStore) ListHabitStatuses(today string) ([]models.HabitStatus, error) {
	var out []models.HabitStatus
	month := today
	if len(today) >= 7 {
		month = today[:7]
	}
	err := s.withRead(func() error {
		for _, h := range s.data.Habits {
			st := models.HabitStatus{Habit: h}
			for _, l := range s.data.HabitLogs {
				if l.HabitID != h.ID {
					continue
				}
				if l.Date == today {
					st.DoneToday = true
				}
				if strings.HasPrefix(l.Date, month) {
					st.ThisMonth++
				}
			}
			out = append(out, st)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
		return nil
	})
	return out, err
}

// FindHabitsByTitle matches habits by folded substring, earliest created
// first, at most 3 candidates.
func (s *FileStore) FindHabitsByTitle(term string) ([]models.Habit, error) {
	var out []models.Habit
	err := s.withRead(func() error {
		for _, h := range s.data.Habits {
			if foldContains(h.Titulo, term) {
				out = append(out, h)
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
		if len(out) > habitMatchLimit {
			out = out[:habitMatchLimit]
		}
		return nil
	})
	return out, err
}

// IsHabitLogged reports whether a log exists for the habit on the date.
func (s *FileStore) IsHabitLogged(habitID, date string) (bool, error) {
	var logged bool
	err := s.withRead(func() error {
		for _, l := range s.data.HabitLogs {
			if l.HabitID == habitID && l.Date == date {
				logged = true
				return nil
			}
		}
		return nil
	})
	return logged, err
}

// LogHabit inserts a log entry for the habit on the date. It returns
// ErrHabitAlreadyLogged if one already exists, and ErrHabitNotFound if
// the habit ID is unknown.
func (s *FileStore) LogHabit(habitID, date string) (models.HabitLog, error) {
	var entry models.HabitLog
	err := s.withWrite(func() error {
		found := false
		for _, h := range s.data.Habits {
			if h.ID == habitID {
				found = true
				break
			}
		}
		if !found {
			return ErrHabitNotFound
		}
		for _, l := range s.data.HabitLogs {
			if l.HabitID == habitID && l.Date == date {
				return ErrHabitAlreadyLogged
			}
		}
		entry = models.HabitLog{ID: generateID(), HabitID: habitID, Date: date}
		if err := models.ValidateStruct(entry); err != nil {
			return fmt.Errorf("validation failed for habit log: %w", err)
		}
		s.data.HabitLogs = append(s.data.HabitLogs, entry)
		return nil
	})
	if err != nil {
		return models.HabitLog{}, err
	}
	return entry, nil
}

// --- Finances ---

// CreateFinance inserts a ledger entry, coercing valor to its absolute
// value and defaulting categoria and data. The sign lives in Tipo.
func (s *FileStore) CreateFinance(entry models.Finance) (models.Finance, error) {
	err := s.withWrite(func() error {
		if entry.ID == "" {
			entry.ID = generateID()
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
			return fmt.Errorf("validation failed for new finance entry: %w", err)
		}
		s.data.Finances = append(s.data.Finances, entry)
		return nil
	})
	if err != nil {
		return models.Finance{}, err
	}
	return entry, nil
}

// ListFinancesSince returns entries dated on or after the given ISO date,
// most recent first.
func (s *FileStore) ListFinancesSince(date string) ([]models.Finance, error) {
	var out []models.Finance
	err := s.withRead(func() error {
		for _, f := range s.data.Finances {
			if f.Data >= date {
				out = append(out, f)
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Data > out[j].Data })
		return nil
	})
	return out, err
}

// --- Reminders ---

// CreateReminder inserts a reminder with medium importance by default.
func (s *FileStore) CreateReminder(reminder models.Reminder) (models.Reminder, error) {
	err := s.withWrite(func() error {
		if reminder.ID == "" {
			reminder.ID = generateID()
		}
		now := time.Now().UTC()
		reminder.CreatedAt = now
		reminder.UpdatedAt = now
		if reminder.Importancia == "" {
			reminder.Importancia = models.PriorityMedia
		}
		if err := models.ValidateStruct(reminder); err != nil {
			return fmt.Errorf("validation failed for new reminder: %w", err)
		}
		s.data.Reminders = append(s.data.Reminders, reminder)
		return nil
	})
	if err != nil {
		return models.Reminder{}, err
	}
	return reminder, nil
}

// ListReminders returns reminders ordered by their datetime, undated last.
func (s *FileStore) ListReminders() ([]models.Reminder, error) {
	var out []models.Reminder
	err := s.withRead(func() error {
		out = append(out, s.data.Reminders...)
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DataHora, out[j].DataHora
			if a != b {
				if a == "" {
					return false
				}
				if b == "" {
					return true
				}
				return a < b
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
		return nil
	})
	return out, err
}

// --- Projects ---

// CreateProject inserts an active project with the default accent color.
func (s *FileStore) CreateProject(project models.Project) (models.Project, error) {
	err := s.withWrite(func() error {
		if project.ID == "" {
			project.ID = generateID()
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
			return fmt.Errorf("validation failed for new project: %w", err)
		}
		s.data.Projects = append(s.data.Projects, project)
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// ListActiveProjects returns projects with status ativo.
func (s *FileStore) ListActiveProjects() ([]models.Project, error) {
	var out []models.Project
	err := s.withRead(func() error {
		for _, p := range s.data.Projects {
			if p.Status == models.ProjectAtivo {
				out = append(out, p)
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
		return nil
	})
	return out, err
}

// Backup copies the current data file to the destination path.
func (s *FileStore) Backup(destinationPath string) error {
	if err := s.flk.RLock(); err != nil {
		return fmt.Errorf("could not lock file for backup: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read data file for backup: %w", err)
	}
	if dir := filepath.Dir(destinationPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}
	}
	if err := os.WriteFile(destinationPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup file %s: %w", destinationPath, err)
	}
	return nil
}

// Close releases the file lock.
func (s *FileStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
