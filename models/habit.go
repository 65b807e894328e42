package models

import "time"

// DateLayout is the ISO date format used for habit logs and finance dates.
const DateLayout = "2006-01-02"

const (
	DefaultHabitIcon  = "✨"
	DefaultMetaMensal = 30
)

// Habit is a recurring activity tracked by daily log entries.
type Habit struct {
	ID         string    `json:"id" validate:"required,uuid4"`
	Titulo     string    `json:"titulo" validate:"required,min=1,max=255"`
	Descricao  string    `json:"descricao,omitempty"`
	Icone      string    `json:"icone,omitempty"`
	MetaMensal int       `json:"meta_mensal" validate:"min=0"`
	CreatedAt  time.Time `json:"created_at" validate:"required"`
	UpdatedAt  time.Time `json:"updated_at" validate:"required"`
}

// HabitLog records that a habit was done on a given date.
// At most one log exists per (HabitID, Date) pair.
type HabitLog struct {
	ID      string `json:"id" validate:"required,uuid4"`
	HabitID string `json:"habit_id" validate:"required,uuid4"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
}

// HabitStatus is a habit decorated with its log summary for display.
type HabitStatus struct {
	Habit
	DoneToday bool `json:"done_today"`
	ThisMonth int  `json:"this_month"`
}

// NewHabit builds a habit with display defaults applied.
func NewHabit(id, titulo string) *Habit {
	now := time.Now()
	return &Habit{
		ID:         id,
		Titulo:     titulo,
		Icone:      DefaultHabitIcon,
		MetaMensal: DefaultMetaMensal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
