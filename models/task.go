package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TaskStatus represents the possible statuses of a task.
type TaskStatus string

const (
	StatusPendente    TaskStatus = "pendente"
	StatusEmAndamento TaskStatus = "em-andamento"
	StatusConcluida   TaskStatus = "concluida"
)

// Priority is shared by tasks and reminders (prioridade / importancia).
type Priority string

const (
	PriorityAlta  Priority = "alta"
	PriorityMedia Priority = "media"
	PriorityBaixa Priority = "baixa"
)

// Task represents a unit of work ("missão" in the Orbis UI).
type Task struct {
	ID         string     `json:"id" validate:"required,uuid4"`
	Titulo     string     `json:"titulo" validate:"required,min=1,max=255"`
	Descricao  string     `json:"descricao,omitempty"`
	Status     TaskStatus `json:"status" validate:"required,oneof=pendente em-andamento concluida"`
	Prioridade Priority   `json:"prioridade" validate:"required,oneof=alta media baixa"`
	// DataPrazo is an ISO date (YYYY-MM-DD); empty means no deadline.
	DataPrazo string     `json:"data_prazo,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CreatedAt time.Time  `json:"created_at" validate:"required"`
	UpdatedAt time.Time  `json:"updated_at" validate:"required"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}

// NewTask builds a pending task with default priority and timestamps.
func NewTask(id, titulo string) *Task {
	now := time.Now()
	return &Task{
		ID:         id,
		Titulo:     titulo,
		Status:     StatusPendente,
		Prioridade: PriorityMedia,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
