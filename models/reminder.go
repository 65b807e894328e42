package models

import "time"

// Reminder is a dated note with an importance level.
type Reminder struct {
	ID          string   `json:"id" validate:"required,uuid4"`
	Titulo      string   `json:"titulo" validate:"required,min=1,max=255"`
	Descricao   string   `json:"descricao,omitempty"`
	Importancia Priority `json:"importancia" validate:"required,oneof=alta media baixa"`
	// DataHora is an ISO datetime (YYYY-MM-DDTHH:MM); empty means undated.
	DataHora  string    `json:"data_hora,omitempty"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
	UpdatedAt time.Time `json:"updated_at" validate:"required"`
}

// NewReminder builds a reminder with medium importance.
func NewReminder(id, titulo string) *Reminder {
	now := time.Now()
	return &Reminder{
		ID:          id,
		Titulo:      titulo,
		Importancia: PriorityMedia,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
