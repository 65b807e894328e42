package models

import "time"

// ProjectStatus represents the lifecycle of a project.
type ProjectStatus string

const (
	ProjectAtivo     ProjectStatus = "ativo"
	ProjectConcluido ProjectStatus = "concluido"
	ProjectPausado   ProjectStatus = "pausado"
)

// DefaultProjectColor is the accent color assigned to new projects.
const DefaultProjectColor = "#06b6d4"

// Project groups related work under a display color.
type Project struct {
	ID        string        `json:"id" validate:"required,uuid4"`
	Titulo    string        `json:"titulo" validate:"required,min=1,max=255"`
	Descricao string        `json:"descricao,omitempty"`
	Cor       string        `json:"cor" validate:"required,hexcolor"`
	Status    ProjectStatus `json:"status" validate:"required,oneof=ativo concluido pausado"`
	CreatedAt time.Time     `json:"created_at" validate:"required"`
	UpdatedAt time.Time     `json:"updated_at" validate:"required"`
}

// NewProject builds an active project with the default accent color.
func NewProject(id, titulo string) *Project {
	now := time.Now()
	return &Project{
		ID:        id,
		Titulo:    titulo,
		Cor:       DefaultProjectColor,
		Status:    ProjectAtivo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
