package models

import (
	"math"
	"time"
)

// FinanceType discriminates ledger entries; amounts are always stored
// as positive magnitudes with the sign carried here.
type FinanceType string

const (
	TipoDespesa FinanceType = "despesa"
	TipoReceita FinanceType = "receita"
)

// DefaultCategoria is used when a ledger entry arrives without one.
const DefaultCategoria = "outros"

// Finance is one ledger entry (expense or income).
type Finance struct {
	ID        string      `json:"id" validate:"required,uuid4"`
	Descricao string      `json:"descricao" validate:"required,min=1,max=255"`
	Valor     float64     `json:"valor" validate:"gte=0"`
	Tipo      FinanceType `json:"tipo" validate:"required,oneof=despesa receita"`
	Categoria string      `json:"categoria" validate:"required"`
	// Data is the ISO date (YYYY-MM-DD) the entry applies to.
	Data      string    `json:"data" validate:"required,datetime=2006-01-02"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
	UpdatedAt time.Time `json:"updated_at" validate:"required"`
}

// NewFinance builds a ledger entry, coercing valor to its absolute value
// and defaulting tipo, categoria and data.
func NewFinance(id, descricao string, valor float64, tipo FinanceType) *Finance {
	if tipo != TipoReceita {
		tipo = TipoDespesa
	}
	now := time.Now()
	return &Finance{
		ID:        id,
		Descricao: descricao,
		Valor:     math.Abs(valor),
		Tipo:      tipo,
		Categoria: DefaultCategoria,
		Data:      now.Format(DateLayout),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
