package action

import (
	"encoding/json"
	"math"

	"github.com/go-playground/validator/v10"

	"orbis/models"
)

// Kind enumerates the closed set of directive kinds. Matching is
// case-sensitive; anything else is dropped by Normalize.
type Kind string

const (
	KindCreateTask     Kind = "CREATE_TASK"
	KindCompleteTask   Kind = "COMPLETE_TASK"
	KindLogHabit       Kind = "LOG_HABIT"
	KindCreateFinance  Kind = "CREATE_FINANCE"
	KindCreateHabit    Kind = "CREATE_HABIT"
	KindCreateReminder Kind = "CREATE_REMINDER"
	KindCreateProject  Kind = "CREATE_PROJECT"
	KindSearchInternet Kind = "SEARCH_INTERNET"
)

// Payload is the sealed union of per-kind payload types.
type Payload interface {
	kind() Kind
}

// Directive is a validated, normalized action request.
type Directive struct {
	Kind    Kind
	Payload Payload
}

// CreateTaskPayload carries the fields of a CREATE_TASK directive.
type CreateTaskPayload struct {
	Titulo     string          `json:"titulo" validate:"required,min=1"`
	Prioridade models.Priority `json:"prioridade" validate:"required,oneof=alta media baixa"`
	DataPrazo  string          `json:"dataPrazo" validate:"omitempty,datetime=2006-01-02"`
}

func (CreateTaskPayload) kind() Kind { return KindCreateTask }

// CompleteTaskPayload names the task to complete by fuzzy title.
type CompleteTaskPayload struct {
	Titulo string `json:"titulo" validate:"required,min=1"`
}

func (CompleteTaskPayload) kind() Kind { return KindCompleteTask }

// LogHabitPayload names the habit to log for today by fuzzy title.
type LogHabitPayload struct {
	Titulo string `json:"titulo" validate:"required,min=1"`
}

func (LogHabitPayload) kind() Kind { return KindLogHabit }

// CreateFinancePayload carries the fields of a CREATE_FINANCE directive.
// Valor is normalized to its absolute value; Tipo is coerced to despesa
// unless it is exactly receita.
type CreateFinancePayload struct {
	Descricao string             `json:"descricao" validate:"required,min=1"`
	Valor     float64            `json:"valor" validate:"gte=0"`
	Tipo      models.FinanceType `json:"tipo" validate:"required,oneof=despesa receita"`
	Categoria string             `json:"categoria" validate:"required"`
	Data      string             `json:"data" validate:"omitempty,datetime=2006-01-02"`
}

func (CreateFinancePayload) kind() Kind { return KindCreateFinance }

// CreateHabitPayload carries the fields of a CREATE_HABIT directive.
type CreateHabitPayload struct {
	Titulo     string `json:"titulo" validate:"required,min=1"`
	Descricao  string `json:"descricao"`
	Icone      string `json:"icone" validate:"required"`
	MetaMensal int    `json:"metaMensal" validate:"min=0"`
}

func (CreateHabitPayload) kind() Kind { return KindCreateHabit }

// CreateReminderPayload carries the fields of a CREATE_REMINDER directive.
type CreateReminderPayload struct {
	Titulo      string          `json:"titulo" validate:"required,min=1"`
	Descricao   string          `json:"descricao"`
	Importancia models.Priority `json:"importancia" validate:"required,oneof=alta media baixa"`
	DataHora    string          `json:"dataHora"`
}

func (CreateReminderPayload) kind() Kind { return KindCreateReminder }

// CreateProjectPayload carries the fields of a CREATE_PROJECT directive.
type CreateProjectPayload struct {
	Titulo    string `json:"titulo" validate:"required,min=1"`
	Descricao string `json:"descricao"`
	Cor       string `json:"cor" validate:"required,hexcolor"`
}

func (CreateProjectPayload) kind() Kind { return KindCreateProject }

// SearchInternetPayload requests a web search; it is the one kind the
// dispatcher does not persist (the chat engine handles it).
type SearchInternetPayload struct {
	Query string `json:"query" validate:"required,min=1"`
}

func (SearchInternetPayload) kind() Kind { return KindSearchInternet }

var validate = validator.New()

// Normalize maps a raw parsed object to a typed directive. It returns
// ok=false, never an error, for unknown kinds, absent data, payloads
// that fail JSON decoding, or payloads that fail validation after
// defaults are applied. Defaults: prioridade/importancia media, icone ✨,
// metaMensal 30, tipo despesa, categoria outros, cor #06b6d4, valor abs.
func Normalize(raw RawDirective) (Directive, bool) {
	// data must be present; an empty map is fine, absence is not.
	if raw.Data == nil {
		return Directive{}, false
	}

	decode := func(into Payload) bool {
		if err := json.Unmarshal(raw.Data, into); err != nil {
			return false
		}
		return true
	}

	switch Kind(raw.Action) {
	case KindCreateTask:
		p := &CreateTaskPayload{}
		if !decode(p) {
			return Directive{}, false
		}
		if p.Prioridade == "" {
			p.Prioridade = models.PriorityMedia
		}
		if validate.Struct(p) != nil {
			return Directive{}, false
		}
		return Directive{Kind: KindCreateTask, Payload: *p}, true

	case KindCompleteTask:
		p := &CompleteTaskPayload{}
		if !decode(p) || validate.Struct(p) != nil {
			return Directive{}, false
		}
		return Directive{Kind: KindCompleteTask, Payload: *p}, true

	case KindLogHabit:
		p := &LogHabitPayload{}
		if !decode(p) || validate.Struct(p) != nil {
			return Directive{}, false
		}
		return Directive{Kind: KindLogHabit, Payload: *p}, true

	case KindCreateFinance:
		p := &CreateFinancePayload{}
		if !decode(p) {
			return Directive{}, false
		}
		p.Valor = math.Abs(p.Valor)
		if p.Tipo != models.TipoReceita {
			p.Tipo = models.TipoDespesa
		}
		if p.Categoria == "" {
			p.Categoria = models.DefaultCategoria
		}
		if validate.Struct(p) != nil {
			return Directive{}, false
		}
		return Directive{Kind: KindCreateFinance, Payload: *p}, true

	case KindCreateHabit:
		p := &CreateHabitPayload{}
		if !decode(p) {
			return Directive{}, false
		}
		if p.Icone == "" {
			p.Icone = models.DefaultHabitIcon
		}
		if p.MetaMensal == 0 {
			p.MetaMensal = models.DefaultMetaMensal
		}
		if validate.Struct(p) != nil {
			return Directive{}, false
		}
		return Directive{Kind: KindCreateHabit, Payload: *p}, true

	case KindCreateReminder:
		p := &CreateReminderPayload{}
		if !decode(p) {
			return Directive{}, false
		}
		if p.Importancia == "" {
			p.Importancia = models.PriorityMedia
		}
		if validate.Struct(p) != nil {
			return Directive{}, false
		}
		return Directive{Kind: KindCreateReminder, Payload: *p}, true

	case KindCreateProject:
		p := &CreateProjectPayload{}
		if !decode(p) {
			return Directive{}, false
		}
		if p.Cor == "" {
			p.Cor = models.DefaultProjectColor
		}
		if validate.Struct(p) != nil {
			return Directive{}, false
		}
		return Directive{Kind: KindCreateProject, Payload: *p}, true

	case KindSearchInternet:
		p := &SearchInternetPayload{}
		if !decode(p) || validate.Struct(p) != nil {
			return Directive{}, false
		}
		return Directive{Kind: KindSearchInternet, Payload: *p}, true
	}

	return Directive{}, false
}

// Parse runs Extract and Normalize in one pass, preserving appearance
// order and dropping anything that does not validate.
func Parse(text string) []Directive {
	var out []Directive
	for _, raw := range Extract(text) {
		if d, ok := Normalize(raw); ok {
			out = append(out, d)
		}
	}
	return out
}
