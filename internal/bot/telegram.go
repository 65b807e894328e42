// Package bot exposes the Telegram webhook surface. Slash commands call
// the store directly; free text goes through the full LYRA pipeline.
package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"orbis/models"
	"orbis/store"
)

// telegramMaxLength is the hard message size limit of the Telegram API.
const telegramMaxLength = 4096

const defaultTelegramAPI = "https://api.telegram.org"

// ChatEngine runs one natural-language turn. Satisfied by *lyra.Engine.
type ChatEngine interface {
	Turn(ctx context.Context, history []models.ConversationTurn, userText string) string
}

// Bot handles incoming Telegram webhook updates.
type Bot struct {
	store   store.Store
	engine  ChatEngine
	token   string
	apiBase string
	httpc   *http.Client
	logger  *slog.Logger
	now     func() time.Time
}

// Option customizes a Bot.
type Option func(*Bot)

// WithAPIBase overrides the Telegram API endpoint, used by tests.
func WithAPIBase(u string) Option {
	return func(b *Bot) { b.apiBase = u }
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(b *Bot) { b.now = now }
}

// New builds the bot. engine may be nil when no AI provider is
// configured; free text then gets a configuration hint instead.
func New(st store.Store, engine ChatEngine, token string, logger *slog.Logger, opts ...Option) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bot{
		store:   st,
		engine:  engine,
		token:   token,
		apiBase: defaultTelegramAPI,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type telegramUpdate struct {
	Message struct {
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}

// HandleWebhook processes one Telegram update. It always answers 200 to
// the webhook caller; failures are reported back to the chat itself.
func (b *Bot) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var update telegramUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.logger.Warn("undecodable telegram update", "error", err)
		writeOK(w)
		return
	}

	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		writeOK(w)
		return
	}
	chatID := update.Message.Chat.ID

	var reply string
	if strings.HasPrefix(text, "/") {
		reply = b.handleSlashCommand(text)
	} else {
		reply = b.handleNaturalLanguage(r.Context(), text)
	}

	if err := b.sendMessage(r.Context(), chatID, reply); err != nil {
		b.logger.Error("telegram send failed", "chat_id", chatID, "error", err)
	}
	writeOK(w)
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true}`))
}

// Truncate caps text at the Telegram message limit, marking the cut.
func Truncate(text string) string {
	if len(text) <= telegramMaxLength {
		return text
	}
	cut := telegramMaxLength - 20
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "\n\n...(truncado)"
}

func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) error {
	if b.token == "" {
		return errors.New("telegram bot token not configured")
	}

	body, err := json.Marshal(map[string]any{
		"chat_id": chatID,
		"text":    Truncate(text),
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", b.apiBase, b.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram sendMessage returned status %d", resp.StatusCode)
	}
	return nil
}

// --- Slash commands ---

func (b *Bot) handleSlashCommand(text string) string {
	cmd, argText, _ := strings.Cut(text, " ")
	argText = strings.TrimSpace(argText)

	// strip @botname when the command is addressed in a group
	cmd, _, _ = strings.Cut(strings.ToLower(cmd), "@")

	switch cmd {
	case "/tarefas":
		return b.cmdListTasks()
	case "/concluir":
		return b.cmdCompleteTask(argText)
	case "/tarefa":
		return b.cmdCreateTask(argText)
	case "/habitos":
		return b.cmdListHabits()
	case "/habito":
		return b.cmdLogHabit(argText)
	case "/gasto":
		return b.cmdRegisterFinance(models.TipoDespesa, argText)
	case "/receita":
		return b.cmdRegisterFinance(models.TipoReceita, argText)
	case "/ajuda", "/start", "/help":
		return cmdHelp()
	default:
		return "Comando desconhecido. Use /ajuda para ver os comandos."
	}
}

var priorityEmoji = map[models.Priority]string{
	models.PriorityAlta:  "🔴",
	models.PriorityMedia: "🟡",
	models.PriorityBaixa: "🟢",
}

func (b *Bot) cmdListTasks() string {
	tasks, err := b.store.ListPendingTasks()
	if err != nil {
		b.logger.Error("list tasks failed", "error", err)
		return "Erro ao listar tarefas."
	}
	if len(tasks) == 0 {
		return "Nenhuma tarefa pendente. Tudo limpo!"
	}

	var lines []string
	for i, t := range tasks {
		emoji, ok := priorityEmoji[t.Prioridade]
		if !ok {
			emoji = priorityEmoji[models.PriorityMedia]
		}
		prazo := ""
		if t.DataPrazo != "" {
			prazo = fmt.Sprintf(" (prazo: %s)", t.DataPrazo)
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s [%s]%s", i+1, emoji, t.Titulo, t.Status, prazo))
	}
	return "TAREFAS PENDENTES:\n\n" + strings.Join(lines, "\n")
}

func (b *Bot) cmdCompleteTask(searchTerm string) string {
	if searchTerm == "" {
		return "Use: /concluir <nome da tarefa>"
	}
	tasks, err := b.store.FindTasksByTitle(searchTerm)
	if err != nil {
		b.logger.Error("find tasks failed", "error", err)
		return "Erro ao concluir tarefa."
	}
	if len(tasks) == 0 {
		return fmt.Sprintf("Nenhuma tarefa encontrada com %q.", searchTerm)
	}

	task := tasks[0]
	if _, err := b.store.CompleteTask(task.ID); err != nil {
		b.logger.Error("complete task failed", "task_id", task.ID, "error", err)
		return "Erro ao concluir tarefa."
	}

	msg := fmt.Sprintf("✅ Tarefa %q concluida!", task.Titulo)
	if len(tasks) > 1 {
		msg += fmt.Sprintf("\n\n(Havia %d resultados, concluida a primeira. Outras opcoes:", len(tasks))
		for i, t := range tasks[1:] {
			msg += fmt.Sprintf("\n%d. %s", i+2, t.Titulo)
		}
		msg += ")"
	}
	return msg
}

func (b *Bot) cmdCreateTask(title string) string {
	if title == "" {
		return "Use: /tarefa <titulo da tarefa>"
	}
	if _, err := b.store.CreateTask(models.Task{Titulo: title, Prioridade: models.PriorityMedia}); err != nil {
		b.logger.Error("create task failed", "error", err)
		return "Erro ao criar tarefa."
	}
	return fmt.Sprintf("✅ Tarefa %q criada com sucesso!", title)
}

func (b *Bot) cmdListHabits() string {
	today := b.now().Format(models.DateLayout)
	habits, err := b.store.ListHabitStatuses(today)
	if err != nil {
		b.logger.Error("list habits failed", "error", err)
		return "Erro ao listar habitos."
	}
	if len(habits) == 0 {
		return "Nenhum habito cadastrado ainda."
	}

	var lines []string
	for _, h := range habits {
		check := "⬜"
		if h.DoneToday {
			check = "✅"
		}
		icone := h.Icone
		if icone == "" {
			icone = models.DefaultHabitIcon
		}
		lines = append(lines, fmt.Sprintf("%s %s %s (%dx este mes)", check, icone, h.Titulo, h.ThisMonth))
	}
	return "HABITOS DE HOJE:\n\n" + strings.Join(lines, "\n")
}

func (b *Bot) cmdLogHabit(searchTerm string) string {
	if searchTerm == "" {
		return "Use: /habito <nome do habito>"
	}
	habits, err := b.store.FindHabitsByTitle(searchTerm)
	if err != nil {
		b.logger.Error("find habits failed", "error", err)
		return "Erro ao registrar habito."
	}
	if len(habits) == 0 {
		return fmt.Sprintf("Nenhum habito encontrado com %q.", searchTerm)
	}

	habit := habits[0]
	today := b.now().Format(models.DateLayout)
	if _, err := b.store.LogHabit(habit.ID, today); err != nil {
		if errors.Is(err, store.ErrHabitAlreadyLogged) {
			return fmt.Sprintf("✅ Habito %q ja foi registrado hoje!", habit.Titulo)
		}
		b.logger.Error("log habit failed", "habit_id", habit.ID, "error", err)
		return "Erro ao registrar habito."
	}
	return fmt.Sprintf("✅ Habito %q registrado para hoje!", habit.Titulo)
}

func (b *Bot) cmdRegisterFinance(tipo models.FinanceType, argText string) string {
	usage := "Use: /gasto <valor> <descricao>"
	if tipo == models.TipoReceita {
		usage = "Use: /receita <valor> <descricao>"
	}
	if argText == "" {
		return usage
	}

	valorStr, descricao, found := strings.Cut(argText, " ")
	descricao = strings.TrimSpace(descricao)
	valor, err := strconv.ParseFloat(valorStr, 64)
	if err != nil || !found || descricao == "" {
		return usage
	}

	created, err := b.store.CreateFinance(models.Finance{Descricao: descricao, Valor: valor, Tipo: tipo})
	if err != nil {
		b.logger.Error("create finance failed", "error", err)
		return "Erro ao registrar lancamento."
	}

	label := "Despesa"
	if tipo == models.TipoReceita {
		label = "Receita"
	}
	return fmt.Sprintf("✅ %s de R$%.2f registrada: %q", label, created.Valor, descricao)
}

func cmdHelp() string {
	return `🤖 COMANDOS DISPONIVEIS:

/tarefas — Listar tarefas pendentes
/concluir <nome> — Concluir uma tarefa
/tarefa <titulo> — Criar nova tarefa
/habitos — Listar habitos com status de hoje
/habito <nome> — Registrar habito para hoje
/gasto <valor> <descricao> — Registrar despesa
/receita <valor> <descricao> — Registrar receita
/ajuda — Mostrar este menu

💬 Ou envie qualquer mensagem para conversar com a LYRA!`
}

// --- Natural language ---

func (b *Bot) handleNaturalLanguage(ctx context.Context, text string) string {
	if b.engine == nil {
		return "Bot nao configurado: chave de IA ausente."
	}
	return b.engine.Turn(ctx, nil, text)
}
