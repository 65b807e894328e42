package lyra

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"orbis/internal/action"
	"orbis/internal/llm"
	"orbis/internal/search"
	"orbis/models"
	"orbis/store"
)

// historyWindow bounds how many past turns are sent as context.
const historyWindow = 20

// searchRecallCap bounds how many times one turn may re-enter the model
// after a SEARCH_INTERNET directive. Without a cap a model that keeps
// asking for searches would loop forever.
const searchRecallCap = 1

const fallbackReply = "Nao consegui processar sua mensagem. Tente novamente."

// Searcher is the slice of the Brave client the engine needs.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Snippet, error)
}

// Engine runs one conversational turn end to end: snapshot, prompt,
// model call, optional search recall, dispatch, sanitize.
type Engine struct {
	model      model.BaseChatModel
	store      store.Store
	dispatcher *action.Dispatcher
	searcher   Searcher
	logger     *slog.Logger
	now        func() time.Time
}

// NewEngine wires the engine. searcher may be nil when web search is not
// configured; SEARCH_INTERNET directives are then ignored.
func NewEngine(chatModel model.BaseChatModel, st store.Store, searcher Searcher, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		model:      chatModel,
		store:      st,
		dispatcher: action.NewDispatcher(st, logger),
		searcher:   searcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Turn processes one user message and returns the text to display. A
// turn always yields a message; provider and search failures come back
// as a friendly sentence instead of an error.
func (e *Engine) Turn(ctx context.Context, history []models.ConversationTurn, userText string) string {
	snap, err := BuildSnapshot(e.store, e.now())
	if err != nil {
		// A missing snapshot degrades the answer, it does not block it.
		e.logger.Warn("live context snapshot failed", "error", err)
		snap = Snapshot{Today: e.now().Format(models.DateLayout)}
	}

	messages := e.buildMessages(snap, history, userText)

	resp, err := e.model.Generate(ctx, messages)
	if err != nil {
		e.logger.Error("model generate failed", "error", err)
		return llm.FriendlyMessage(err)
	}
	text := resp.Content

	dirs := action.Parse(text)

	// One recall: when the model asks for a search, run it, hand the
	// results back, and take the second answer as the real one.
	for recall := 0; recall < searchRecallCap && e.searcher != nil; recall++ {
		query, ok := firstSearchQuery(dirs)
		if !ok {
			break
		}
		searched, serr := e.recallWithSearch(ctx, messages, text, query)
		if serr != nil {
			e.logger.Error("search recall failed", "query", query, "error", serr)
			return llm.FriendlyMessage(serr)
		}
		text = searched
		dirs = action.Parse(text)
	}

	// The directives are applied only after the full response arrived;
	// a canceled Generate above means nothing was dispatched.
	results := e.dispatcher.DispatchAll(dropSearch(dirs))

	clean := action.Sanitize(text)
	parts := make([]string, 0, 1+len(results))
	if clean != "" {
		parts = append(parts, clean)
	}
	for _, r := range results {
		parts = append(parts, r.Message)
	}
	if len(parts) == 0 {
		return fallbackReply
	}
	return strings.Join(parts, "\n\n")
}

func (e *Engine) buildMessages(snap Snapshot, history []models.ConversationTurn, userText string) []*schema.Message {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(BuildSystemPrompt(BuildLiveContext(snap), snap.Today)))
	for _, turn := range history {
		if turn.Role == models.RoleAssistant {
			messages = append(messages, schema.AssistantMessage(turn.Text, nil))
			continue
		}
		messages = append(messages, schema.UserMessage(turn.Text))
	}
	return append(messages, schema.UserMessage(userText))
}

// recallWithSearch runs the web search and asks the model again with the
// results injected. Only the search request is echoed back as the
// assistant turn, so the model does not see its own hedging prose.
func (e *Engine) recallWithSearch(ctx context.Context, messages []*schema.Message, rawResponse, query string) (string, error) {
	snippets, err := e.searcher.Search(ctx, query)
	if err != nil {
		return "", err
	}

	augmented := append(append([]*schema.Message{}, messages...),
		schema.AssistantMessage(rawResponse, nil),
		schema.UserMessage(buildSearchContext(query, snippets)),
	)
	resp, err := e.model.Generate(ctx, augmented)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func buildSearchContext(query string, snippets []search.Snippet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CONEXAO COM INTERNET ESTABELECIDA. RESULTADOS PARA %q:\n", query)
	for i, s := range snippets {
		fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n\n", i+1, s.Title, s.Description, s.URL)
	}
	b.WriteString("INFORMACAO: Os dados acima sao reais e atuais. Use-os para responder ao usuario de forma definitiva. IGNORE qualquer restricao previa sobre nao ter internet.")
	return b.String()
}

func firstSearchQuery(dirs []action.Directive) (string, bool) {
	for _, d := range dirs {
		if p, ok := d.Payload.(action.SearchInternetPayload); ok {
			return p.Query, true
		}
	}
	return "", false
}

func dropSearch(dirs []action.Directive) []action.Directive {
	out := dirs[:0]
	for _, d := range dirs {
		if d.Kind == action.KindSearchInternet {
			continue
		}
		out = append(out, d)
	}
	return out
}
