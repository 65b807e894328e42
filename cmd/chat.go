/*
Copyright © 2025 Orbis Authors
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"orbis/internal/logger"
	"orbis/internal/ui"
	"orbis/models"
)

// chatHistoryLimit bounds the turns kept in the REPL before the oldest
// are dropped. The engine applies its own context window on top.
const chatHistoryLimit = 40

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Conversa com a LYRA no terminal",
	Long: `Abre uma conversa interativa com a LYRA.

Mensagens em linguagem natural podem criar tarefas, registrar habitos,
lancar financas e mais. Digite /sair para encerrar.

Examples:
  orbis chat`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	log := newLogger()

	s, err := GetStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	ctx := cmd.Context()
	engine, err := buildEngine(ctx, s, log)
	if err != nil {
		return fmt.Errorf("start conversation engine: %w", err)
	}

	tel := newTelemetryClient(log)
	defer func() { _ = tel.Close() }()
	tel.Track("chat_started", nil)

	cmd.Println(ui.StylePrefixLyra.Render("[ LYRA ]") + " Conectada. Como posso ajudar, Cacador? (/sair para encerrar)")

	var history []models.ConversationTurn
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Fprint(cmd.OutOrStdout(), ui.StylePrefixUser.Render("> "))
		line, err := reader.ReadString('\n')
		if err != nil {
			cmd.Println()
			return nil
		}
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		if text == "/sair" || text == "/exit" || text == "/quit" {
			cmd.Println(ui.StyleSubtle.Render("Ate logo, Cacador."))
			return nil
		}

		logger.SetLastInput(text)

		spinner := ui.NewSpinner("LYRA pensando...")
		spinner.Start()
		start := time.Now()

		turnCtx, cancel := context.WithTimeout(ctx, requestTimeout())
		reply := engine.Turn(turnCtx, history, text)
		cancel()

		spinner.Stop()
		tel.Track("chat_turn", map[string]any{"duration_ms": time.Since(start).Milliseconds()})

		cmd.Printf("%s %s\n", ui.StylePrefixLyra.Render("[ LYRA ]"), reply)

		history = append(history,
			models.ConversationTurn{Role: models.RoleUser, Text: text},
			models.ConversationTurn{Role: models.RoleAssistant, Text: reply},
		)
		if len(history) > chatHistoryLimit {
			history = history[len(history)-chatHistoryLimit:]
		}
	}
}

// requestTimeout returns the per-turn LLM timeout from config.
func requestTimeout() time.Duration {
	seconds := GetConfig().LLM.RequestTimeoutSeconds
	if seconds <= 0 {
		seconds = 120
	}
	return time.Duration(seconds) * time.Second
}
