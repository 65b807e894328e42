/*
Copyright © 2025 Orbis Authors
*/
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"orbis/internal/bot"
)

// shutdownTimeout bounds the drain of in-flight webhook requests.
const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Inicia o servidor do webhook do Telegram",
	Long: `Inicia o servidor HTTP que recebe atualizacoes do Telegram.

Requer telegram.botToken na configuracao. Sem uma chave de IA
configurada, os comandos com barra continuam funcionando e as mensagens
livres respondem com uma instrucao de configuracao.

Examples:
  orbis serve
  ORBIS_TELEGRAM_PORT=9000 orbis serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.botToken is not configured")
	}

	log := newLogger()

	s, err := GetStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var engine bot.ChatEngine
	if eng, err := buildEngine(ctx, s, log); err != nil {
		log.Warn("conversation engine unavailable, slash commands only", "error", err)
	} else {
		engine = eng
	}

	b := bot.New(s, engine, cfg.Telegram.BotToken, log)
	server := bot.NewServer(cfg.Telegram.Port, b, log)

	var wg sync.WaitGroup
	errChan := make(chan error, 1)
	server.Start(&wg, errChan)
	log.Info("webhook server listening", "port", cfg.Telegram.Port)

	if cfgPath := viper.ConfigFileUsed(); cfgPath != "" {
		if err := bot.WatchConfig(ctx, cfgPath, log, InitConfig); err != nil {
			log.Warn("config watcher unavailable", "error", err)
		}
	}

	tel := newTelemetryClient(log)
	defer func() { _ = tel.Close() }()
	tel.Track("serve_started", map[string]any{"port": cfg.Telegram.Port})

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	wg.Wait()
	return nil
}
