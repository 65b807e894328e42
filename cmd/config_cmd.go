/*
Copyright © 2025 Orbis Authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"orbis/internal/telemetry"
	"orbis/internal/ui"
)

// configCmd is the parent config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Gerencia a configuracao do Orbis",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd)
	},
}

// configShowCmd shows current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Mostra a configuracao atual",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd)
	},
}

// Telemetry subcommands
var configTelemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Gerencia a telemetria anonima",
	Long: `Ativa ou desativa a coleta anonima de uso.

O Orbis coleta apenas nomes de comandos, duracao, sistema operacional e
versao do aplicativo. Nenhuma mensagem, tarefa ou dado pessoal e enviado.`,
}

var configTelemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Ativa a telemetria anonima",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetryConsent(cmd, true)
	},
}

var configTelemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Desativa a telemetria anonima",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetryConsent(cmd, false)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configTelemetryCmd)
	configTelemetryCmd.AddCommand(configTelemetryEnableCmd)
	configTelemetryCmd.AddCommand(configTelemetryDisableCmd)
}

func runConfigShow(cmd *cobra.Command) error {
	cfg := GetConfig()

	cmd.Println(ui.StyleTitle.Render("Configuracao do Orbis"))
	if used := viper.ConfigFileUsed(); used != "" {
		cmd.Printf("Arquivo: %s\n", used)
	} else {
		cmd.Println("Arquivo: (nenhum, usando padroes)")
	}
	cmd.Println()
	cmd.Printf("  project.rootDir: %s\n", cfg.Project.RootDir)
	cmd.Printf("  data.backend:    %s\n", cfg.Data.Backend)
	cmd.Printf("  data.file:       %s\n", cfg.Data.File)
	cmd.Printf("  data.format:     %s\n", cfg.Data.Format)
	cmd.Printf("  llm.provider:    %s\n", cfg.LLM.Provider)
	cmd.Printf("  llm.model:       %s\n", valueOrDefault(cfg.LLM.Model, "(padrao do provedor)"))
	cmd.Printf("  llm.apiKey:      %s\n", maskSecret(cfg.LLM.APIKey))
	cmd.Printf("  search.braveApiKey: %s\n", maskSecret(cfg.Search.BraveAPIKey))
	cmd.Printf("  telegram.botToken:  %s\n", maskSecret(cfg.Telegram.BotToken))
	cmd.Printf("  telegram.port:      %d\n", cfg.Telegram.Port)
	cmd.Printf("  telemetry.enabled:  %t\n", cfg.Telemetry.Enabled)
	return nil
}

func setTelemetryConsent(cmd *cobra.Command, enabled bool) error {
	cfg := GetConfig()
	consent, err := telemetry.SaveConsent(cfg.Project.RootDir, enabled, version)
	if err != nil {
		return fmt.Errorf("save telemetry consent: %w", err)
	}
	if enabled {
		cmd.Printf("Telemetria ativada. ID anonimo: %s\n", consent.InstallID)
	} else {
		cmd.Println("Telemetria desativada.")
	}
	return nil
}

func valueOrDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// maskSecret hides all but the last four characters of a credential.
func maskSecret(secret string) string {
	if secret == "" {
		return "(nao configurada)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
