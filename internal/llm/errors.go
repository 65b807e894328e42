package llm

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrorCategory buckets provider failures into the small set of
// situations worth distinguishing for the user.
type ErrorCategory int

const (
	CategoryGeneric ErrorCategory = iota
	CategoryInvalidKey
	CategoryRateLimit
	CategoryNetwork
	CategoryUnavailable
	CategoryTimeout
)

var categoryMessages = map[ErrorCategory]string{
	CategoryInvalidKey:  "Chave de API invalida ou nao autorizada. Verifique a configuracao do provedor.",
	CategoryRateLimit:   "Limite de uso do provedor atingido. Aguarde um pouco e tente de novo.",
	CategoryNetwork:     "Nao consegui falar com o provedor de IA. Verifique sua conexao.",
	CategoryUnavailable: "O provedor de IA esta indisponivel no momento. Tente de novo em instantes.",
	CategoryTimeout:     "A resposta demorou demais e foi cancelada. Tente de novo.",
	CategoryGeneric:     "Algo deu errado ao gerar a resposta. Tente de novo.",
}

// Categorize maps a provider error to its category. Provider SDKs do not
// share error types, so classification falls back to status codes and
// markers embedded in the error text.
func Categorize(err error) ErrorCategory {
	if err == nil {
		return CategoryGeneric
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return CategoryTimeout
		}
		return CategoryNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") ||
		strings.Contains(msg, "invalid api key") || strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "authentication"):
		return CategoryInvalidKey
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota"):
		return CategoryRateLimit
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return CategoryTimeout
	case strings.Contains(msg, "502") || strings.Contains(msg, "503") ||
		strings.Contains(msg, "504") || strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "unavailable"):
		return CategoryUnavailable
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "network"):
		return CategoryNetwork
	}
	return CategoryGeneric
}

// FriendlyMessage converts a provider error into the message shown in
// place of an assistant reply.
func FriendlyMessage(err error) string {
	return categoryMessages[Categorize(err)]
}
