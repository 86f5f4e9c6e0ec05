// Package reply renders the bot's outgoing message texts. All functions are
// pure formatting; the texts use Telegram Markdown (bold via *text*,
// monospace via `text`).
package reply

import "fmt"

const (
	// MenuPrompt asks the user to pick one of the two arbitrage modes.
	MenuPrompt = "Selecciona una opción:"
	// StartHint is sent when a text message arrives before any mode was selected.
	StartHint = "Usa /start para comenzar."
	// InvalidFormat is sent when a calculation request cannot be parsed.
	InvalidFormat = "Formato inválido. Envía 3 números."
	// CalculationFailed is sent when a formula cannot be evaluated, e.g. on a
	// zero denominator.
	CalculationFailed = "No se pudo calcular con esos valores. Revisa las probabilidades."
	// Cancelled confirms that the active mode was reset.
	Cancelled = "Operación cancelada."
)

// CompletarHint describes the expected input for the complete-arbitrage mode.
func CompletarHint() string {
	return "Envíame los valores así:\n\n`s1 p1 p2`\nEjemplo: `100 0.54 0.23`"
}

// TotalHint describes the expected input for the total-arbitrage mode.
func TotalHint() string {
	return "Envíame los valores así:\n\n`S p1 p2`\nEjemplo: `1000 0.68 0.28`"
}

// CompletarResult renders a complete-arbitrage result. Monetary amounts use
// two decimals, share counts four.
func CompletarResult(s2, shares float64) string {
	return fmt.Sprintf(
		"🔍 *Completar Arbitraje*\n\nDebes comprar: *%.2f USD*\nShares finales: %.4f",
		s2, shares,
	)
}

// TotalResult renders a total-arbitrage result.
func TotalResult(s1, s2 float64) string {
	return fmt.Sprintf(
		"🔀 *Arbitraje Total*\n\ns1 = %.2f USD\ns2 = %.2f USD",
		s1, s2,
	)
}
