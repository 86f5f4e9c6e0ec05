package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AppError carries the classification of a handler failure along with the
// text that may be shown to the user. An empty UserMessage means the error
// is logged only and no reply is attempted.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

// NewValidationError classifies malformed calculation input.
func NewValidationError(cause error) *AppError {
	return &AppError{
		Code:        "E100",
		Message:     fmt.Sprintf("invalid input: %s", causeText(cause)),
		UserMessage: "Formato inválido. Envía 3 números.",
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       cause,
	}
}

// NewCalculationError classifies a formula that could not be evaluated.
func NewCalculationError(cause error) *AppError {
	return &AppError{
		Code:        "E110",
		Message:     fmt.Sprintf("calculation failed: %s", causeText(cause)),
		UserMessage: "No se pudo calcular con esos valores. Revisa las probabilidades.",
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       cause,
	}
}

// NewStateError classifies a session store failure.
func NewStateError(cause error) *AppError {
	return &AppError{
		Code:        "E200",
		Message:     fmt.Sprintf("session state error: %s", causeText(cause)),
		UserMessage: "Ocurrió un error. Intenta de nuevo más tarde.",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

// NewDeliveryError classifies an outbound send that the platform rejected.
// Delivery is best effort: the user message stays empty so the error
// handler does not try to send again over the same broken path.
func NewDeliveryError(cause error) *AppError {
	return &AppError{
		Code:        "E300",
		Message:     fmt.Sprintf("telegram delivery failed: %s", causeText(cause)),
		UserMessage: "",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

func causeText(cause error) string {
	if cause == nil {
		return ""
	}

	return cause.Error()
}
