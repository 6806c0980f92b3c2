// Package apierror defines the JSON bodies of every 4xx/5xx response.
package apierror

// MsgInterno is the only detail a client ever sees for a 5xx.
const MsgInterno = "Error interno del servidor"

// APIError is the error envelope: {"detail": "...", "code": "..."}.
// Code is a stable machine-readable tag; it is omitted for generic errors.
type APIError struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// WithCode builds an error the POS client can branch on without parsing the
// human message, e.g. "sin_servicio_abierto".
func WithCode(code, msg string) *APIError {
	return &APIError{Detail: msg, Code: code}
}

func Interno() *APIError {
	return &APIError{Detail: MsgInterno, Code: "interno"}
}

// ValidationError lists the failed field tags of a request body.
type ValidationError struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Code: "validacion", Fields: fields}
}
