package dto

// ErrorResponse cuerpo de error HTTP. Error solo se incluye en errores de validación.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// MessageResponse cuerpo de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}
