package dto

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearCategoriaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
}

type ActualizarCategoriaRequest struct {
	Nombre *string `json:"nombre" validate:"omitempty,min=2,max=100"`
	Activo *bool   `json:"activo"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoriaResponse struct {
	ID     uint   `json:"id"`
	Nombre string `json:"nombre"`
	Activo bool   `json:"activo"`
}
