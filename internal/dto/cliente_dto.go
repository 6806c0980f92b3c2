package dto

// ClienteRequest is used for both create and full update.
type ClienteRequest struct {
	NombreEmpresa    *string `json:"nombre_empresa"    validate:"omitempty,max=255"`
	NombreContacto   *string `json:"nombre_contacto"   validate:"omitempty,max=100"`
	DireccionFiscal  *string `json:"direccion_fiscal"  validate:"omitempty,max=255"`
	TelefonoContacto *string `json:"telefono_contacto" validate:"omitempty,max=15"`
	EmailContacto    *string `json:"email_contacto"    validate:"omitempty,email"`
	NifCif           *string `json:"nif_cif"           validate:"omitempty,max=20"`
	PaginaWeb        *string `json:"pagina_web"        validate:"omitempty,url,max=200"`
}

type ClienteResponse struct {
	ID               uint    `json:"id"`
	NombreEmpresa    *string `json:"nombre_empresa"`
	NombreContacto   *string `json:"nombre_contacto"`
	DireccionFiscal  *string `json:"direccion_fiscal"`
	TelefonoContacto *string `json:"telefono_contacto"`
	EmailContacto    *string `json:"email_contacto"`
	NifCif           *string `json:"nif_cif"`
	PaginaWeb        *string `json:"pagina_web"`
}
