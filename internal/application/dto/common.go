package dto

// PageRequest parámetros de búsqueda y página de los listados.
type PageRequest struct {
	Query    string `query:"q"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
}

// PageResponse metadatos de página en respuestas ("Mostrando 6 a 10 de 12").
type PageResponse struct {
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	TotalItems int    `json:"total_items"`
	PageSize   int    `json:"page_size"`
	ShownFrom  int    `json:"shown_from"`
	ShownTo    int    `json:"shown_to"`
	Query      string `json:"query,omitempty"`
}

// ErrorResponse cuerpo de error HTTP. Details lleva los mensajes de validación.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
