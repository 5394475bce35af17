package dto

import "time"

// ContactDTO persona de contacto en requests y respuestas.
type ContactDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ClientRequest body para POST /api/clients y PUT /api/clients/:id.
type ClientRequest struct {
	TaxID            string     `json:"tax_id"`
	LegalName        string     `json:"legal_name"`
	Address          string     `json:"address"`
	PrimaryContact   ContactDTO `json:"primary_contact"`
	SecondaryContact ContactDTO `json:"secondary_contact"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID               string      `json:"id"`
	TaxID            string      `json:"tax_id"`
	LegalName        string      `json:"legal_name"`
	Address          string      `json:"address"`
	PrimaryContact   ContactDTO  `json:"primary_contact"`
	SecondaryContact *ContactDTO `json:"secondary_contact,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// ClientListResponse página del listado de clientes.
type ClientListResponse struct {
	PageResponse
	Items []ClientResponse `json:"items"`
}

// ClientOption opción del select de clientes en el formulario de facturas.
type ClientOption struct {
	ID    string `json:"id"`
	TaxID string `json:"tax_id"`
	Label string `json:"label"` // "Razón social (RUC)"
}
