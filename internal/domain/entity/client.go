package entity

import (
	"strings"
	"time"
)

// Contact persona de contacto del cliente (cobranza).
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"` // celular, 9 dígitos
	Email string `json:"email"`
}

// Client representa un cliente registrado.
// TaxID es el RUC (11 dígitos) o DNI (8 dígitos) y es único en toda la colección.
type Client struct {
	ID               string    `json:"id"`
	TaxID            string    `json:"taxId"`
	LegalName        string    `json:"legalName"`
	Address          string    `json:"address"`
	PrimaryContact   Contact   `json:"primaryContact"`
	SecondaryContact *Contact  `json:"secondaryContact"` // nil si no se informó
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ClientInput datos crudos del formulario de registro/edición (sin recortar).
type ClientInput struct {
	TaxID     string
	LegalName string
	Address   string
	Primary   Contact
	Secondary Contact
}

// HasSecondary indica si se informó al menos un campo del contacto secundario.
// Los campos con solo espacios cuentan como vacíos, igual que en la validación.
func (in ClientInput) HasSecondary() bool {
	return strings.TrimSpace(in.Secondary.Name) != "" ||
		strings.TrimSpace(in.Secondary.Phone) != "" ||
		strings.TrimSpace(in.Secondary.Email) != ""
}
