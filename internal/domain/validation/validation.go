// Package validation contiene las reglas de forma de los formularios: RUC/DNI,
// email, celular y campos obligatorios. Ninguna función retorna error; los
// problemas se acumulan en un Result para que el llamador decida cómo mostrarlos.
package validation

import (
	"regexp"
	"strings"
)

var (
	taxIDPattern = regexp.MustCompile(`^(\d{8}|\d{11})$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{9}$`)
)

// Result resultado de una validación: Valid es true solo si Errors está vacío.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func newResult(errs []string) Result {
	if errs == nil {
		errs = []string{}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// IsTaxID RUC (11 dígitos) o DNI (8 dígitos).
func IsTaxID(s string) bool {
	return taxIDPattern.MatchString(strings.TrimSpace(s))
}

// IsEmail forma local@dominio.tld.
func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// IsPhone celular de 9 dígitos.
func IsPhone(s string) bool {
	return phonePattern.MatchString(strings.TrimSpace(s))
}

// IsNonEmpty true si s tiene contenido además de espacios.
func IsNonEmpty(s string) bool {
	return len(strings.TrimSpace(s)) > 0
}

// ClientCore datos generales del cliente.
type ClientCore struct {
	TaxID     string
	LegalName string
	Address   string
}

// ContactFields campos de un contacto tal como llegan del formulario.
type ContactFields struct {
	Name  string
	Phone string
	Email string
}

func (c ContactFields) hasData() bool {
	return IsNonEmpty(c.Name) || IsNonEmpty(c.Phone) || IsNonEmpty(c.Email)
}

// FullClient todos los campos del formulario de cliente.
type FullClient struct {
	ClientCore
	Primary   ContactFields
	Secondary ContactFields
}

// ValidateClientCore valida RUC/DNI, razón social y dirección acumulando todos los errores.
func ValidateClientCore(c ClientCore) Result {
	var errs []string
	if !IsNonEmpty(c.TaxID) {
		errs = append(errs, "El RUC/DNI es obligatorio")
	} else if !IsTaxID(c.TaxID) {
		errs = append(errs, "El RUC/DNI debe tener 8 ó 11 dígitos")
	}
	if !IsNonEmpty(c.LegalName) {
		errs = append(errs, "La razón social es obligatoria")
	}
	if !IsNonEmpty(c.Address) {
		errs = append(errs, "La dirección es obligatoria")
	}
	return newResult(errs)
}

// ValidateContact valida un contacto. Si no es obligatorio y viene vacío es válido;
// con datos parciales se exigen los tres campos igual que en el principal.
func ValidateContact(c ContactFields, required bool) Result {
	if !required && !c.hasData() {
		return newResult(nil)
	}
	var errs []string
	if !IsNonEmpty(c.Name) {
		errs = append(errs, "El nombre del contacto es obligatorio")
	}
	if !IsNonEmpty(c.Phone) {
		errs = append(errs, "El celular es obligatorio")
	} else if !IsPhone(c.Phone) {
		errs = append(errs, "El celular debe tener 9 dígitos")
	}
	if !IsNonEmpty(c.Email) {
		errs = append(errs, "El email es obligatorio")
	} else if !IsEmail(c.Email) {
		errs = append(errs, "El email no es válido")
	}
	return newResult(errs)
}

// ValidateFullClient concatena datos generales, contacto 1 (obligatorio) y contacto 2 (opcional).
func ValidateFullClient(in FullClient) Result {
	var errs []string
	errs = append(errs, ValidateClientCore(in.ClientCore).Errors...)
	for _, e := range ValidateContact(in.Primary, true).Errors {
		errs = append(errs, "Contacto 1: "+e)
	}
	for _, e := range ValidateContact(in.Secondary, false).Errors {
		errs = append(errs, "Contacto 2: "+e)
	}
	return newResult(errs)
}
