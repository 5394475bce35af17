package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/awfacturas/internal/domain/entity"
)

// validate es seguro para uso concurrente y cachea la metadata de cada struct.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Usar el nombre del tag json en los errores.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// InvoiceForm campos del formulario de registro de factura.
type InvoiceForm struct {
	ClientID      string          `json:"clientId" validate:"required"`
	InvoiceNumber string          `json:"invoiceNumber" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"-"`
	Currency      string          `json:"currency" validate:"omitempty,oneof=PEN USD"`
	IssueDate     string          `json:"issueDate" validate:"required"`
	DueDate       string          `json:"dueDate" validate:"required"`
	Status        string          `json:"status" validate:"omitempty,oneof=PENDING PAID CANCELED"`
}

// FollowupForm campos del formulario de gestión de cobranza.
type FollowupForm struct {
	Date    string `json:"date" validate:"required"`
	Channel string `json:"channel" validate:"required,oneof=LLAMADA EMAIL WHATSAPP VISITA OTRO"`
	Comment string `json:"comment" validate:"required"`
}

var formMessages = map[string]string{
	"clientId.required":      "Selecciona un cliente.",
	"invoiceNumber.required": "Ingresa el número de factura.",
	"currency.oneof":         "La moneda debe ser PEN o USD.",
	"issueDate.required":     "Selecciona la fecha de emisión.",
	"dueDate.required":       "Selecciona la fecha de vencimiento.",
	"status.oneof":           "El estado debe ser PENDING, PAID o CANCELED.",
	"date.required":          "Selecciona la fecha de gestión.",
	"channel.required":       "Selecciona el medio.",
	"channel.oneof":          "El medio de gestión no es válido.",
	"comment.required":       "Escribe un comentario.",
}

// ValidateInvoiceForm valida el formulario de factura (los textos se recortan antes).
func ValidateInvoiceForm(f InvoiceForm) Result {
	f.ClientID = strings.TrimSpace(f.ClientID)
	f.InvoiceNumber = strings.TrimSpace(f.InvoiceNumber)
	f.Currency = strings.TrimSpace(f.Currency)
	f.IssueDate = strings.TrimSpace(f.IssueDate)
	f.DueDate = strings.TrimSpace(f.DueDate)
	f.Status = strings.TrimSpace(f.Status)

	errs := structErrors(f)
	if !f.Amount.GreaterThan(decimal.Zero) {
		errs = append(errs, "Ingresa un monto válido.")
	}
	if f.IssueDate != "" {
		if _, err := entity.ParseDate(f.IssueDate); err != nil {
			errs = append(errs, "La fecha de emisión no es válida.")
		}
	}
	if f.DueDate != "" {
		if _, err := entity.ParseDate(f.DueDate); err != nil {
			errs = append(errs, "La fecha de vencimiento no es válida.")
		}
	}
	return newResult(errs)
}

// ValidateFollowupForm valida el formulario de gestión.
func ValidateFollowupForm(f FollowupForm) Result {
	f.Date = strings.TrimSpace(f.Date)
	f.Channel = strings.TrimSpace(f.Channel)
	f.Comment = strings.TrimSpace(f.Comment)

	errs := structErrors(f)
	if f.Date != "" {
		if _, err := entity.ParseDate(f.Date); err != nil {
			errs = append(errs, "La fecha de gestión no es válida.")
		}
	}
	return newResult(errs)
}

func structErrors(s any) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if msg, ok := formMessages[fe.Field()+"."+fe.Tag()]; ok {
			out = append(out, msg)
			continue
		}
		out = append(out, "El campo "+fe.Field()+" no es válido.")
	}
	return out
}
