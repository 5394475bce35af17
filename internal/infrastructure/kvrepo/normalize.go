package kvrepo

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/awfacturas/internal/domain/entity"
)

// Tabla de alias: por cada campo canónico, los nombres con los que pudo quedar
// guardado en versiones anteriores del front. Se aplica una sola vez al leer;
// al escribir siempre se usan los nombres canónicos (el primero de cada lista).
var (
	invoiceAliases = map[string][]string{
		"id":            {"id"},
		"clientId":      {"clientId", "clienteId"},
		"clientName":    {"clientName", "razonSocial", "clienteNombre", "cliente"},
		"clientTaxId":   {"clientTaxId", "clientRuc", "ruc", "clienteRuc"},
		"invoiceNumber": {"invoiceNumber", "numeroFactura", "factura"},
		"amount":        {"amount", "monto", "total"},
		"currency":      {"currency", "moneda"},
		"issueDate":     {"issueDate", "fechaEmision", "emision"},
		"dueDate":       {"dueDate", "fechaVencimiento", "vencimiento"},
		"status":        {"status", "estado"},
		"followups":     {"followups", "gestiones"},
		"createdAt":     {"createdAt"},
	}

	clientAliases = map[string][]string{
		"id":               {"id"},
		"taxId":            {"taxId", "ruc"},
		"legalName":        {"legalName", "razonSocial"},
		"address":          {"address", "direccion"},
		"primaryContact":   {"primaryContact", "contacto1"},
		"secondaryContact": {"secondaryContact", "contacto2"},
		"createdAt":        {"createdAt"},
		"updatedAt":        {"updatedAt"},
	}

	contactAliases = map[string][]string{
		"name":  {"name", "nombre"},
		"phone": {"phone", "celular"},
		"email": {"email"},
	}

	followupAliases = map[string][]string{
		"id":      {"id"},
		"date":    {"date", "fecha"},
		"channel": {"channel", "medio"},
		"comment": {"comment", "comentario"},
	}

	// Estados heredados del front (PENDIENTE/PAGADA/CANCELADA y variantes capitalizadas).
	legacyStatus = map[string]entity.Status{
		"PENDING":   entity.StatusPending,
		"PENDIENTE": entity.StatusPending,
		"PAID":      entity.StatusPaid,
		"PAGADA":    entity.StatusPaid,
		"CANCELED":  entity.StatusCanceled,
		"CANCELLED": entity.StatusCanceled,
		"CANCELADA": entity.StatusCanceled,
	}
)

type record map[string]json.RawMessage

// raw devuelve el primer alias presente y no nulo.
func (r record) raw(aliases []string) (json.RawMessage, bool) {
	for _, a := range aliases {
		v, ok := r[a]
		if ok && len(v) > 0 && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

// str devuelve el primer alias con texto no vacío (así se comportaba el front con ||).
func (r record) str(aliases []string) string {
	for _, a := range aliases {
		v, ok := r[a]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

func (r record) date(aliases []string) entity.Date {
	d, err := entity.ParseDate(r.str(aliases))
	if err != nil {
		return entity.Date{}
	}
	return d
}

func (r record) timestamp(aliases []string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.str(aliases))
	if err != nil {
		return time.Time{}
	}
	return t
}

func normalizeStatus(s string) entity.Status {
	if st, ok := legacyStatus[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return st
	}
	return entity.StatusPending
}

func normalizeCurrency(s string) entity.Currency {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "USD", "$":
		return entity.CurrencyUSD
	default:
		return entity.CurrencyPEN
	}
}

func decodeRecords(b []byte) ([]record, error) {
	var recs []record
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func decodeInvoices(b []byte) ([]*entity.Invoice, error) {
	recs, err := decodeRecords(b)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Invoice, 0, len(recs))
	for _, r := range recs {
		if r == nil {
			continue
		}
		out = append(out, normalizeInvoice(r))
	}
	return out, nil
}

func normalizeInvoice(r record) *entity.Invoice {
	inv := &entity.Invoice{
		ID:            r.str(invoiceAliases["id"]),
		ClientID:      r.str(invoiceAliases["clientId"]),
		ClientName:    r.str(invoiceAliases["clientName"]),
		ClientTaxID:   r.str(invoiceAliases["clientTaxId"]),
		InvoiceNumber: r.str(invoiceAliases["invoiceNumber"]),
		Currency:      normalizeCurrency(r.str(invoiceAliases["currency"])),
		IssueDate:     r.date(invoiceAliases["issueDate"]),
		DueDate:       r.date(invoiceAliases["dueDate"]),
		Status:        normalizeStatus(r.str(invoiceAliases["status"])),
		Followups:     []entity.Followup{},
		CreatedAt:     r.timestamp(invoiceAliases["createdAt"]),
	}
	if v, ok := r.raw(invoiceAliases["amount"]); ok {
		var amount decimal.Decimal
		if err := amount.UnmarshalJSON(v); err == nil {
			inv.Amount = amount
		}
	}
	if v, ok := r.raw(invoiceAliases["followups"]); ok {
		var frecs []record
		if err := json.Unmarshal(v, &frecs); err == nil {
			for _, fr := range frecs {
				if fr == nil {
					continue
				}
				inv.Followups = append(inv.Followups, entity.Followup{
					ID:      fr.str(followupAliases["id"]),
					Date:    fr.date(followupAliases["date"]),
					Channel: entity.FollowupChannel(fr.str(followupAliases["channel"])),
					Comment: fr.str(followupAliases["comment"]),
				})
			}
		}
	}
	return inv
}

func decodeClients(b []byte) ([]*entity.Client, error) {
	recs, err := decodeRecords(b)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Client, 0, len(recs))
	for _, r := range recs {
		if r == nil {
			continue
		}
		c := &entity.Client{
			ID:        r.str(clientAliases["id"]),
			TaxID:     r.str(clientAliases["taxId"]),
			LegalName: r.str(clientAliases["legalName"]),
			Address:   r.str(clientAliases["address"]),
			CreatedAt: r.timestamp(clientAliases["createdAt"]),
			UpdatedAt: r.timestamp(clientAliases["updatedAt"]),
		}
		if primary, ok := decodeContact(r, clientAliases["primaryContact"]); ok {
			c.PrimaryContact = *primary
		}
		if secondary, ok := decodeContact(r, clientAliases["secondaryContact"]); ok {
			c.SecondaryContact = secondary
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeContact(r record, aliases []string) (*entity.Contact, bool) {
	v, ok := r.raw(aliases)
	if !ok {
		return nil, false
	}
	var cr record
	if err := json.Unmarshal(v, &cr); err != nil || cr == nil {
		return nil, false
	}
	return &entity.Contact{
		Name:  cr.str(contactAliases["name"]),
		Phone: cr.str(contactAliases["phone"]),
		Email: cr.str(contactAliases["email"]),
	}, true
}
