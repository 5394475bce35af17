package billing

import (
	"github.com/jhoicas/awfacturas/internal/application/dto"
	"github.com/jhoicas/awfacturas/internal/application/query"
	"github.com/jhoicas/awfacturas/internal/domain/entity"
)

func toContactDTO(c entity.Contact) dto.ContactDTO {
	return dto.ContactDTO{Name: c.Name, Phone: c.Phone, Email: c.Email}
}

func toClientResponse(c *entity.Client) dto.ClientResponse {
	out := dto.ClientResponse{
		ID:             c.ID,
		TaxID:          c.TaxID,
		LegalName:      c.LegalName,
		Address:        c.Address,
		PrimaryContact: toContactDTO(c.PrimaryContact),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	if c.SecondaryContact != nil {
		secondary := toContactDTO(*c.SecondaryContact)
		out.SecondaryContact = &secondary
	}
	return out
}

func toFollowupResponse(f entity.Followup) dto.FollowupResponse {
	return dto.FollowupResponse{
		ID:      f.ID,
		Date:    f.Date.String(),
		Channel: string(f.Channel),
		Comment: f.Comment,
	}
}

func toFollowupList(list []entity.Followup) []dto.FollowupResponse {
	out := make([]dto.FollowupResponse, 0, len(list))
	for _, f := range list {
		out = append(out, toFollowupResponse(f))
	}
	return out
}

func toInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:            inv.ID,
		ClientID:      inv.ClientID,
		ClientName:    inv.ClientName,
		ClientTaxID:   inv.ClientTaxID,
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        inv.Amount,
		AmountLabel:   entity.FormatMoney(inv.Amount, inv.Currency),
		Currency:      string(inv.Currency),
		IssueDate:     inv.IssueDate.String(),
		DueDate:       inv.DueDate.String(),
		Status:        string(inv.Status),
		Followups:     toFollowupList(inv.Followups),
		CreatedAt:     inv.CreatedAt,
	}
}

func toPageResponse[T any](p query.Page[T], q string) dto.PageResponse {
	return dto.PageResponse{
		Page:       p.EffectivePageIndex,
		TotalPages: p.TotalPages,
		TotalItems: p.TotalItems,
		PageSize:   p.PageSize,
		ShownFrom:  p.ShownFrom,
		ShownTo:    p.ShownTo,
		Query:      q,
	}
}
