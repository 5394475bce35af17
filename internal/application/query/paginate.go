// Package query implementa el filtrado y la paginación de los listados de
// clientes y facturas. Todo es puro: el estado de la vista lo guarda el llamador.
package query

// Page resultado de paginar una lista.
type Page[T any] struct {
	EffectivePageIndex int `json:"page"`
	TotalPages         int `json:"total_pages"`
	TotalItems         int `json:"total_items"`
	PageSize           int `json:"page_size"`
	// ShownFrom y ShownTo rango 1-based mostrado ("Mostrando 6 a 10 de 12"); 0 si no hay ítems.
	ShownFrom int `json:"shown_from"`
	ShownTo   int `json:"shown_to"`
	Items     []T `json:"items"`
}

// Paginate devuelve la página pageIndex (1-based) de list.
// totalPages es al menos 1 y pageIndex se ajusta a [1, totalPages]: al borrar
// elementos la página guardada puede quedar fuera de rango.
func Paginate[T any](list []T, pageIndex, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	total := len(list)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if pageIndex > totalPages {
		pageIndex = totalPages
	}
	if pageIndex < 1 {
		pageIndex = 1
	}

	start := (pageIndex - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	items := make([]T, end-start)
	copy(items, list[start:end])

	p := Page[T]{
		EffectivePageIndex: pageIndex,
		TotalPages:         totalPages,
		TotalItems:         total,
		PageSize:           pageSize,
		Items:              items,
	}
	if len(items) > 0 {
		p.ShownFrom = start + 1
		p.ShownTo = start + len(items)
	}
	return p
}
