package query

import "strings"

// DefaultPageSize ítems por página en las tablas de clientes y facturas.
const DefaultPageSize = 5

// ViewState estado de una tabla (búsqueda y página actual). Lo posee el llamador.
type ViewState struct {
	Query     string
	PageIndex int
	PageSize  int
}

// NewViewState estado inicial: sin filtro, página 1.
func NewViewState(pageSize int) ViewState {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return ViewState{PageIndex: 1, PageSize: pageSize}
}

// SetQuery cambia el texto de búsqueda y vuelve a la página 1.
func (s *ViewState) SetQuery(q string) {
	s.Query = strings.TrimSpace(q)
	s.PageIndex = 1
}

// ClearQuery quita el filtro y vuelve a la página 1.
func (s *ViewState) ClearQuery() {
	s.SetQuery("")
}

// Filtered indica si hay una búsqueda activa.
func (s ViewState) Filtered() bool {
	return s.Query != ""
}

func (s *ViewState) Goto(page int) { s.PageIndex = page }
func (s *ViewState) Next()         { s.PageIndex++ }

func (s *ViewState) Prev() {
	if s.PageIndex > 1 {
		s.PageIndex--
	}
}

// Sync guarda en el estado la página efectiva calculada por Paginate.
func (s *ViewState) Sync(effectivePageIndex int) {
	s.PageIndex = effectivePageIndex
}

// Apply pagina list con el estado actual y sincroniza la página efectiva.
func Apply[T any](s *ViewState, list []T) Page[T] {
	p := Paginate(list, s.PageIndex, s.PageSize)
	s.Sync(p.EffectivePageIndex)
	return p
}
