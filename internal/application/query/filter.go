package query

import (
	"strings"

	"golang.org/x/text/cases"
)

// ContainsFold indica si alguno de los campos contiene q sin distinguir
// mayúsculas/minúsculas (case folding Unicode: "ÑANDÚ" encuentra "ñandú").
func ContainsFold(q string, fields ...string) bool {
	// cases.Caser guarda estado; no se comparte entre llamadas.
	folder := cases.Fold()
	needle := folder.String(q)
	for _, f := range fields {
		if strings.Contains(folder.String(f), needle) {
			return true
		}
	}
	return false
}

// Filter devuelve los elementos de list cuyos campos contienen q, en el mismo orden.
// Con q vacío devuelve list completa.
func Filter[T any](list []T, q string, fields func(T) []string) []T {
	q = strings.TrimSpace(q)
	if q == "" {
		return list
	}
	out := make([]T, 0, len(list))
	for _, item := range list {
		if ContainsFold(q, fields(item)...) {
			out = append(out, item)
		}
	}
	return out
}
