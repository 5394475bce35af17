package billing

import (
	"strings"

	"github.com/jhoicas/awfacturas/internal/domain"
)

// ValidationError lleva los mensajes de un formulario rechazado.
// errors.Is(err, domain.ErrInvalidInput) es true.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return domain.ErrInvalidInput.Error() + ": " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == domain.ErrInvalidInput
}

func invalid(errs ...string) error {
	return &ValidationError{Errors: errs}
}
