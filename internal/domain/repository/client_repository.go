package repository

import (
	"context"

	"github.com/jhoicas/awfacturas/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// El orden de inserción se conserva. Add/Update no verifican el RUC/DNI;
// AddUnique/UpdateUnique sí, de forma atómica dentro de la instancia.
type ClientRepository interface {
	GetAll(ctx context.Context) ([]*entity.Client, error)
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByTaxID(ctx context.Context, taxID string) (*entity.Client, error)
	Exists(ctx context.Context, taxID string) (bool, error)
	Add(ctx context.Context, in entity.ClientInput) (*entity.Client, error)
	// AddUnique retorna domain.ErrDuplicate si el RUC/DNI ya está registrado.
	AddUnique(ctx context.Context, in entity.ClientInput) (*entity.Client, error)
	// Update retorna domain.ErrNotFound si el id no existe.
	Update(ctx context.Context, id string, in entity.ClientInput) (*entity.Client, error)
	// UpdateUnique retorna además domain.ErrDuplicate si otro cliente tiene el RUC/DNI.
	UpdateUnique(ctx context.Context, id string, in entity.ClientInput) (*entity.Client, error)
	// Remove retorna false (sin error) si el id no existe.
	Remove(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, query string) ([]*entity.Client, error)
}
