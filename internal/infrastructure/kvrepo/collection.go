// Package kvrepo implementa los repositorios de clientes y facturas sobre un
// repository.KVStore. Cada colección es un arreglo JSON bajo una clave; toda
// mutación lee la colección completa, la modifica en memoria y la reescribe.
package kvrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/awfacturas/internal/domain/repository"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

// Claves de las colecciones (las mismas que usaba el front en localStorage).
const (
	ClientsKey  = "awfacturas_clientes"
	InvoicesKey = "invoices_fx"
)

// Option configura reloj y generador de ids (inyectables en tests).
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func(prefix string) string
}

func defaultOptions() options {
	return options{
		now:   time.Now,
		newID: func(prefix string) string { return prefix + "_" + uuid.NewString() },
	}
}

// WithClock fija la fuente de "ahora" para createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator reemplaza la generación de ids; recibe el prefijo (client, inv, fu).
func WithIDGenerator(fn func(prefix string) string) Option {
	return func(o *options) { o.newID = fn }
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// collection lee y escribe un arreglo JSON completo bajo key.
// mu serializa los ciclos load → modificar → save de esta instancia; entre
// procesos distintos gana la última escritura.
type collection[T any] struct {
	mu     sync.Mutex
	store  repository.KVStore
	key    string
	log    *logger.Logger
	decode func([]byte) ([]T, error)
}

// load devuelve la colección; si falta o está corrupta devuelve una lista vacía.
// Solo los errores del sustrato (I/O, red) se propagan.
func (c *collection[T]) load(ctx context.Context) ([]T, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", c.key, err)
	}
	if !ok || raw == "" {
		return []T{}, nil
	}
	items, err := c.decode([]byte(raw))
	if err != nil {
		c.log.Warn().Err(err).Str("key", c.key).Msg("colección corrupta, se trata como vacía")
		return []T{}, nil
	}
	return items, nil
}

func (c *collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("serializar %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, string(b)); err != nil {
		return fmt.Errorf("guardar %s: %w", c.key, err)
	}
	c.log.Debug().Str("key", c.key).Int("items", len(items)).Msg("colección guardada")
	return nil
}

// update ejecuta load → fn → save bajo el lock. fn devuelve la lista a guardar y
// si hay que escribirla; con error o write=false no se escribe nada.
func (c *collection[T]) update(ctx context.Context, fn func(items []T) (out []T, write bool, err error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	out, write, err := fn(items)
	if err != nil || !write {
		return err
	}
	return c.save(ctx, out)
}
