// Package changefeed avisa cuando otra instancia modificó una colección.
// Solo lleva un contador de revisión por clave: quien escucha vuelve a leer,
// no hay mezcla de datos ni bloqueo.
package changefeed

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/jhoicas/awfacturas/internal/domain/repository"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

// Listener recibe la clave modificada y su nueva revisión.
type Listener func(key string, revision uint64)

// Feed revisiones por clave y suscriptores.
type Feed struct {
	mu        sync.Mutex
	revisions map[string]uint64
	listeners map[int]Listener
	nextID    int
	log       *logger.Logger
}

// New construye un feed vacío.
func New(log *logger.Logger) *Feed {
	return &Feed{
		revisions: make(map[string]uint64),
		listeners: make(map[int]Listener),
		log:       log.Component("changefeed"),
	}
}

// Notify sube la revisión de key y llama a los suscriptores en orden de alta.
func (f *Feed) Notify(key string) {
	f.mu.Lock()
	f.revisions[key]++
	rev := f.revisions[key]
	ids := make([]int, 0, len(f.listeners))
	for id := range f.listeners {
		ids = append(ids, id)
	}
	listeners := make([]Listener, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		listeners = append(listeners, f.listeners[id])
	}
	f.mu.Unlock()

	f.log.Debug().Str("key", key).Uint64("revision", rev).Msg("cambio externo")
	for _, fn := range listeners {
		fn(key, rev)
	}
}

// Subscribe registra fn; la función devuelta lo da de baja.
func (f *Feed) Subscribe(fn Listener) (unsubscribe func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

// Revision revisión actual de key (0 si nunca cambió).
func (f *Feed) Revision(key string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revisions[key]
}

// Revisions copia de todas las revisiones.
func (f *Feed) Revisions() map[string]uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]uint64, len(f.revisions))
	for k, v := range f.revisions {
		out[k] = v
	}
	return out
}

// Run conecta un ChangeWatcher al feed. Bloquea hasta que ctx se cancele;
// la cancelación no se reporta como error.
func (f *Feed) Run(ctx context.Context, w repository.ChangeWatcher) error {
	err := w.Watch(ctx, f.Notify)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
