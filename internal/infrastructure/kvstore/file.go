package kvstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/jhoicas/awfacturas/internal/domain/repository"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

var (
	_ repository.KVStore       = (*FileStore)(nil)
	_ repository.ChangeWatcher = (*FileStore)(nil)
)

const (
	fileExt    = ".json"
	tempPrefix = ".tmp-"
	// marca en written de una clave eliminada por este proceso.
	removedMark = "\x00removed"
)

// FileStore guarda cada clave en <dir>/<clave>.json. Las escrituras son atómicas
// (archivo temporal + rename) así otro proceso nunca lee un arreglo a medias.
type FileStore struct {
	dir string
	log *logger.Logger

	mu sync.Mutex
	// último contenido escrito por este proceso, para no reportar cambios propios.
	written map[string]string
}

// NewFileStore crea el directorio si no existe.
func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kvstore: crear directorio %s: %w", dir, err)
	}
	return &FileStore{dir: dir, log: log.Component("kvstore.file"), written: make(map[string]string)}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+fileExt)
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kvstore: leer %s: %w", key, err)
	}
	return string(b), true, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("kvstore: archivo temporal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("kvstore: escribir %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("kvstore: cerrar %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("kvstore: reemplazar %s: %w", key, err)
	}
	s.written[sanitizeKey(key)] = value
	return nil
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("kvstore: eliminar %s: %w", key, err)
	}
	s.written[sanitizeKey(key)] = removedMark
	return nil
}

// Watch observa el directorio y llama fn con la clave cuando otro proceso la modifica.
// Es el equivalente al evento "storage" entre pestañas: solo avisa, no mezcla datos.
func (s *FileStore) Watch(ctx context.Context, fn func(key string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("kvstore: crear watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(s.dir); err != nil {
		return fmt.Errorf("kvstore: observar %s: %w", s.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			key, ok := s.keyFromEvent(ev)
			if !ok || s.isOwnWrite(key) {
				continue
			}
			s.log.Debug().Str("key", key).Str("op", ev.Op.String()).Msg("cambio externo detectado")
			fn(key)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn().Err(err).Msg("error del watcher")
		}
	}
}

func (s *FileStore) keyFromEvent(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return "", false
	}
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, tempPrefix) || !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	return strings.TrimSuffix(name, fileExt), true
}

// isOwnWrite compara el contenido actual del archivo con lo último que escribimos.
func (s *FileStore) isOwnWrite(key string) bool {
	s.mu.Lock()
	last, ok := s.written[key]
	s.mu.Unlock()

	b, err := os.ReadFile(filepath.Join(s.dir, key+fileExt))
	if err != nil {
		return errors.Is(err, os.ErrNotExist) && ok && last == removedMark
	}
	return ok && string(b) == last
}

// sanitizeKey deja solo caracteres seguros para un nombre de archivo.
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, key)
}
