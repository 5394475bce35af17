package kvstore_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/awfacturas/internal/domain/repository"
	"github.com/jhoicas/awfacturas/internal/infrastructure/kvstore"
	"github.com/jhoicas/awfacturas/pkg/config"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

func exerciseStore(t *testing.T, s repository.KVStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "awfacturas_clientes")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "awfacturas_clientes", `[{"id":"a"}]`))
	v, ok, err := s.Get(ctx, "awfacturas_clientes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, v)

	require.NoError(t, s.Set(ctx, "awfacturas_clientes", `[]`))
	v, _, _ = s.Get(ctx, "awfacturas_clientes")
	assert.Equal(t, `[]`, v, "la última escritura gana")

	require.NoError(t, s.Remove(ctx, "awfacturas_clientes"))
	_, ok, err = s.Get(ctx, "awfacturas_clientes")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Remove(ctx, "no_existe"), "borrar una clave ausente no es error")
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, kvstore.NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := kvstore.NewFileStore(t.TempDir(), logger.Nop())
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStore_ClaveConCaracteresRaros(t *testing.T) {
	dir := t.TempDir()
	s, err := kvstore.NewFileStore(dir, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "../fuera/clave", "x"))
	_, err = os.Stat(filepath.Join(dir, "___fuera_clave.json"))
	assert.NoError(t, err, "la clave se sanea y queda dentro del directorio")
}

func TestFileStore_WatchReportaSoloCambiosExternos(t *testing.T) {
	dir := t.TempDir()
	s, err := kvstore.NewFileStore(dir, logger.Nop())
	require.NoError(t, err)

	var mu sync.Mutex
	var keys []string
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = s.Watch(ctx, func(key string) {
			mu.Lock()
			keys = append(keys, key)
			mu.Unlock()
		})
	}()
	// Dar tiempo a que el watcher quede registrado.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, s.Set(ctx, "invoices_fx", `[]`))
	// Otro proceso escribe directamente el archivo.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "awfacturas_clientes.json"), []byte(`[]`), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(keys) > 0
	}, 3*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, keys, "awfacturas_clientes")
	assert.NotContains(t, keys, "invoices_fx", "las escrituras propias no se notifican")
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR no definido")
	}
	ctx := context.Background()
	s, err := kvstore.NewRedisStore(ctx, config.RedisConfig{Addr: addr, Prefix: "awfacturas_test_" + time.Now().Format("150405.000")}, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}
