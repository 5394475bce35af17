package repository

import "context"

// KVStore primitiva de persistencia: un almacén clave → texto con get/set/remove
// síncronos. Cada colección se guarda completa como un arreglo JSON bajo su clave.
type KVStore interface {
	// Get devuelve el valor y si la clave existe.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// ChangeWatcher lo implementan los almacenes que pueden observar escrituras de
// otros procesos. fn recibe la clave modificada; Watch bloquea hasta que ctx termine.
type ChangeWatcher interface {
	Watch(ctx context.Context, fn func(key string)) error
}
