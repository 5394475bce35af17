package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/awfacturas/internal/domain/repository"
	"github.com/jhoicas/awfacturas/pkg/config"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

var (
	_ repository.KVStore       = (*RedisStore)(nil)
	_ repository.ChangeWatcher = (*RedisStore)(nil)
)

// changeMessage se publica en el canal de cambios después de cada escritura.
type changeMessage struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// RedisStore guarda cada colección como un string en "<prefix>:<clave>" y avisa
// las escrituras por Pub/Sub en "<prefix>:changes" para que otras instancias relean.
type RedisStore struct {
	client     *redis.Client
	ownsClient bool
	prefix     string
	origin     string
	log        *logger.Logger
}

// NewRedisStore abre la conexión y verifica con PING.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("kvstore: conectar a Redis: %w", err)
	}

	s := NewRedisStoreWithClient(client, cfg.Prefix, log)
	s.ownsClient = true
	return s, nil
}

// NewRedisStoreWithClient usa un cliente existente; el llamador lo cierra.
func NewRedisStoreWithClient(client *redis.Client, prefix string, log *logger.Logger) *RedisStore {
	if prefix == "" {
		prefix = "awfacturas"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		origin: uuid.NewString(),
		log:    log.Component("kvstore.redis"),
	}
}

func (s *RedisStore) redisKey(key string) string { return s.prefix + ":" + key }
func (s *RedisStore) channel() string            { return s.prefix + ":changes" }

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kvstore: GET %s: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	msg, err := s.changePayload(key)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.redisKey(key), value, 0)
		pipe.Publish(ctx, s.channel(), msg)
		return nil
	})
	if err != nil {
		return fmt.Errorf("kvstore: SET %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	msg, err := s.changePayload(key)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.redisKey(key))
		pipe.Publish(ctx, s.channel(), msg)
		return nil
	})
	if err != nil {
		return fmt.Errorf("kvstore: DEL %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) changePayload(key string) ([]byte, error) {
	b, err := json.Marshal(changeMessage{Key: key, Origin: s.origin})
	if err != nil {
		return nil, fmt.Errorf("kvstore: serializar aviso de cambio: %w", err)
	}
	return b, nil
}

// Watch se suscribe al canal de cambios e ignora los avisos de esta misma instancia.
// Bloquea hasta que ctx se cancele.
func (s *RedisStore) Watch(ctx context.Context, fn func(key string)) error {
	pubsub := s.client.Subscribe(ctx, s.channel())
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("kvstore: suscribirse a %s: %w", s.channel(), err)
	}
	s.log.Info().Str("channel", s.channel()).Msg("suscrito a cambios")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var change changeMessage
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				s.log.Warn().Err(err).Str("payload", msg.Payload).Msg("aviso de cambio inválido")
				continue
			}
			if change.Origin == s.origin {
				continue
			}
			fn(change.Key)
		}
	}
}

// Close cierra el cliente si fue creado por NewRedisStore.
func (s *RedisStore) Close() error {
	if s.ownsClient {
		return s.client.Close()
	}
	return nil
}
