package http

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/awfacturas/internal/application/changefeed"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

// DefaultSyncWait espera máxima de GET /api/sync?key=&since= antes de responder sin cambios.
const DefaultSyncWait = 25 * time.Second

// SyncResponse revisiones por colección; si cambian hay que volver a leer.
type SyncResponse struct {
	Revisions map[string]uint64 `json:"revisions"`
}

// KeySyncResponse resultado de esperar cambios en una colección.
type KeySyncResponse struct {
	Key      string `json:"key"`
	Revision uint64 `json:"revision"`
	Changed  bool   `json:"changed"`
}

// SyncHandler expone el feed de cambios externos.
type SyncHandler struct {
	feed *changefeed.Feed
	wait time.Duration
	log  *logger.Logger
}

// NewSyncHandler construye el handler. wait <= 0 toma DefaultSyncWait.
func NewSyncHandler(feed *changefeed.Feed, wait time.Duration, log *logger.Logger) *SyncHandler {
	if wait <= 0 {
		wait = DefaultSyncWait
	}
	return &SyncHandler{feed: feed, wait: wait, log: log}
}

// Get GET /api/sync
//
// Sin key devuelve todas las revisiones. Con key y since espera (long polling)
// hasta que la revisión de key supere since o venza la espera.
func (h *SyncHandler) Get(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return c.JSON(SyncResponse{Revisions: h.feed.Revisions()})
	}

	since := uint64(0)
	if raw := c.Query("since"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return respondError(c, h.log, invalidQuery(err))
		}
		since = v
	}

	rev := h.waitForChange(c.UserContext(), key, since)
	return c.JSON(KeySyncResponse{Key: key, Revision: rev, Changed: rev > since})
}

func (h *SyncHandler) waitForChange(ctx context.Context, key string, since uint64) uint64 {
	changed := make(chan uint64, 1)
	unsubscribe := h.feed.Subscribe(func(k string, rev uint64) {
		if k != key {
			return
		}
		select {
		case changed <- rev:
		default:
		}
	})
	defer unsubscribe()

	// después de suscribir, para no perder un Notify intermedio
	if rev := h.feed.Revision(key); rev > since {
		return rev
	}

	timer := time.NewTimer(h.wait)
	defer timer.Stop()
	select {
	case rev := <-changed:
		return rev
	case <-timer.C:
	case <-ctx.Done():
	}
	return h.feed.Revision(key)
}
