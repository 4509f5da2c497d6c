package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-historico/internal/application/report"
	"github.com/jhoicas/inventario-historico/internal/domain"
	"github.com/jhoicas/inventario-historico/pkg/logger"
)

// ErrLocked otra generación del reporte está en curso.
var ErrLocked = fmt.Errorf("%w: generación del reporte en curso", domain.ErrConflict)

// DefaultKey clave del lock distribuido de generación.
const DefaultKey = "lock:inventory-report"

var (
	_ report.RunLocker = (*Local)(nil)
	_ report.RunLocker = (*Redis)(nil)
	_ report.RunLocker = Chain(nil)
)

// Local lock en proceso. No espera: si está tomado devuelve ErrLocked.
type Local struct {
	mu sync.Mutex
}

// NewLocal construye el lock local.
func NewLocal() *Local {
	return &Local{}
}

// Acquire toma el lock o falla de inmediato.
func (l *Local) Acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !l.mu.TryLock() {
		return nil, ErrLocked
	}
	var once sync.Once
	return func() { once.Do(l.mu.Unlock) }, nil
}

// Redis lock distribuido sobre redislock para varias instancias del servicio.
type Redis struct {
	client *redislock.Client
	key    string
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedis construye el lock distribuido. Mientras se tiene, el TTL se renueva cada ttl/2;
// si el proceso muere el lock expira a lo sumo en ttl.
func NewRedis(rdb *redis.Client, key string, ttl time.Duration, log *logger.Logger) *Redis {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Redis{client: redislock.New(rdb), key: key, ttl: ttl, log: log}
}

// Acquire obtiene el lock en Redis; ErrLocked si lo tiene otra instancia.
func (r *Redis) Acquire(ctx context.Context) (func(), error) {
	lk, err := r.client.Obtain(ctx, r.key, r.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLocked
	}
	if err != nil {
		return nil, fmt.Errorf("obtener lock redis: %w", err)
	}
	stop := keepAlive(r.ttl/2, func(ctx context.Context) error {
		return lk.Refresh(ctx, r.ttl, nil)
	}, func(err error) {
		r.log.Warn().Err(err).Str("key", r.key).Msg("renovar lock redis")
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			stop()
			// ctx puede estar cancelado al liberar; el lock se suelta igual
			if err := lk.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				r.log.Warn().Err(err).Str("key", r.key).Msg("liberar lock redis")
			}
		})
	}, nil
}

// keepAlive llama a refresh cada every hasta stop. Si el lock ya no está tomado deja de renovar.
// stop espera a que termine la renovación en curso.
func keepAlive(every time.Duration, refresh func(context.Context) error, onErr func(error)) (stop func()) {
	if every <= 0 {
		return func() {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := refresh(ctx)
				if err == nil || ctx.Err() != nil {
					continue
				}
				onErr(err)
				if errors.Is(err, redislock.ErrNotObtained) {
					return
				}
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

// Chain toma los locks en orden y los suelta en orden inverso.
type Chain []report.RunLocker

// Acquire toma todos los locks; si alguno falla suelta los ya tomados.
func (c Chain) Acquire(ctx context.Context) (func(), error) {
	releases := make([]func(), 0, len(c))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, l := range c {
		release, err := l.Acquire(ctx)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}
