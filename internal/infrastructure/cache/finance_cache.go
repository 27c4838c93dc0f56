package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Estoque-api/internal/application/finance"
)

var _ finance.Cache = (*FinanceCache)(nil)

const keyPrefix = "finance"

// FinanceCache caché de métricas en Redis con una versión por tenant.
// Cada escritura de documentos incrementa la versión del tenant y deja huérfanas las claves anteriores (expiran por TTL).
// Un client nil desactiva la caché: FetchJSON siempre llama al loader.
type FinanceCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewFinanceCache construye la caché.
func NewFinanceCache(client *redis.Client, ttl time.Duration) *FinanceCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &FinanceCache{client: client, ttl: ttl}
}

func versionKey(companyID string) string {
	return keyPrefix + ":version:" + companyID
}

// Version devuelve la versión actual del tenant, inicializándola en 1.
func (c *FinanceCache) Version(ctx context.Context, companyID string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey(companyID)).Int64()
	if errors.Is(err, redis.Nil) || (err == nil && ver <= 0) {
		// SetNX: si otro proceso ya la creó se respeta su valor
		if err := c.client.SetNX(ctx, versionKey(companyID), 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey(companyID)).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey compone finance:<tenant>:<parts>:v<versión>.
func (c *FinanceCache) BuildKey(ctx context.Context, companyID string, parts ...string) (string, error) {
	base := strings.Join(append([]string{keyPrefix, companyID}, parts...), ":")
	if c == nil || c.client == nil {
		return base, nil
	}
	ver, err := c.Version(ctx, companyID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", base, ver), nil
}

// FetchJSON lee key en dest; si no existe ejecuta loader una sola vez por clave (singleflight) y guarda el resultado.
func (c *FinanceCache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return roundTrip(value, dest)
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return err
	}

	ch := c.group.DoChan(key, func() (any, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			return nil, err
		}
		return raw, nil
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		return json.Unmarshal(res.Val.([]byte), dest)
	}
}

// Bump invalida las métricas cacheadas del tenant.
func (c *FinanceCache) Bump(ctx context.Context, companyID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey(companyID)).Err()
}

func roundTrip(value, dest any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
