package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/confgen-ops/confgen/pkg/util"
)

// Lock TTL bounds how long a crashed deploy can hold a site.
const lockTTL = 10 * time.Minute

// Locker serializes deployments per site through Redis. A nil Locker
// is valid and locks nothing, so deployments work without Redis
// configured.
type Locker struct {
	client *redis.Client
}

// NewLocker connects to Redis at addr. Returns nil when addr is empty.
func NewLocker(addr string) *Locker {
	if addr == "" {
		return nil
	}
	return &Locker{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Close releases the Redis connection.
func (l *Locker) Close() error {
	if l == nil {
		return nil
	}
	return l.client.Close()
}

func lockKey(site string) string {
	return "confgen:lock:" + site
}

func recordKey(site string) string {
	return "confgen:lastdeploy:" + site
}

// Acquire takes the site lock for owner. Fails with ErrSiteLocked when
// another owner holds it.
func (l *Locker) Acquire(ctx context.Context, site, owner string) error {
	if l == nil {
		return nil
	}

	ok, err := l.client.SetNX(ctx, lockKey(site), owner, lockTTL).Result()
	if err != nil {
		return fmt.Errorf("acquiring lock for %s: %w", site, err)
	}
	if !ok {
		holder, _ := l.client.Get(ctx, lockKey(site)).Result()
		return fmt.Errorf("site %s held by %s: %w", site, holder, util.ErrSiteLocked)
	}
	return nil
}

// Release drops the site lock if owner still holds it.
func (l *Locker) Release(ctx context.Context, site, owner string) error {
	if l == nil {
		return nil
	}

	holder, err := l.client.Get(ctx, lockKey(site)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("releasing lock for %s: %w", site, err)
	}
	if holder != owner {
		// Lock expired and was re-taken; not ours to release.
		return nil
	}
	return l.client.Del(ctx, lockKey(site)).Err()
}

// DeployRecord is the last successful deployment of a site.
type DeployRecord struct {
	Site       string    `json:"site"`
	Vendor     string    `json:"vendor"`
	User       string    `json:"user"`
	ConfigHash string    `json:"config_hash"`
	Timestamp  time.Time `json:"timestamp"`
}

// RecordDeploy stores the last-deploy record for a site.
func (l *Locker) RecordDeploy(ctx context.Context, rec *DeployRecord) error {
	if l == nil {
		return nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return l.client.Set(ctx, recordKey(rec.Site), data, 0).Err()
}

// LastDeploy fetches the last-deploy record for a site.
func (l *Locker) LastDeploy(ctx context.Context, site string) (*DeployRecord, error) {
	if l == nil {
		return nil, util.ErrNotFound
	}

	data, err := l.client.Get(ctx, recordKey(site)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("no deploy record for %s: %w", site, util.ErrNotFound)
		}
		return nil, err
	}

	var rec DeployRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("corrupt deploy record for %s: %w", site, err)
	}
	return &rec, nil
}
