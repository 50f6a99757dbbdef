package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clinic-portal/internal/domain/entity"

	"github.com/redis/go-redis/v9"
)

const referenceKeyPrefix = "reference:"

// ReferenceCache keeps serialized reference lists in Redis for ttl.
type ReferenceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReferenceCache(client *redis.Client, ttl time.Duration) *ReferenceCache {
	return &ReferenceCache{client: client, ttl: ttl}
}

func referenceKey(kind entity.ReferenceKind) string {
	return referenceKeyPrefix + string(kind)
}

// Get decodes the cached list into dest. It reports false on a miss.
func (c *ReferenceCache) Get(ctx context.Context, kind entity.ReferenceKind, dest interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, referenceKey(kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s from cache: %w", kind, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", kind, err)
	}
	return true, nil
}

func (c *ReferenceCache) Set(ctx context.Context, kind entity.ReferenceKind, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	if err := c.client.Set(ctx, referenceKey(kind), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s in cache: %w", kind, err)
	}
	return nil
}

// Prime writes both lists in a single transaction pipeline.
func (c *ReferenceCache) Prime(ctx context.Context, medications []entity.Medication, dosages []entity.Dosage) error {
	rawMedications, err := json.Marshal(medications)
	if err != nil {
		return fmt.Errorf("encode medications: %w", err)
	}
	rawDosages, err := json.Marshal(dosages)
	if err != nil {
		return fmt.Errorf("encode dosages: %w", err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, referenceKey(entity.ReferenceMedications), rawMedications, c.ttl)
	pipe.Set(ctx, referenceKey(entity.ReferenceDosages), rawDosages, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("prime reference cache: %w", err)
	}
	return nil
}

func (c *ReferenceCache) Invalidate(ctx context.Context) error {
	err := c.client.Del(ctx, referenceKey(entity.ReferenceMedications), referenceKey(entity.ReferenceDosages)).Err()
	if err != nil {
		return fmt.Errorf("invalidate reference cache: %w", err)
	}
	return nil
}
