package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis mirror of the durable exhausted column, so orchestrated actions can
// short-circuit without a balance read. All helpers tolerate a nil client.

func exhaustedKey(actorID uuid.UUID) string {
	return fmt.Sprintf("credits:exhausted:%s", actorID.String())
}

func SetExhaustedFlag(ctx context.Context, rdb *redis.Client, actorID uuid.UUID) error {
	if rdb == nil {
		return nil
	}
	return rdb.Set(ctx, exhaustedKey(actorID), "1", 0).Err()
}

func ClearExhaustedFlag(ctx context.Context, rdb *redis.Client, actorID uuid.UUID) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.Del(ctx, exhaustedKey(actorID)).Result()
	return err
}

// GetExhaustedFlag returns (exhausted, known). known is false when Redis is
// absent or errored, in which case the caller falls back to the balance row.
func GetExhaustedFlag(ctx context.Context, rdb *redis.Client, actorID uuid.UUID) (bool, bool) {
	if rdb == nil {
		return false, false
	}
	val, err := rdb.Get(ctx, exhaustedKey(actorID)).Result()
	if err != nil {
		return false, false
	}
	return val == "1", true
}
