package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zhwaweb/zhwaweb-admin/config"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
)

const revokedKeyPrefix = "revoked:"

// Connect opens a client and pings it once.
func Connect(cfg *config.RedisConfig) (*redis.Client, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return client, nil
}

// RevocationList stores revoked token ids until their natural expiry.
type RevocationList struct {
	client *redis.Client
}

func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

func revokedKey(jti string) string {
	return revokedKeyPrefix + jti
}

// Revoke marks jti as revoked for ttl. A non-positive ttl is a no-op since
// the token is already expired.
func (r *RevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("token id is required")
	}
	if ttl <= 0 {
		return nil
	}

	logger.Debug("Revoking token", map[string]interface{}{
		"jti":    jti,
		"expiry": ttl.String(),
	})

	if err := r.client.Set(ctx, revokedKey(jti), "1", ttl).Err(); err != nil {
		logger.Error("Failed to revoke token", err, map[string]interface{}{
			"jti": jti,
		})
		return err
	}
	return nil
}

// IsRevoked reports whether jti was revoked.
func (r *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}

	n, err := r.client.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		logger.Error("Failed to check token revocation", err, map[string]interface{}{
			"jti": jti,
		})
		return false, err
	}
	return n > 0, nil
}
