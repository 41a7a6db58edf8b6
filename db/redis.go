// db/redis.go
package db

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/Ricardo-Z-Li/access-control-system-sub000/logging"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
)

var (
	RedisClient   *redis.Client
	encryptionKey []byte
)

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	encryptionKey = []byte(viper.GetString("redis.encryptionKey"))
	if len(encryptionKey) != 32 {
		return fmt.Errorf("invalid encryption key length: must be 32 bytes")
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

func encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// Badge cache entries carry credential identifiers, so they are encrypted at rest.
func CacheBadge(ctx context.Context, badge *model.Badge) error {
	badgeJSON, err := json.Marshal(badge)
	if err != nil {
		return fmt.Errorf("failed to marshal badge: %w", err)
	}

	encryptedBadge, err := encrypt(badgeJSON)
	if err != nil {
		return fmt.Errorf("failed to encrypt badge: %w", err)
	}

	key := fmt.Sprintf("badge:%s", badge.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, base64.StdEncoding.EncodeToString(encryptedBadge), defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache badge: %w", err)
	}

	logger.Debug("Badge cached successfully", zap.String("badgeID", badge.ID))
	return nil
}

func GetCachedBadge(ctx context.Context, badgeID string) (*model.Badge, error) {
	key := fmt.Sprintf("badge:%s", badgeID)
	encryptedBadgeStr, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Badge not found in cache", zap.String("badgeID", badgeID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get badge from cache: %w", err)
	}

	encryptedBadge, err := base64.StdEncoding.DecodeString(encryptedBadgeStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode badge: %w", err)
	}

	badgeJSON, err := decrypt(encryptedBadge)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt badge: %w", err)
	}

	var badge model.Badge
	err = json.Unmarshal(badgeJSON, &badge)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal badge: %w", err)
	}

	logger.Debug("Badge retrieved from cache", zap.String("badgeID", badgeID))
	return &badge, nil
}

func DeleteCachedBadge(ctx context.Context, badgeID string) error {
	key := fmt.Sprintf("badge:%s", badgeID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete badge from cache: %w", err)
	}
	logger.Debug("Badge deleted from cache", zap.String("badgeID", badgeID))
	return nil
}

// Employee cache entries carry personal data, so they are encrypted at rest.
func CacheEmployee(ctx context.Context, employee *model.Employee) error {
	employeeJSON, err := json.Marshal(employee)
	if err != nil {
		return fmt.Errorf("failed to marshal employee: %w", err)
	}

	encryptedEmployee, err := encrypt(employeeJSON)
	if err != nil {
		return fmt.Errorf("failed to encrypt employee: %w", err)
	}

	key := fmt.Sprintf("employee:%s", employee.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, base64.StdEncoding.EncodeToString(encryptedEmployee), defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache employee: %w", err)
	}

	logger.Debug("Employee cached successfully", zap.String("employeeID", employee.ID))
	return nil
}

func GetCachedEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	key := fmt.Sprintf("employee:%s", employeeID)
	encryptedEmployeeStr, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Employee not found in cache", zap.String("employeeID", employeeID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get employee from cache: %w", err)
	}

	encryptedEmployee, err := base64.StdEncoding.DecodeString(encryptedEmployeeStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode employee: %w", err)
	}

	employeeJSON, err := decrypt(encryptedEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt employee: %w", err)
	}

	var employee model.Employee
	err = json.Unmarshal(employeeJSON, &employee)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal employee: %w", err)
	}

	logger.Debug("Employee retrieved from cache", zap.String("employeeID", employeeID))
	return &employee, nil
}

func DeleteCachedEmployee(ctx context.Context, employeeID string) error {
	key := fmt.Sprintf("employee:%s", employeeID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete employee from cache: %w", err)
	}
	logger.Debug("Employee deleted from cache", zap.String("employeeID", employeeID))
	return nil
}

func CacheResource(ctx context.Context, resource *model.Resource) error {
	resourceJSON, err := json.Marshal(resource)
	if err != nil {
		return fmt.Errorf("failed to marshal resource: %w", err)
	}

	key := fmt.Sprintf("resource:%s", resource.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, resourceJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache resource: %w", err)
	}

	logger.Debug("Resource cached successfully", zap.String("resourceID", resource.ID))
	return nil
}

func GetCachedResource(ctx context.Context, resourceID string) (*model.Resource, error) {
	key := fmt.Sprintf("resource:%s", resourceID)
	resourceJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Resource not found in cache", zap.String("resourceID", resourceID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get resource from cache: %w", err)
	}

	var resource model.Resource
	err = json.Unmarshal([]byte(resourceJSON), &resource)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal resource: %w", err)
	}

	logger.Debug("Resource retrieved from cache", zap.String("resourceID", resourceID))
	return &resource, nil
}

func DeleteCachedResource(ctx context.Context, resourceID string) error {
	key := fmt.Sprintf("resource:%s", resourceID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete resource from cache: %w", err)
	}
	logger.Debug("Resource deleted from cache", zap.String("resourceID", resourceID))
	return nil
}

func CacheProfile(ctx context.Context, profile *model.AccessProfile) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	key := fmt.Sprintf("profile:%s", profile.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, profileJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache profile: %w", err)
	}

	logger.Debug("Profile cached successfully", zap.String("profileID", profile.ID))
	return nil
}

func GetCachedProfile(ctx context.Context, profileID string) (*model.AccessProfile, error) {
	key := fmt.Sprintf("profile:%s", profileID)
	profileJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Profile not found in cache", zap.String("profileID", profileID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get profile from cache: %w", err)
	}

	var profile model.AccessProfile
	err = json.Unmarshal([]byte(profileJSON), &profile)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	logger.Debug("Profile retrieved from cache", zap.String("profileID", profileID))
	return &profile, nil
}

func DeleteCachedProfile(ctx context.Context, profileID string) error {
	key := fmt.Sprintf("profile:%s", profileID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete profile from cache: %w", err)
	}
	logger.Debug("Profile deleted from cache", zap.String("profileID", profileID))
	return nil
}

func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	pipe := RedisClient.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}

func LockResource(ctx context.Context, resourceName string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:%s", resourceName)
	locked, err := RedisClient.SetNX(ctx, key, "locked", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	logger.Debug("Lock acquisition attempt",
		zap.String("resource", resourceName),
		zap.Bool("locked", locked))
	return locked, nil
}

func UnlockResource(ctx context.Context, resourceName string) error {
	key := fmt.Sprintf("lock:%s", resourceName)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	logger.Debug("Lock released", zap.String("resource", resourceName))
	return nil
}
