// api/db/redis.go
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

	logger "github.com/argus-admin/argus/api/logging"
	"github.com/argus-admin/argus/api/model"
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

// Cache and login helpers degrade to no-ops when Redis was never
// initialized, so a cache miss path is the worst case without it.

func CacheUser(ctx context.Context, user *model.User) error {
	if RedisClient == nil {
		return nil
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	key := fmt.Sprintf("user:%d", user.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, userJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}

	logger.Debug("User cached successfully", zap.Int("userID", user.ID))
	return nil
}

func DeleteCachedUser(ctx context.Context, userID int) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf("user:%d", userID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete user from cache: %w", err)
	}
	logger.Debug("User deleted from cache", zap.Int("userID", userID))
	return nil
}

func GetCachedUser(ctx context.Context, userID int) (*model.User, error) {
	if RedisClient == nil {
		return nil, nil
	}
	key := fmt.Sprintf("user:%d", userID)
	userJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("User not found in cache", zap.Int("userID", userID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user from cache: %w", err)
	}

	var user model.User
	err = json.Unmarshal([]byte(userJSON), &user)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	logger.Debug("User retrieved from cache", zap.Int("userID", userID))
	return &user, nil
}

func CacheRole(ctx context.Context, role *model.Role) error {
	if RedisClient == nil {
		return nil
	}
	roleJSON, err := json.Marshal(role)
	if err != nil {
		return fmt.Errorf("failed to marshal role: %w", err)
	}

	key := fmt.Sprintf("role:%d", role.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, roleJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache role: %w", err)
	}

	logger.Debug("Role cached successfully", zap.Int("roleID", role.ID))
	return nil
}

func DeleteCachedRole(ctx context.Context, roleID int) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf("role:%d", roleID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete role from cache: %w", err)
	}
	logger.Debug("Role deleted from cache", zap.Int("roleID", roleID))
	return nil
}

func GetCachedRole(ctx context.Context, roleID int) (*model.Role, error) {
	if RedisClient == nil {
		return nil, nil
	}
	key := fmt.Sprintf("role:%d", roleID)
	roleJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Role not found in cache", zap.Int("roleID", roleID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get role from cache: %w", err)
	}

	var role model.Role
	err = json.Unmarshal([]byte(roleJSON), &role)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal role: %w", err)
	}

	logger.Debug("Role retrieved from cache", zap.Int("roleID", roleID))
	return &role, nil
}

func CacheDepartment(ctx context.Context, department *model.Department) error {
	if RedisClient == nil {
		return nil
	}
	departmentJSON, err := json.Marshal(department)
	if err != nil {
		return fmt.Errorf("failed to marshal department: %w", err)
	}

	key := fmt.Sprintf("department:%d", department.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, departmentJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache department: %w", err)
	}

	logger.Debug("Department cached successfully", zap.Int("departmentID", department.ID))
	return nil
}

func DeleteCachedDepartment(ctx context.Context, departmentID int) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf("department:%d", departmentID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete department from cache: %w", err)
	}
	logger.Debug("Department deleted from cache", zap.Int("departmentID", departmentID))
	return nil
}

func GetCachedDepartment(ctx context.Context, departmentID int) (*model.Department, error) {
	if RedisClient == nil {
		return nil, nil
	}
	key := fmt.Sprintf("department:%d", departmentID)
	departmentJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Department not found in cache", zap.Int("departmentID", departmentID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get department from cache: %w", err)
	}

	var department model.Department
	err = json.Unmarshal([]byte(departmentJSON), &department)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal department: %w", err)
	}

	logger.Debug("Department retrieved from cache", zap.Int("departmentID", departmentID))
	return &department, nil
}

// SavedLogin is the remember-me record. Credentials are AES-GCM encrypted
// before they touch Redis.
type SavedLogin struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

func SaveLoginInfo(ctx context.Context, info SavedLogin, ttl time.Duration) error {
	if RedisClient == nil {
		return nil
	}
	infoJSON, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal login info: %w", err)
	}

	encrypted, err := encrypt(infoJSON)
	if err != nil {
		return fmt.Errorf("failed to encrypt login info: %w", err)
	}

	key := fmt.Sprintf("login:%s", info.Username)
	err = RedisClient.Set(ctx, key, base64.StdEncoding.EncodeToString(encrypted), ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to save login info: %w", err)
	}

	logger.Debug("Login info saved", zap.String("username", info.Username))
	return nil
}

func GetLoginInfo(ctx context.Context, username string) (*SavedLogin, error) {
	if RedisClient == nil {
		return nil, nil
	}
	key := fmt.Sprintf("login:%s", username)
	encryptedStr, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get login info: %w", err)
	}

	encrypted, err := base64.StdEncoding.DecodeString(encryptedStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode login info: %w", err)
	}

	infoJSON, err := decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt login info: %w", err)
	}

	var info SavedLogin
	err = json.Unmarshal(infoJSON, &info)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal login info: %w", err)
	}
	return &info, nil
}

func ClearLoginInfo(ctx context.Context, username string) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf("login:%s", username)
	if err := RedisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear login info: %w", err)
	}
	logger.Debug("Login info cleared", zap.String("username", username))
	return nil
}

func StoreToken(ctx context.Context, token string, userID int, ttl time.Duration) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf("token:%s", token)
	if err := RedisClient.Set(ctx, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

func RevokeToken(ctx context.Context, token string) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf("token:%s", token)
	if err := RedisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	if RedisClient == nil {
		return true, nil
	}
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
