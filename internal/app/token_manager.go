package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/entregas/internal/models"
)

const (
	timeFormat  = "2006-01-02 15:04:05"
	tokenPrefix = "sk-entregas-"
)

// TokenManager issues the bearer tokens that Auth checks.
type TokenManager struct {
	redis       *redis.Client
	keyTemplate string
}

func NewTokenManager(redis *redis.Client, keyTemplate string) *TokenManager {
	return &TokenManager{redis: redis, keyTemplate: keyTemplate}
}

func generateToken() (string, error) {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return tokenPrefix + hex.EncodeToString(randomBytes), nil
}

// FetchOrCreateClientToken returns the client's token for the course,
// creating it on first use. The bool reports whether it was just created.
func (tm *TokenManager) FetchOrCreateClientToken(ctx context.Context, course, client string) (*models.APIToken, bool, error) {
	key := tokenKey(tm.keyTemplate, course, client)

	_, err := tm.redis.HGet(ctx, key, "token").Result()
	if err != nil && err != redis.Nil {
		return nil, false, fmt.Errorf("failed to check token: %w", err)
	}

	now := time.Now().UTC()
	isNewToken := false

	if err == redis.Nil {
		token, err := generateToken()
		if err != nil {
			return nil, false, fmt.Errorf("failed to generate token: %w", err)
		}

		if err := tm.redis.HSet(ctx, key, map[string]interface{}{
			"token":                token,
			"request_count":        1,
			"last_issued_dttm_utc": now.Format(timeFormat),
			"created_dttm_utc":     now.Format(timeFormat),
		}).Err(); err != nil {
			return nil, false, fmt.Errorf("failed to create token: %w", err)
		}

		isNewToken = true
	} else {
		pipe := tm.redis.Pipeline()
		pipe.HIncrBy(ctx, key, "request_count", 1)
		pipe.HSet(ctx, key, "last_issued_dttm_utc", now.Format(timeFormat))

		if _, err := pipe.Exec(ctx); err != nil {
			return nil, false, fmt.Errorf("failed to update token stats: %w", err)
		}
	}

	values, err := tm.redis.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get token info: %w", err)
	}

	lastIssued, _ := time.Parse(timeFormat, values["last_issued_dttm_utc"])
	createdTime, _ := time.Parse(timeFormat, values["created_dttm_utc"])
	reqCount, _ := strconv.Atoi(values["request_count"])

	return &models.APIToken{
		Course:       course,
		Client:       client,
		Token:        values["token"],
		RequestCount: reqCount,
		LastIssued:   lastIssued,
		CreatedTime:  createdTime,
	}, isNewToken, nil
}

// RevokeClientToken deletes the client's token; later requests get 401.
func (tm *TokenManager) RevokeClientToken(ctx context.Context, course, client string) error {
	key := tokenKey(tm.keyTemplate, course, client)
	if err := tm.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (tm *TokenManager) Close() error {
	if tm.redis != nil {
		return tm.redis.Close()
	}
	return nil
}
