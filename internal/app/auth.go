// internal/app/auth.go
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"
)

var ErrUnauthorized = errors.New("unauthorized")

type Auth struct {
	enabled     bool
	redis       *redis.Client
	keyTemplate string
	tokenHeader string
}

func NewAuth(config *Config) (*Auth, error) {
	if !config.Server.EnableAuth {
		return &Auth{enabled: false, tokenHeader: config.Auth.TokenHeader}, nil
	}

	client, err := NewRedisClient(config.Auth.RedisURL)
	if err != nil {
		return nil, err
	}

	return &Auth{
		enabled:     true,
		redis:       client,
		keyTemplate: config.Auth.TokenKeyTemplate,
		tokenHeader: config.Auth.TokenHeader,
	}, nil
}

func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (a *Auth) Enabled() bool {
	return a.enabled
}

func (a *Auth) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func tokenKey(template, course, client string) string {
	return strings.NewReplacer(
		"{course}", course,
		"{client}", client,
	).Replace(template)
}

// ValidateBearer checks an Authorization-style header value against the
// token stored for the course and client.
func (a *Auth) ValidateBearer(ctx context.Context, header, course, client string) error {
	if !a.enabled {
		return nil
	}

	if !strings.HasPrefix(header, "Bearer ") {
		return fmt.Errorf("%w: invalid authorization header format", ErrUnauthorized)
	}
	if client == "" {
		return fmt.Errorf("%w: missing client id", ErrUnauthorized)
	}

	return a.ValidateToken(ctx, course, client, strings.TrimPrefix(header, "Bearer "))
}

func (a *Auth) ValidateToken(ctx context.Context, course, client, token string) error {
	if !a.enabled {
		return nil
	}

	key := tokenKey(a.keyTemplate, course, client)

	stored, err := a.redis.HGet(ctx, key, "token").Result()
	if err == redis.Nil {
		logger.Debug.Printf("Token not found for key: %s", key)
		return fmt.Errorf("%w: token not found", ErrUnauthorized)
	}
	if err != nil {
		logger.Debug.Printf("Redis error: %v", err)
		return fmt.Errorf("redis error: %w", err)
	}

	if stored != token {
		logger.Debug.Printf("Token mismatch for course/client=%s/%s at %s", course, client, key)
		return fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	return nil
}
