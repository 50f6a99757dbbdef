package service

import (
	"context"
	"fmt"
	"time"

	"clinic-portal/pkg/jwt"

	"github.com/redis/go-redis/v9"
)

// TokenStore is the allow-list of issued tokens. A token that is not in the
// store is treated as revoked even when its signature is still valid.
type TokenStore interface {
	Store(ctx context.Context, tokenType jwt.TokenType, userID int64, tokenID string, ttl time.Duration) error
	IsActive(ctx context.Context, tokenType jwt.TokenType, userID int64, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenType jwt.TokenType, userID int64, tokenID string) error
	RevokeAll(ctx context.Context, userID int64) error
}

type redisTokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func tokenKey(tokenType jwt.TokenType, userID int64, tokenID string) string {
	return fmt.Sprintf("%s_token:%d:%s", tokenType, userID, tokenID)
}

func (s *redisTokenStore) Store(ctx context.Context, tokenType jwt.TokenType, userID int64, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenKey(tokenType, userID, tokenID), "valid", ttl).Err(); err != nil {
		return fmt.Errorf("store %s token: %w", tokenType, err)
	}
	return nil
}

func (s *redisTokenStore) IsActive(ctx context.Context, tokenType jwt.TokenType, userID int64, tokenID string) (bool, error) {
	exists, err := s.client.Exists(ctx, tokenKey(tokenType, userID, tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check %s token: %w", tokenType, err)
	}
	return exists > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, tokenType jwt.TokenType, userID int64, tokenID string) error {
	if err := s.client.Del(ctx, tokenKey(tokenType, userID, tokenID)).Err(); err != nil {
		return fmt.Errorf("revoke %s token: %w", tokenType, err)
	}
	return nil
}

// RevokeAll removes every access and refresh token issued to the user.
func (s *redisTokenStore) RevokeAll(ctx context.Context, userID int64) error {
	for _, tokenType := range []jwt.TokenType{jwt.AccessToken, jwt.RefreshToken} {
		pattern := fmt.Sprintf("%s_token:%d:*", tokenType, userID)

		iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan %s tokens: %w", tokenType, err)
		}

		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("revoke %s tokens: %w", tokenType, err)
			}
		}
	}
	return nil
}
