package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ReturnsAgent/entity"
)

const (
	adminUser      = "admin"
	keyLookupLimit = 5 * time.Second
)

var ErrUnauthorized = errors.New("api key not found")

// AuthenticateByToken accepts the configured listen key and keys issued by
// the key store. Store hits are cached for the process lifetime.
func (c *Core) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	if c.authKey != "" && token == c.authKey {
		return &entity.UserAuth{Username: adminUser, Token: token}, nil
	}

	c.mu.RLock()
	username, ok := c.keys[token]
	c.mu.RUnlock()
	if ok {
		return &entity.UserAuth{Username: username, Token: token}, nil
	}

	if c.keyStore == nil {
		return nil, ErrUnauthorized
	}
	ctx, cancel := context.WithTimeout(context.Background(), keyLookupLimit)
	defer cancel()
	username, err := c.keyStore.CheckApiKey(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	c.mu.Lock()
	c.keys[token] = username
	c.mu.Unlock()
	return &entity.UserAuth{Username: username, Token: token}, nil
}

func (c *Core) GenerateApiKey(ctx context.Context, username string) (string, error) {
	if c.keyStore == nil {
		return "", fmt.Errorf("key store is not set")
	}

	apiKey, err := c.keyStore.GenerateApiKey(ctx, username)
	if err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}

	c.mu.Lock()
	c.keys[apiKey] = username
	c.mu.Unlock()
	return apiKey, nil
}
