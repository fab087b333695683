package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"
)

// minSecretLength is the shortest accepted session secret.
const minSecretLength = 16

// JWTConfig holds configuration for session token signing.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// NewJWTConfig builds the session token configuration. When no secret is
// configured a random one is generated, so tokens do not survive a restart.
func NewJWTConfig(c *Config) (*JWTConfig, error) {
	ttl, err := c.SessionLifetime()
	if err != nil {
		return nil, err
	}

	secret := c.SessionSecret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		log.Printf("[config] SESSION_SECRET not set, using an ephemeral secret")
	}

	config := &JWTConfig{Secret: secret, Expiration: ttl}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", minSecretLength)
	}
	if c.Expiration < time.Minute {
		return fmt.Errorf("session token expiration must be at least one minute, got %s", c.Expiration)
	}
	return nil
}
