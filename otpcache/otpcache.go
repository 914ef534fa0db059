package otpcache

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCodeExpired means no live code exists for the email
	ErrCodeExpired = errors.New("OTP has expired")
	// ErrCodeInvalid means the submitted code does not match
	ErrCodeInvalid = errors.New("invalid OTP")
	// ErrTooManyAttempts means the verify attempt cap was hit and the code
	// was discarded
	ErrTooManyAttempts = errors.New("too many verification attempts")
	// ErrResendTooSoon means a live code was issued moments ago
	ErrResendTooSoon = errors.New("an OTP was sent recently, try again later")
)

// Cache is a short-lived keyed store for pre-registration OTP codes. Codes
// live in redis under a TTL instead of on the user record or a process
// global, so they expire on their own and survive across server processes.
type Cache struct {
	client      *redis.Client
	keyPrefix   string
	ttl         time.Duration
	resendAfter time.Duration
	maxAttempts int
}

type entry struct {
	Code     string    `json:"code"`
	IssuedAt time.Time `json:"issuedAt"`
	Attempts int       `json:"attempts"`
}

func New(addr, password string) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		keyPrefix:   "talim:otp",
		ttl:         5 * time.Minute,
		resendAfter: time.Minute,
		maxAttempts: 5,
	}
}

func (c *Cache) key(email string) string {
	return fmt.Sprintf("%s:%s", c.keyPrefix, strings.ToLower(strings.TrimSpace(email)))
}

// Issue generates a fresh 4-digit code for the email and stores it under
// the cache TTL. Re-issuing within the resend window is refused.
func (c *Cache) Issue(ctx context.Context, email string) (string, error) {
	key := c.key(email)

	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var existing entry
		if json.Unmarshal([]byte(raw), &existing) == nil &&
			time.Since(existing.IssuedAt) < c.resendAfter {
			return "", ErrResendTooSoon
		}
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}

	raw, err := json.Marshal(entry{Code: code, IssuedAt: time.Now()})
	if err != nil {
		return "", err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks the submitted code. A match consumes the code; a mismatch
// burns one attempt and the code is discarded once the cap is hit.
func (c *Cache) Verify(ctx context.Context, email, code string) error {
	key := c.key(email)

	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeExpired
	}
	if err != nil {
		return err
	}

	var stored entry
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return ErrCodeInvalid
	}

	if stored.Code == strings.TrimSpace(code) {
		c.client.Del(ctx, key)
		return nil
	}

	stored.Attempts++
	if stored.Attempts >= c.maxAttempts {
		c.client.Del(ctx, key)
		return ErrTooManyAttempts
	}

	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = c.ttl
	}
	if updated, err := json.Marshal(stored); err == nil {
		c.client.Set(ctx, key, updated, ttl)
	}
	return ErrCodeInvalid
}

// generateCode returns a random 4-digit numeric code
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}
