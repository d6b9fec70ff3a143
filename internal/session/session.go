package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrNoSession is returned when a token does not resolve to a customer.
var ErrNoSession = errors.New("no active session")

// Flash is a one-shot notice carried across a redirect.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Store keeps per-customer session state in Redis: the identity token, the
// payment-acknowledged flag and pending flash notices.
type Store struct {
	rdb        *redis.Client
	sessionTTL time.Duration
	paymentTTL time.Duration
}

// NewStore creates a Redis-backed session store
func NewStore(addr, password string, db int, sessionTTL, paymentTTL time.Duration) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Store{
		rdb:        rdb,
		sessionTTL: sessionTTL,
		paymentTTL: paymentTTL,
	}, nil
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Create issues a fresh session token for a customer
func (s *Store) Create(ctx context.Context, customerID int64) (string, error) {
	token := uuid.New().String()
	err := s.rdb.Set(ctx, sessionKey(token), customerID, s.sessionTTL).Err()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// CustomerID resolves a session token to the authenticated customer id
func (s *Store) CustomerID(ctx context.Context, token string) (int64, error) {
	val, err := s.rdb.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// Destroy removes a session and its attached payment flag and flashes
func (s *Store) Destroy(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKey(token), paymentKey(token), flashKey(token)).Err()
}

// MarkPaymentReceived records the mock payment acknowledgement. The flag is
// the sole proof of payment the checkout flow checks.
func (s *Store) MarkPaymentReceived(ctx context.Context, token string) error {
	return s.rdb.Set(ctx, paymentKey(token), "1", s.paymentTTL).Err()
}

// ConsumePaymentFlag atomically reads and removes the payment flag so a
// single payment can back at most one checkout. GETDEL keeps concurrent
// checkouts from both observing the flag.
func (s *Store) ConsumePaymentFlag(ctx context.Context, token string) (bool, error) {
	_, err := s.rdb.GetDel(ctx, paymentKey(token)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddFlash queues a notice for the customer's next page view
func (s *Store) AddFlash(ctx context.Context, token string, flash Flash) error {
	data, err := json.Marshal(flash)
	if err != nil {
		return err
	}

	pipe := s.rdb.Pipeline()
	pipe.RPush(ctx, flashKey(token), data)
	pipe.Expire(ctx, flashKey(token), s.sessionTTL)

	_, err = pipe.Exec(ctx)
	return err
}

// Flashes drains all pending notices for a session
func (s *Store) Flashes(ctx context.Context, token string) ([]Flash, error) {
	pipe := s.rdb.TxPipeline()
	rangeCmd := pipe.LRange(ctx, flashKey(token), 0, -1)
	pipe.Del(ctx, flashKey(token))

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	raw, err := rangeCmd.Result()
	if err != nil {
		return nil, err
	}

	flashes := make([]Flash, 0, len(raw))
	for _, r := range raw {
		var f Flash
		if err := json.Unmarshal([]byte(r), &f); err != nil {
			continue
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func paymentKey(token string) string {
	return fmt.Sprintf("payment:%s", token)
}

func flashKey(token string) string {
	return fmt.Sprintf("flash:%s", token)
}
