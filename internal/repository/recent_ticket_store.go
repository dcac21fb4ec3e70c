package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoRecentTicket signals the caller has no recorded recent ticket.
var ErrNoRecentTicket = errors.New("no recent ticket for caller")

// RecentTicketStore remembers the generated name of each caller's most
// recently created ticket. Keyed by caller identity so concurrent callers
// never observe each other's tickets.
type RecentTicketStore interface {
	Set(ctx context.Context, callerID, generatedName string) error
	Get(ctx context.Context, callerID string) (string, error)
}

type recentTicketStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecentTicketStore constructs a redis-backed store with a bounded TTL.
func NewRecentTicketStore(client *redis.Client, ttl time.Duration) RecentTicketStore {
	return &recentTicketStore{client: client, ttl: ttl}
}

func (s *recentTicketStore) Set(ctx context.Context, callerID, generatedName string) error {
	return s.client.Set(ctx, recentKey(callerID), generatedName, s.ttl).Err()
}

func (s *recentTicketStore) Get(ctx context.Context, callerID string) (string, error) {
	name, err := s.client.Get(ctx, recentKey(callerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoRecentTicket
		}
		return "", err
	}
	return name, nil
}

func recentKey(callerID string) string {
	return "recent_ticket:" + callerID
}
