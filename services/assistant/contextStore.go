// File: voyago/services/assistant/contextStore.go
package assistant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const tripContextPrefix = "assistant:trip:"

// TripContext is the short-lived search context remembered across exchanges
// so the model does not re-ask for details the user already gave.
type TripContext struct {
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	DepartDate  string `json:"departDate,omitempty"`
	ReturnDate  string `json:"returnDate,omitempty"`
	Travelers   int    `json:"travelers,omitempty"`
}

// IsZero reports whether nothing has been remembered yet.
func (t *TripContext) IsZero() bool {
	return t.Origin == "" && t.Destination == "" && t.DepartDate == "" &&
		t.ReturnDate == "" && t.Travelers == 0
}

// TripContextStore caches per-user trip context in Redis with a TTL.
type TripContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTripContextStore(client *redis.Client, ttl time.Duration) *TripContextStore {
	return &TripContextStore{client: client, ttl: ttl}
}

func (s *TripContextStore) Get(ctx context.Context, userID string) (*TripContext, error) {
	key := tripContextPrefix + userID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return &TripContext{}, nil
	}
	if err != nil {
		return nil, err
	}
	var tc TripContext
	if err := json.Unmarshal([]byte(data), &tc); err != nil {
		return nil, err
	}
	return &tc, nil
}

func (s *TripContextStore) Set(ctx context.Context, userID string, tc *TripContext) error {
	key := tripContextPrefix + userID
	b, err := json.Marshal(tc)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *TripContextStore) Clear(ctx context.Context, userID string) error {
	key := tripContextPrefix + userID
	return s.client.Del(ctx, key).Err()
}
