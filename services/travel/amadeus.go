// File: voyago/services/travel/amadeus.go
package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const tokenCacheKey = "amadeus:token"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Ready attempts a bearer token exchange. Used by the travel readiness probe.
func (s *DefaultTravelService) Ready(ctx context.Context) error {
	if !s.hasCredentials() {
		return fmt.Errorf("amadeus credentials not configured")
	}
	_, err := s.bearerToken(ctx)
	return err
}

// bearerToken returns a valid OAuth2 bearer token, exchanging client
// credentials when the cached one has expired. Token exchange failure is the
// one provider error that is fatal for the calling chain.
func (s *DefaultTravelService) bearerToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.tokenExpiry) {
		return s.token, nil
	}

	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, tokenCacheKey).Result()
		if err == nil && cached != "" {
			ttl, ttlErr := s.Cache.TTL(ctx, tokenCacheKey).Result()
			if ttlErr == nil && ttl > 0 {
				s.token = cached
				s.tokenExpiry = time.Now().Add(ttl)
				return cached, nil
			}
		} else if err != nil && err != redis.Nil {
			s.logger().Warn("amadeus token cache read failed", zap.Error(err))
		}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", s.ClientID)
	form.Set("client_secret", s.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.BaseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("amadeus token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("amadeus token exchange returned status %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("amadeus token exchange: decode: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("amadeus token exchange: empty access token")
	}

	// Keep a safety margin below the provider expiry.
	ttl := time.Duration(tok.ExpiresIn) * time.Second
	if ttl > time.Minute {
		ttl -= time.Minute
	}
	s.token = tok.AccessToken
	s.tokenExpiry = time.Now().Add(ttl)

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, tokenCacheKey, tok.AccessToken, ttl).Err(); err != nil {
			s.logger().Warn("amadeus token cache write failed", zap.Error(err))
		}
	}

	return tok.AccessToken, nil
}

// get performs an authorized GET against the Amadeus API and decodes the JSON
// body into out. Non-success statuses are returned as errors so callers can
// apply the mock fallback policy.
func (s *DefaultTravelService) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	token, err := s.bearerToken(ctx)
	if err != nil {
		return err
	}

	u := s.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("amadeus %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("amadeus %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("amadeus %s: decode: %w", path, err)
	}
	return nil
}
