// File: voyago/services/travel/locations.go
package travel

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var iataCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

type locationsResponse struct {
	Data []struct {
		IataCode string `json:"iataCode"`
		SubType  string `json:"subType"`
		Name     string `json:"name"`
	} `json:"data"`
}

// ResolveLocationCode turns free-text input into a standard 3-letter location
// code. Input already matching the code pattern passes through unchanged;
// anything else goes through the reference-data lookup, first match wins.
// When the primary CITY,AIRPORT lookup yields nothing, a CITY-only lookup is
// tried before giving up.
func (s *DefaultTravelService) ResolveLocationCode(ctx context.Context, input string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(input))
	if iataCodeRe.MatchString(trimmed) {
		return trimmed, nil
	}

	code, err := s.lookupLocation(ctx, input, "CITY,AIRPORT")
	if err != nil {
		return "", err
	}
	if code == "" {
		code, err = s.lookupLocation(ctx, input, "CITY")
		if err != nil {
			return "", err
		}
	}
	if code == "" {
		return "", fmt.Errorf("no location match for %q", input)
	}
	return code, nil
}

func (s *DefaultTravelService) lookupLocation(ctx context.Context, keyword, subType string) (string, error) {
	q := url.Values{}
	q.Set("keyword", keyword)
	q.Set("subType", subType)

	var resp locationsResponse
	if err := s.get(ctx, "/v1/reference-data/locations", q, &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", nil
	}
	return resp.Data[0].IataCode, nil
}
