// File: voyago/services/travel/flights.go
package travel

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"voyago/models"

	"go.uber.org/zap"
)

const maxFlightResults = 10

type flightOffersResponse struct {
	Data []flightOfferResource `json:"data"`
}

type flightOfferResource struct {
	ID          string `json:"id"`
	Itineraries []struct {
		Duration string `json:"duration"`
		Segments []struct {
			Departure struct {
				IataCode string `json:"iataCode"`
				At       string `json:"at"`
			} `json:"departure"`
			Arrival struct {
				IataCode string `json:"iataCode"`
				At       string `json:"at"`
			} `json:"arrival"`
			CarrierCode string `json:"carrierCode"`
			Number      string `json:"number"`
		} `json:"segments"`
	} `json:"itineraries"`
	Price struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"price"`
	TravelerPricings []struct {
		FareDetailsBySegment []struct {
			Cabin string `json:"cabin"`
		} `json:"fareDetailsBySegment"`
	} `json:"travelerPricings"`
}

// SearchFlights queries the Amadeus flight-offers endpoint and maps the
// response to normalized offers. All provider failures past the bearer token
// exchange degrade to mock data (or an empty set when mocks are disabled).
func (s *DefaultTravelService) SearchFlights(ctx context.Context, q models.FlightQuery) ([]models.FlightOffer, error) {
	if q.Travelers <= 0 {
		q.Travelers = 1
	}

	if !s.hasCredentials() {
		return s.mockFlights(q), nil
	}

	origin, err := s.ResolveLocationCode(ctx, q.Origin)
	if err != nil {
		s.logger().Warn("flight search: origin resolution failed, falling back", zap.Error(err))
		return s.mockFlights(q), nil
	}
	destination, err := s.ResolveLocationCode(ctx, q.Destination)
	if err != nil {
		s.logger().Warn("flight search: destination resolution failed, falling back", zap.Error(err))
		return s.mockFlights(q), nil
	}

	params := url.Values{}
	params.Set("originLocationCode", origin)
	params.Set("destinationLocationCode", destination)
	params.Set("departureDate", q.Date)
	params.Set("adults", strconv.Itoa(q.Travelers))
	params.Set("currencyCode", "USD")
	params.Set("max", strconv.Itoa(maxFlightResults))
	if q.ReturnDate != "" {
		params.Set("returnDate", q.ReturnDate)
	}
	if q.Cabin != "" {
		params.Set("travelClass", translateCabin(q.Cabin))
	}
	if q.MaxPrice > 0 {
		params.Set("maxPrice", strconv.Itoa(int(q.MaxPrice)))
	}

	var resp flightOffersResponse
	if err := s.get(ctx, "/v2/shopping/flight-offers", params, &resp); err != nil {
		s.logger().Warn("flight search: provider call failed, falling back", zap.Error(err))
		return s.mockFlights(q), nil
	}

	offers := make([]models.FlightOffer, 0, len(resp.Data))
	for _, res := range resp.Data {
		offer, ok := mapFlightOffer(res)
		if !ok {
			continue
		}
		if q.MaxPrice > 0 && offer.Price > q.MaxPrice {
			continue
		}
		offers = append(offers, offer)
		if len(offers) >= maxFlightResults {
			break
		}
	}
	return offers, nil
}

func mapFlightOffer(res flightOfferResource) (models.FlightOffer, bool) {
	if len(res.Itineraries) == 0 || len(res.Itineraries[0].Segments) == 0 {
		return models.FlightOffer{}, false
	}
	itin := res.Itineraries[0]
	first := itin.Segments[0]
	last := itin.Segments[len(itin.Segments)-1]

	price, _ := strconv.ParseFloat(res.Price.Total, 64)

	var cabin string
	if len(res.TravelerPricings) > 0 && len(res.TravelerPricings[0].FareDetailsBySegment) > 0 {
		cabin = res.TravelerPricings[0].FareDetailsBySegment[0].Cabin
	}

	return models.FlightOffer{
		ID:           res.ID,
		Airline:      first.CarrierCode,
		FlightNumber: fmt.Sprintf("%s %s", first.CarrierCode, first.Number),
		Origin:       first.Departure.IataCode,
		Destination:  last.Arrival.IataCode,
		Departure:    parseSegmentTime(first.Departure.At),
		Arrival:      parseSegmentTime(last.Arrival.At),
		DurationMin:  ParseISODuration(itin.Duration),
		Stops:        len(itin.Segments) - 1,
		Cabin:        cabin,
		Price:        price,
		Currency:     res.Price.Currency,
	}, true
}

func parseSegmentTime(at string) time.Time {
	// Amadeus uses local timestamps without a zone, e.g. "2025-06-01T10:30:00".
	t, err := time.Parse("2006-01-02T15:04:05", at)
	if err != nil {
		return time.Time{}
	}
	return t
}

// translateCabin maps a friendly cabin name to the provider's travel class:
// upper-cased, underscores turned into spaces.
func translateCabin(cabin string) string {
	return strings.ReplaceAll(strings.ToUpper(cabin), "_", " ")
}

var isoDurationRe = regexp.MustCompile(`T(?:(\d+)H)?(?:(\d+)M)?`)

// ParseISODuration extracts total minutes from an ISO-8601 duration of the
// form "P...T<h>H<m>M". Missing components default to zero; a string with no
// time component yields 0.
func ParseISODuration(s string) int {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes
}
