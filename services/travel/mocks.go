// File: voyago/services/travel/mocks.go
package travel

import (
	"strings"
	"time"

	"voyago/models"
)

// Static fallback data returned when no credential is configured or the
// provider is unavailable. Disabled entirely by DISABLE_MOCK_FALLBACK.

// mockFlights returns the two built-in mock flights templated onto the query
// route. Prices are clamped to the caller's ceiling so mock results always
// satisfy a supplied budget.
func (s *DefaultTravelService) mockFlights(q models.FlightQuery) []models.FlightOffer {
	if s.DisableMocks {
		return []models.FlightOffer{}
	}

	origin := mockCode(q.Origin, "SFO")
	destination := mockCode(q.Destination, "LIS")
	departure := mockDeparture(q.Date)

	offers := []models.FlightOffer{
		{
			ID:           "mock-flight-1",
			Airline:      "TP",
			FlightNumber: "TP 238",
			Origin:       origin,
			Destination:  destination,
			Departure:    departure.Add(9 * time.Hour),
			Arrival:      departure.Add(19*time.Hour + 25*time.Minute),
			DurationMin:  625,
			Stops:        0,
			Cabin:        "ECONOMY",
			Price:        usedPrice(642, q.MaxPrice),
			Currency:     "USD",
		},
		{
			ID:           "mock-flight-2",
			Airline:      "UA",
			FlightNumber: "UA 1510",
			Origin:       origin,
			Destination:  destination,
			Departure:    departure.Add(14 * time.Hour),
			Arrival:      departure.Add(27*time.Hour + 45*time.Minute),
			DurationMin:  825,
			Stops:        1,
			Cabin:        "ECONOMY",
			Price:        usedPrice(518, q.MaxPrice),
			Currency:     "USD",
		},
	}
	return offers
}

func (s *DefaultTravelService) mockHotels(q models.HotelQuery) []models.HotelOffer {
	if s.DisableMocks {
		return []models.HotelOffer{}
	}

	city := mockCode(q.City, "LIS")
	nights := nightsBetween(q.CheckIn, q.CheckOut)

	hotels := []models.HotelOffer{
		{
			ID:            "mock-hotel-1",
			Name:          "Hotel Avenida Central",
			Location:      city + ", PT",
			Stars:         4,
			CheckIn:       q.CheckIn,
			CheckOut:      q.CheckOut,
			PricePerNight: 148,
			TotalPrice:    usedPrice(float64(148*nights), q.Budget),
			Currency:      "USD",
		},
		{
			ID:            "mock-hotel-2",
			Name:          "Riverside Boutique Stay",
			Location:      city + ", PT",
			Stars:         3,
			CheckIn:       q.CheckIn,
			CheckOut:      q.CheckOut,
			PricePerNight: 96,
			TotalPrice:    usedPrice(float64(96*nights), q.Budget),
			Currency:      "USD",
		},
		{
			ID:            "mock-hotel-3",
			Name:          "Grand Harbor Suites",
			Location:      city + ", PT",
			Stars:         5,
			CheckIn:       q.CheckIn,
			CheckOut:      q.CheckOut,
			PricePerNight: 235,
			TotalPrice:    usedPrice(float64(235*nights), q.Budget),
			Currency:      "USD",
		},
	}
	return hotels
}

func mockCode(input, fallback string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(input))
	if iataCodeRe.MatchString(trimmed) {
		return trimmed
	}
	if trimmed == "" {
		return fallback
	}
	// Free text without a resolvable code keeps its first three letters.
	letters := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r
		}
		return -1
	}, trimmed)
	if len(letters) >= 3 {
		return letters[:3]
	}
	return fallback
}

func mockDeparture(date string) time.Time {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Now().Truncate(24 * time.Hour).Add(30 * 24 * time.Hour)
	}
	return t
}

func usedPrice(base, ceiling float64) float64 {
	if ceiling > 0 && base > ceiling {
		return ceiling
	}
	return base
}
