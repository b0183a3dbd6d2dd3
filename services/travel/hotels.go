// File: voyago/services/travel/hotels.go
package travel

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"voyago/models"

	"go.uber.org/zap"
)

const maxHotelResults = 10

type hotelsByCityResponse struct {
	Data []struct {
		HotelID string `json:"hotelId"`
		Name    string `json:"name"`
	} `json:"data"`
}

type hotelOffersResponse struct {
	Data []hotelOfferResource `json:"data"`
}

type hotelOfferResource struct {
	Hotel struct {
		HotelID  string `json:"hotelId"`
		Name     string `json:"name"`
		Rating   string `json:"rating"`
		CityCode string `json:"cityCode"`
		Address  struct {
			CountryCode string `json:"countryCode"`
		} `json:"address"`
	} `json:"hotel"`
	Offers []struct {
		CheckInDate  string `json:"checkInDate"`
		CheckOutDate string `json:"checkOutDate"`
		Price        struct {
			Total      string `json:"total"`
			Currency   string `json:"currency"`
			Variations struct {
				Average struct {
					Base string `json:"base"`
				} `json:"average"`
			} `json:"variations"`
		} `json:"price"`
	} `json:"offers"`
}

// SearchHotels queries hotels by city and then their offers, mapping the
// heterogeneous response shapes to normalized offers. Provider failures past
// the token exchange degrade to mock data per the fallback policy.
func (s *DefaultTravelService) SearchHotels(ctx context.Context, q models.HotelQuery) ([]models.HotelOffer, error) {
	if q.Guests <= 0 {
		q.Guests = 1
	}

	if !s.hasCredentials() {
		return s.mockHotels(q), nil
	}

	cityCode, err := s.ResolveLocationCode(ctx, q.City)
	if err != nil {
		s.logger().Warn("hotel search: city resolution failed, falling back", zap.Error(err))
		return s.mockHotels(q), nil
	}

	listParams := url.Values{}
	listParams.Set("cityCode", cityCode)

	var list hotelsByCityResponse
	if err := s.get(ctx, "/v1/reference-data/locations/hotels/by-city", listParams, &list); err != nil {
		s.logger().Warn("hotel search: city listing failed, falling back", zap.Error(err))
		return s.mockHotels(q), nil
	}
	if len(list.Data) == 0 {
		return s.mockHotels(q), nil
	}

	ids := make([]string, 0, 20)
	for _, h := range list.Data {
		ids = append(ids, h.HotelID)
		if len(ids) >= 20 {
			break
		}
	}

	offerParams := url.Values{}
	offerParams.Set("hotelIds", strings.Join(ids, ","))
	offerParams.Set("adults", strconv.Itoa(q.Guests))
	if q.CheckIn != "" {
		offerParams.Set("checkInDate", q.CheckIn)
	}
	if q.CheckOut != "" {
		offerParams.Set("checkOutDate", q.CheckOut)
	}

	var resp hotelOffersResponse
	if err := s.get(ctx, "/v3/shopping/hotel-offers", offerParams, &resp); err != nil {
		s.logger().Warn("hotel search: offers call failed, falling back", zap.Error(err))
		return s.mockHotels(q), nil
	}

	nights := nightsBetween(q.CheckIn, q.CheckOut)

	offers := make([]models.HotelOffer, 0, len(resp.Data))
	for _, res := range resp.Data {
		offer, ok := mapHotelOffer(res, nights)
		if !ok {
			continue
		}
		if q.Budget > 0 && offer.TotalPrice > q.Budget {
			continue
		}
		offers = append(offers, offer)
		if len(offers) >= maxHotelResults {
			break
		}
	}
	return offers, nil
}

func mapHotelOffer(res hotelOfferResource, nights int) (models.HotelOffer, bool) {
	if len(res.Offers) == 0 {
		return models.HotelOffer{}, false
	}
	offer := res.Offers[0]

	// Total price is either the per-night average times the stay length, or
	// the provider's explicit total; rounded to the nearest whole unit.
	var perNight, total float64
	if avg, err := strconv.ParseFloat(offer.Price.Variations.Average.Base, 64); err == nil && avg > 0 {
		perNight = avg
		total = avg * float64(nights)
	} else if t, err := strconv.ParseFloat(offer.Price.Total, 64); err == nil {
		total = t
		if nights > 0 {
			perNight = t / float64(nights)
		}
	} else {
		return models.HotelOffer{}, false
	}

	stars, _ := strconv.Atoi(res.Hotel.Rating)

	return models.HotelOffer{
		ID:            res.Hotel.HotelID,
		Name:          res.Hotel.Name,
		Location:      joinLocation(res.Hotel.CityCode, res.Hotel.Address.CountryCode),
		Stars:         stars,
		CheckIn:       offer.CheckInDate,
		CheckOut:      offer.CheckOutDate,
		PricePerNight: math.Round(perNight*100) / 100,
		TotalPrice:    math.Round(total),
		Currency:      offer.Price.Currency,
	}, true
}

// joinLocation derives the display location from the city and country fields.
func joinLocation(city, country string) string {
	parts := make([]string, 0, 2)
	if city != "" {
		parts = append(parts, city)
	}
	if country != "" {
		parts = append(parts, country)
	}
	return strings.Join(parts, ", ")
}

func nightsBetween(checkIn, checkOut string) int {
	in, err1 := time.Parse("2006-01-02", checkIn)
	out, err2 := time.Parse("2006-01-02", checkOut)
	if err1 != nil || err2 != nil {
		return 1
	}
	nights := int(out.Sub(in).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}
