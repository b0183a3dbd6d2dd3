package travel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"voyago/models"

	"github.com/stretchr/testify/require"
)

func TestNightsBetween(t *testing.T) {
	require.Equal(t, 4, nightsBetween("2025-06-01", "2025-06-05"))
	require.Equal(t, 1, nightsBetween("2025-06-01", "2025-06-01"))
	require.Equal(t, 1, nightsBetween("", ""))
}

func TestJoinLocation(t *testing.T) {
	require.Equal(t, "LIS, PT", joinLocation("LIS", "PT"))
	require.Equal(t, "LIS", joinLocation("LIS", ""))
	require.Equal(t, "", joinLocation("", ""))
}

func TestSearchHotels_NoCredentialsReturnsMocks(t *testing.T) {
	svc := &DefaultTravelService{}

	offers, err := svc.SearchHotels(context.Background(), models.HotelQuery{
		City:     "LIS",
		CheckIn:  "2025-06-01",
		CheckOut: "2025-06-05",
	})
	require.NoError(t, err)
	require.NotEmpty(t, offers)
	for _, o := range offers {
		require.Contains(t, o.Location, "LIS")
	}
}

func TestSearchHotels_MocksDisabledReturnsEmpty(t *testing.T) {
	svc := &DefaultTravelService{DisableMocks: true}

	offers, err := svc.SearchHotels(context.Background(), models.HotelQuery{City: "LIS"})
	require.NoError(t, err)
	require.Empty(t, offers)
}

func TestSearchHotels_MapsOffersAndRoundsTotals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "tok", "expires_in": 1800,
			})
		case "/v1/reference-data/locations/hotels/by-city":
			require.Equal(t, "LIS", r.URL.Query().Get("cityCode"))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]string{
					{"hotelId": "HLLIS001", "name": "Hotel Lisboa"},
					{"hotelId": "HLLIS002", "name": "Tejo Palace"},
				},
			})
		case "/v3/shopping/hotel-offers":
			require.Contains(t, r.URL.Query().Get("hotelIds"), "HLLIS001")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]interface{}{
					{
						// Average variation present: total = avg * nights.
						"hotel": map[string]interface{}{
							"hotelId":  "HLLIS001",
							"name":     "Hotel Lisboa",
							"rating":   "4",
							"cityCode": "LIS",
							"address":  map[string]string{"countryCode": "PT"},
						},
						"offers": []map[string]interface{}{
							{
								"checkInDate":  "2025-06-01",
								"checkOutDate": "2025-06-05",
								"price": map[string]interface{}{
									"total":    "0",
									"currency": "EUR",
									"variations": map[string]interface{}{
										"average": map[string]string{"base": "120.40"},
									},
								},
							},
						},
					},
					{
						// No average: explicit total used.
						"hotel": map[string]interface{}{
							"hotelId":  "HLLIS002",
							"name":     "Tejo Palace",
							"rating":   "5",
							"cityCode": "LIS",
							"address":  map[string]string{"countryCode": "PT"},
						},
						"offers": []map[string]interface{}{
							{
								"checkInDate":  "2025-06-01",
								"checkOutDate": "2025-06-05",
								"price": map[string]interface{}{
									"total":    "899.60",
									"currency": "EUR",
								},
							},
						},
					},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	svc := &DefaultTravelService{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      srv.URL,
		HTTPClient:   srv.Client(),
	}

	offers, err := svc.SearchHotels(context.Background(), models.HotelQuery{
		City:     "LIS",
		CheckIn:  "2025-06-01",
		CheckOut: "2025-06-05",
	})
	require.NoError(t, err)
	require.Len(t, offers, 2)

	require.Equal(t, "Hotel Lisboa", offers[0].Name)
	require.Equal(t, "LIS, PT", offers[0].Location)
	require.Equal(t, 4, offers[0].Stars)
	require.Equal(t, 120.40, offers[0].PricePerNight)
	require.Equal(t, 482.0, offers[0].TotalPrice) // 120.40 * 4 nights, rounded

	require.Equal(t, 900.0, offers[1].TotalPrice) // explicit total, rounded
}

func TestSearchHotels_BudgetCeilingFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "tok", "expires_in": 1800,
			})
		case "/v1/reference-data/locations/hotels/by-city":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]string{{"hotelId": "H1"}, {"hotelId": "H2"}},
			})
		case "/v3/shopping/hotel-offers":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]interface{}{
					hotelResource("H1", "Cheap Inn", "300.00"),
					hotelResource("H2", "Pricey Palace", "1200.00"),
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	svc := &DefaultTravelService{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      srv.URL,
		HTTPClient:   srv.Client(),
	}

	offers, err := svc.SearchHotels(context.Background(), models.HotelQuery{
		City:     "LIS",
		CheckIn:  "2025-06-01",
		CheckOut: "2025-06-03",
		Budget:   500,
	})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.Equal(t, "Cheap Inn", offers[0].Name)
}

func TestSearchHotels_EmptyCityListingFallsBackToMocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "tok", "expires_in": 1800,
			})
		case "/v1/reference-data/locations/hotels/by-city":
			json.NewEncoder(w).Encode(map[string]interface{}{"data": []map[string]string{}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	svc := &DefaultTravelService{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      srv.URL,
		HTTPClient:   srv.Client(),
	}

	offers, err := svc.SearchHotels(context.Background(), models.HotelQuery{City: "LIS"})
	require.NoError(t, err)
	require.NotEmpty(t, offers) // built-in mocks
}

func hotelResource(id, name, total string) map[string]interface{} {
	return map[string]interface{}{
		"hotel": map[string]interface{}{
			"hotelId":  id,
			"name":     name,
			"rating":   "3",
			"cityCode": "LIS",
			"address":  map[string]string{"countryCode": "PT"},
		},
		"offers": []map[string]interface{}{
			{
				"checkInDate":  "2025-06-01",
				"checkOutDate": "2025-06-03",
				"price":        map[string]interface{}{"total": total, "currency": "USD"},
			},
		},
	}
}
