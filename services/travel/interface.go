package travel

import (
	"context"
	"net/http"
	"sync"
	"time"

	"voyago/config"
	"voyago/models"
	"voyago/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// TravelDataService produces flight and hotel offers for given search
// constraints. Provider failures are never fatal to the caller: the service
// degrades to built-in mock data, or to an empty result set when mock
// fallback is disabled. Only the bearer token exchange is fatal for a call.
type TravelDataService interface {
	SearchFlights(ctx context.Context, q models.FlightQuery) ([]models.FlightOffer, error)
	SearchHotels(ctx context.Context, q models.HotelQuery) ([]models.HotelOffer, error)
	// Ready reports whether a bearer token can currently be obtained.
	Ready(ctx context.Context) error
}

// DefaultTravelService implements TravelDataService against the Amadeus
// self-service API.
type DefaultTravelService struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	DisableMocks bool

	HTTPClient *http.Client
	Cache      *redis.Client // optional shared token cache
	Logger     *zap.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewDefaultTravelService builds the service from the application config.
func NewDefaultTravelService(cache *redis.Client) *DefaultTravelService {
	return &DefaultTravelService{
		ClientID:     config.AppConfig.AmadeusClientID,
		ClientSecret: config.AppConfig.AmadeusClientSecret,
		BaseURL:      config.AppConfig.AmadeusBaseURL,
		DisableMocks: config.AppConfig.DisableMockFallback,
		HTTPClient:   &http.Client{Timeout: 15 * time.Second},
		Cache:        cache,
		Logger:       utils.GetLogger(),
	}
}

func (s *DefaultTravelService) hasCredentials() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

func (s *DefaultTravelService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}
