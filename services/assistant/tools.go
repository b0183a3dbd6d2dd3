// File: voyago/services/assistant/tools.go
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"voyago/models"
	"voyago/services/booking"
	"voyago/services/tasks"
	"voyago/services/travel"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
)

// RegisterTravelCapabilities wires the search tools to the travel data service.
func RegisterTravelCapabilities(r *Registry, svc travel.TravelDataService) {
	r.Register(&Capability{
		Name:        "searchFlights",
		Description: "Search for flight offers between two locations on a given date. Locations may be city names, airport names or IATA codes.",
		Mode:        ModeAuto,
		Defaults:    map[string]interface{}{"travelers": 1},
		Schema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"origin":      {Type: genai.TypeString, Description: "Departure city or airport"},
				"destination": {Type: genai.TypeString, Description: "Arrival city or airport"},
				"date":        {Type: genai.TypeString, Description: "Departure date, YYYY-MM-DD"},
				"returnDate":  {Type: genai.TypeString, Description: "Return date for round trips, YYYY-MM-DD"},
				"travelers":   {Type: genai.TypeInteger, Description: "Number of adult travelers"},
				"cabin":       {Type: genai.TypeString, Description: "Cabin class: economy, premium economy, business or first"},
				"maxPrice":    {Type: genai.TypeNumber, Description: "Upper price bound in USD"},
			},
			Required: []string{"origin", "destination", "date"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			q := models.FlightQuery{
				Origin:      args["origin"].(string),
				Destination: args["destination"].(string),
				Date:        args["date"].(string),
				ReturnDate:  optString(args, "returnDate"),
				Cabin:       optString(args, "cabin"),
				Travelers:   optInt(args, "travelers", 1),
				MaxPrice:    optFloat(args, "maxPrice"),
			}
			offers, err := svc.SearchFlights(ctx, q)
			if err != nil {
				return nil, err
			}
			return offerResult(offers, "no flights matched the search")
		},
	})

	r.Register(&Capability{
		Name:        "searchHotels",
		Description: "Search for hotel offers in a city for a stay window.",
		Mode:        ModeAuto,
		Defaults:    map[string]interface{}{"guests": 1},
		Schema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"city":     {Type: genai.TypeString, Description: "Destination city name or IATA city code"},
				"checkIn":  {Type: genai.TypeString, Description: "Check-in date, YYYY-MM-DD"},
				"checkOut": {Type: genai.TypeString, Description: "Check-out date, YYYY-MM-DD"},
				"guests":   {Type: genai.TypeInteger, Description: "Number of guests"},
				"budget":   {Type: genai.TypeNumber, Description: "Total stay budget ceiling in USD"},
			},
			Required: []string{"city", "checkIn", "checkOut"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			q := models.HotelQuery{
				City:     args["city"].(string),
				CheckIn:  args["checkIn"].(string),
				CheckOut: args["checkOut"].(string),
				Guests:   optInt(args, "guests", 1),
				Budget:   optFloat(args, "budget"),
			}
			offers, err := svc.SearchHotels(ctx, q)
			if err != nil {
				return nil, err
			}
			return offerResult(offers, "no hotels matched the search")
		},
	})
}

// RegisterBookingCapabilities wires the gated booking tools. Their executors
// run only through the confirmation gate.
func RegisterBookingCapabilities(r *Registry, svc booking.BookingService) {
	r.RegisterGated(&Capability{
		Name:        "bookFlight",
		Description: "Book a flight offer on the user's behalf. Requires explicit user confirmation.",
		Schema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"offerId":      {Type: genai.TypeString, Description: "Identifier of the selected offer"},
				"airline":      {Type: genai.TypeString, Description: "Operating airline"},
				"flightNumber": {Type: genai.TypeString},
				"origin":       {Type: genai.TypeString},
				"destination":  {Type: genai.TypeString},
				"departure":    {Type: genai.TypeString, Description: "Departure time, ISO 8601"},
				"price":        {Type: genai.TypeNumber, Description: "Total price"},
				"currency":     {Type: genai.TypeString},
				"travelers":    {Type: genai.TypeInteger},
			},
			Required: []string{"airline", "price"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		userID := UserIDFromContext(ctx)
		if userID == "" {
			return nil, errors.New("booking requires an authenticated user")
		}
		conf, err := svc.BookFlight(ctx, userID, ConversationIDFromContext(ctx), args)
		if err != nil {
			return nil, err
		}
		return confirmationResult(conf)
	})

	r.RegisterGated(&Capability{
		Name:        "bookHotel",
		Description: "Book a hotel offer on the user's behalf. Requires explicit user confirmation.",
		Schema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"offerId":    {Type: genai.TypeString, Description: "Identifier of the selected offer"},
				"hotelName":  {Type: genai.TypeString},
				"city":       {Type: genai.TypeString},
				"checkIn":    {Type: genai.TypeString, Description: "Check-in date, YYYY-MM-DD"},
				"checkOut":   {Type: genai.TypeString, Description: "Check-out date, YYYY-MM-DD"},
				"totalPrice": {Type: genai.TypeNumber},
				"currency":   {Type: genai.TypeString},
				"guests":     {Type: genai.TypeInteger},
			},
			Required: []string{"hotelName", "totalPrice"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		userID := UserIDFromContext(ctx)
		if userID == "" {
			return nil, errors.New("booking requires an authenticated user")
		}
		conf, err := svc.BookHotel(ctx, userID, ConversationIDFromContext(ctx), args)
		if err != nil {
			return nil, err
		}
		return confirmationResult(conf)
	})
}

// RegisterPlanningCapabilities wires the advisory tools that answer from
// curated data: destination ideas, budget estimates and trip reminders.
func RegisterPlanningCapabilities(r *Registry, scheduler tasks.ReminderScheduler) {
	r.Register(&Capability{
		Name:        "getDestinationRecommendations",
		Description: "Suggest travel destinations for a month and interest, e.g. beaches, culture, food, nature or nightlife.",
		Mode:        ModeAuto,
		Schema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"month":    {Type: genai.TypeString, Description: "Travel month, e.g. July"},
				"interest": {Type: genai.TypeString, Description: "Main interest: beaches, culture, food, nature, nightlife"},
			},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			recs := recommendDestinations(optString(args, "month"), optString(args, "interest"))
			return map[string]interface{}{
				"count":        len(recs),
				"destinations": recs,
			}, nil
		},
	})

	r.Register(&Capability{
		Name:        "getBudgetEstimate",
		Description: "Estimate a daily and total trip budget for a destination and travel style.",
		Mode:        ModeAuto,
		Defaults:    map[string]interface{}{"travelers": 1, "style": "mid-range"},
		Schema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"destination": {Type: genai.TypeString},
				"days":        {Type: genai.TypeInteger, Description: "Trip length in days"},
				"travelers":   {Type: genai.TypeInteger},
				"style":       {Type: genai.TypeString, Description: "budget, mid-range or luxury"},
			},
			Required: []string{"destination", "days"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			return estimateBudget(
				args["destination"].(string),
				optInt(args, "days", 1),
				optInt(args, "travelers", 1),
				optString(args, "style"),
			), nil
		},
	})

	r.Register(&Capability{
		Name:        "scheduleTripReminder",
		Description: "Schedule a reminder message for the user ahead of a trip date.",
		Mode:        ModeAuto,
		Schema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title": {Type: genai.TypeString, Description: "Short reminder title"},
				"body":  {Type: genai.TypeString, Description: "Reminder message"},
				"date":  {Type: genai.TypeString, Description: "When to fire, YYYY-MM-DD or RFC3339"},
			},
			Required: []string{"title", "date"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			if scheduler == nil {
				return nil, errors.New("reminders are not available")
			}
			userID := UserIDFromContext(ctx)
			if userID == "" {
				return nil, errors.New("reminders require an authenticated user")
			}

			fireAt, err := parseReminderTime(args["date"].(string))
			if err != nil {
				return nil, err
			}
			if fireAt.Before(time.Now()) {
				return nil, errors.New("reminder date is in the past")
			}

			payload := models.ReminderPayload{
				ReminderID:     uuid.New().String(),
				UserID:         userID,
				ConversationID: ConversationIDFromContext(ctx),
				Title:          args["title"].(string),
				Body:           optString(args, "body"),
				FireDate:       fireAt.UTC().Format(time.RFC3339),
			}
			if err := scheduler.Schedule(ctx, payload, fireAt); err != nil {
				return nil, fmt.Errorf("could not schedule reminder: %w", err)
			}
			return map[string]interface{}{
				"status":     "scheduled",
				"reminderId": payload.ReminderID,
				"fireDate":   payload.FireDate,
			}, nil
		},
	})
}

type destination struct {
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Months    []string `json:"bestMonths"`
	Interests []string `json:"interests"`
	Note      string   `json:"note"`
}

var curatedDestinations = []destination{
	{"Lisbon", "Portugal", []string{"April", "May", "June", "September", "October"}, []string{"culture", "food", "beaches"}, "Mild shoulder seasons, great seafood, day trips to Sintra."},
	{"Tokyo", "Japan", []string{"March", "April", "October", "November"}, []string{"culture", "food", "nightlife"}, "Cherry blossoms in spring, autumn foliage in November."},
	{"Bali", "Indonesia", []string{"May", "June", "July", "August", "September"}, []string{"beaches", "nature"}, "Dry season runs May to September."},
	{"Barcelona", "Spain", []string{"May", "June", "September"}, []string{"culture", "beaches", "nightlife"}, "Beach and Gaudí in one trip; avoid peak August crowds."},
	{"Reykjavik", "Iceland", []string{"June", "July", "August"}, []string{"nature"}, "Midnight sun in summer, northern lights in winter."},
	{"Bangkok", "Thailand", []string{"November", "December", "January", "February"}, []string{"food", "culture", "nightlife"}, "Cool season from November; street food capital."},
	{"Cape Town", "South Africa", []string{"January", "February", "March", "November", "December"}, []string{"nature", "beaches", "food"}, "Southern-hemisphere summer; Table Mountain and wine country."},
	{"Rome", "Italy", []string{"April", "May", "September", "October"}, []string{"culture", "food"}, "Shoulder seasons dodge both heat and queues."},
}

// recommendDestinations filters the curated list; both filters are optional.
func recommendDestinations(month, interest string) []destination {
	month = strings.ToLower(strings.TrimSpace(month))
	interest = strings.ToLower(strings.TrimSpace(interest))

	var out []destination
	for _, d := range curatedDestinations {
		if month != "" && !containsFold(d.Months, month) {
			continue
		}
		if interest != "" && !containsFold(d.Interests, interest) {
			continue
		}
		out = append(out, d)
		if len(out) == 5 {
			break
		}
	}
	if out == nil {
		out = []destination{}
	}
	return out
}

// Rough daily costs per traveler in USD, keyed by travel style.
var dailyRates = map[string]float64{
	"budget":    60,
	"mid-range": 150,
	"luxury":    400,
}

func estimateBudget(destination string, days, travelers int, style string) map[string]interface{} {
	style = strings.ToLower(strings.TrimSpace(style))
	rate, ok := dailyRates[style]
	if !ok {
		style = "mid-range"
		rate = dailyRates[style]
	}
	if days < 1 {
		days = 1
	}
	if travelers < 1 {
		travelers = 1
	}

	perDay := rate * float64(travelers)
	return map[string]interface{}{
		"destination":  destination,
		"style":        style,
		"days":         days,
		"travelers":    travelers,
		"perDay":       perDay,
		"total":        perDay * float64(days),
		"currency":     "USD",
		"includesNote": "Covers lodging, food and local transport. Flights are estimated separately.",
	}
}

func parseReminderTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", value)
}

// offerResult serializes offers into a tool payload the model can read back.
func offerResult(offers interface{}, emptyMessage string) (map[string]interface{}, error) {
	b, err := json.Marshal(offers)
	if err != nil {
		return nil, err
	}
	var items []interface{}
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, err
	}
	result := map[string]interface{}{
		"count":  len(items),
		"offers": items,
	}
	if len(items) == 0 {
		result["message"] = emptyMessage
	}
	return result, nil
}

func confirmationResult(conf *models.BookingConfirmation) (map[string]interface{}, error) {
	return map[string]interface{}{
		"status":    "confirmed",
		"bookingId": conf.BookingID,
		"provider":  conf.Provider,
		"createdAt": conf.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func optString(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func optInt(args map[string]interface{}, key string, fallback int) int {
	if f, ok := asFloat(args[key]); ok {
		return int(f)
	}
	return fallback
}

func optFloat(args map[string]interface{}, key string) float64 {
	f, _ := asFloat(args[key])
	return f
}
