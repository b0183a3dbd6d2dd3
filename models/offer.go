// File: voyago/models/offer.go
package models

import "time"

// FlightOffer is a normalized flight search result. Offers are produced fresh
// per search call and never mutated.
type FlightOffer struct {
	ID           string    `bson:"id" json:"id"`
	Airline      string    `bson:"airline" json:"airline"`           // Carrier code, e.g. "TP"
	FlightNumber string    `bson:"flightNumber" json:"flightNumber"` // e.g. "TP 237"
	Origin       string    `bson:"origin" json:"origin"`             // IATA code
	Destination  string    `bson:"destination" json:"destination"`   // IATA code
	Departure    time.Time `bson:"departure" json:"departure"`
	Arrival      time.Time `bson:"arrival" json:"arrival"`
	DurationMin  int       `bson:"durationMin" json:"durationMin"` // Total itinerary duration in minutes
	Stops        int       `bson:"stops" json:"stops"`             // Segment count minus one
	Cabin        string    `bson:"cabin" json:"cabin"`
	Price        float64   `bson:"price" json:"price"`
	Currency     string    `bson:"currency" json:"currency"`
}

// HotelOffer is a normalized hotel search result.
type HotelOffer struct {
	ID            string  `bson:"id" json:"id"`
	Name          string  `bson:"name" json:"name"`
	Location      string  `bson:"location" json:"location"` // Joined city/country, e.g. "LIS, PT"
	Stars         int     `bson:"stars" json:"stars"`
	CheckIn       string  `bson:"checkIn" json:"checkIn"`   // Date, "2025-02-25"
	CheckOut      string  `bson:"checkOut" json:"checkOut"` // Date
	PricePerNight float64 `bson:"pricePerNight" json:"pricePerNight"`
	TotalPrice    float64 `bson:"totalPrice" json:"totalPrice"` // Rounded to the nearest whole unit
	Currency      string  `bson:"currency" json:"currency"`
}
