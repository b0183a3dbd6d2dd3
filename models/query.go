// File: voyago/models/query.go
package models

// FlightQuery holds the search constraints for a flight offer search.
type FlightQuery struct {
	Origin      string  `json:"origin"`      // Free text or IATA code
	Destination string  `json:"destination"` // Free text or IATA code
	Date        string  `json:"date"`        // Departure date, "2025-06-01"
	ReturnDate  string  `json:"returnDate,omitempty"`
	Travelers   int     `json:"travelers"` // Defaults to 1
	Cabin       string  `json:"cabin,omitempty"`
	MaxPrice    float64 `json:"maxPrice,omitempty"` // Price ceiling, 0 means none
}

// HotelQuery holds the search constraints for a hotel offer search.
type HotelQuery struct {
	City     string  `json:"city"` // Free text or IATA city code
	CheckIn  string  `json:"checkIn"`
	CheckOut string  `json:"checkOut"`
	Guests   int     `json:"guests"` // Defaults to 1
	Budget   float64 `json:"budget,omitempty"` // Total price ceiling, 0 means none
}
