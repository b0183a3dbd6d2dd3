package booking

import (
	"context"
	"testing"
	"time"

	"voyago/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	created []models.Booking
}

func (r *fakeRepo) Create(ctx context.Context, b models.Booking) (string, error) {
	r.created = append(r.created, b)
	return b.ID, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	for i := range r.created {
		if r.created[i].ID == id {
			return &r.created[i], nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.created {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeScheduler struct {
	payloads []models.ReminderPayload
	fireAts  []time.Time
}

func (s *fakeScheduler) Schedule(ctx context.Context, p models.ReminderPayload, fireAt time.Time) error {
	s.payloads = append(s.payloads, p)
	s.fireAts = append(s.fireAts, fireAt)
	return nil
}

func TestBookFlightRecordsBookingAndReminder(t *testing.T) {
	repo := &fakeRepo{}
	sched := &fakeScheduler{}
	svc := NewDefaultBookingService(repo, sched, nil)

	departure := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
	conf, err := svc.BookFlight(context.Background(), "user-1", "conv-1", map[string]interface{}{
		"airline":     "TAP Air Portugal",
		"price":       642.0,
		"currency":    "USD",
		"destination": "Lisbon",
		"departure":   departure,
	})
	require.NoError(t, err)
	require.NotEmpty(t, conf.BookingID)
	assert.Equal(t, "TAP Air Portugal", conf.Provider)

	require.Len(t, repo.created, 1)
	b := repo.created[0]
	assert.Equal(t, models.BookingKindFlight, b.Kind)
	assert.Equal(t, "user-1", b.UserID)
	assert.Equal(t, "conv-1", b.ConversationID)
	assert.Equal(t, 642.0, b.TotalPrice)
	assert.Equal(t, "confirmed", b.Status)

	require.Len(t, sched.payloads, 1)
	assert.Equal(t, "user-1", sched.payloads[0].UserID)
	// Reminder fires a day before departure.
	want, _ := time.Parse(time.RFC3339, departure)
	assert.WithinDuration(t, want.Add(-24*time.Hour), sched.fireAts[0], time.Second)
}

func TestBookFlightMissingAirline(t *testing.T) {
	svc := NewDefaultBookingService(&fakeRepo{}, nil, nil)
	_, err := svc.BookFlight(context.Background(), "user-1", "", map[string]interface{}{
		"price": 100.0,
	})
	assert.Error(t, err)
}

func TestBookHotelRecordsBooking(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewDefaultBookingService(repo, nil, nil)

	conf, err := svc.BookHotel(context.Background(), "user-2", "conv-9", map[string]interface{}{
		"hotelName":  "Hotel Avenida Palace",
		"totalPrice": 482.0,
		"checkIn":    "2099-05-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hotel Avenida Palace", conf.Provider)

	require.Len(t, repo.created, 1)
	assert.Equal(t, models.BookingKindHotel, repo.created[0].Kind)
	assert.Equal(t, 482.0, repo.created[0].TotalPrice)
}

func TestReminderSkippedForPastOrBadDates(t *testing.T) {
	sched := &fakeScheduler{}
	svc := NewDefaultBookingService(&fakeRepo{}, sched, nil)

	_, err := svc.BookFlight(context.Background(), "user-1", "", map[string]interface{}{
		"airline":   "UA",
		"price":     100.0,
		"departure": "2001-01-01",
	})
	require.NoError(t, err)

	_, err = svc.BookFlight(context.Background(), "user-1", "", map[string]interface{}{
		"airline":   "UA",
		"price":     100.0,
		"departure": "sometime soon",
	})
	require.NoError(t, err)

	assert.Empty(t, sched.payloads, "bad or past dates must not schedule reminders")
}
