package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"takemeto75/database"
	"takemeto75/logger"
	"takemeto75/metrics"
	"takemeto75/services"
	"takemeto75/trip"
)

type fakeFlights struct {
	createErr error
	cancelErr error
	created   []string
	cancelled []string
}

func (f *fakeFlights) CreateOrder(_ context.Context, offerID string, _ trip.Passenger) (services.FlightOrder, error) {
	if f.createErr != nil {
		return services.FlightOrder{}, f.createErr
	}
	f.created = append(f.created, offerID)
	return services.FlightOrder{ID: "ord_1", BookingReference: "ABC123"}, nil
}

func (f *fakeFlights) CancelOrder(_ context.Context, orderID string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, orderID)
	return nil
}

type fakeHotels struct {
	err  error
	stay services.HotelStay
}

func (f *fakeHotels) CreateOrder(_ context.Context, stay services.HotelStay, _ trip.Passenger) (services.HotelOrder, error) {
	if f.err != nil {
		return services.HotelOrder{}, f.err
	}
	f.stay = stay
	return services.HotelOrder{CheckoutURL: "https://www.booking.com/searchresults.html?dest_id=42"}, nil
}

var testPassenger = trip.Passenger{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}

func testPackage() trip.TripPackage {
	return trip.TripPackage{
		ID:          "pkg_1_abcd_base",
		Tier:        trip.TierBase,
		Destination: trip.Destination{City: "San Diego", Airport: "SAN"},
		Dates:       trip.TravelDates{CheckIn: "2026-03-02", CheckOut: "2026-03-05", Nights: 3},
		Flight:      trip.FlightOffer{ID: "off_1", Price: 300},
		Hotel:       trip.HotelOffer{ID: "42", Provider: "booking", Price: 360},
		TotalPrice:  685,
	}
}

// brokenBookings fails every save.
type brokenBookings struct {
	*database.MemoryBookings
}

func (brokenBookings) Create(context.Context, trip.Booking) error {
	return errors.New("db down")
}

type fixture struct {
	svc      *Service
	flights  *fakeFlights
	hotels   *fakeHotels
	packages *database.MemoryPackages
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		flights:  &fakeFlights{},
		hotels:   &fakeHotels{},
		packages: database.NewMemoryPackages(),
		clock:    time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.packages.Save(context.Background(), testPackage()))
	f.svc = NewService(database.NewMemoryBookings(), f.packages, f.flights, f.hotels, logger.NewNop(), metrics.Nop())
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func TestCreateFromStoredPackage(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.Create(context.Background(), CreateRequest{PackageID: "pkg_1_abcd_base", Passenger: testPassenger})
	require.NoError(t, err)

	assert.Regexp(t, `^bkg_\d+_[0-9a-f]{8}$`, b.ID)
	assert.Equal(t, trip.BookingConfirmed, b.Status)
	assert.Equal(t, "ord_1", b.FlightOrderID)
	assert.NotEmpty(t, b.HotelCheckoutURL)
	assert.Equal(t, f.clock.Add(time.Hour), b.RefundDeadline)
	assert.Equal(t, []string{"off_1"}, f.flights.created)
	assert.Equal(t, "San Diego", f.hotels.stay.City)
	assert.Equal(t, "2026-03-02", f.hotels.stay.CheckIn)
}

func TestCreateFromEmbeddedPackage(t *testing.T) {
	f := newFixture(t)
	pkg := testPackage()
	pkg.ID = "pkg_client_side"

	b, err := f.svc.Create(context.Background(), CreateRequest{Package: &pkg, Passenger: testPassenger})
	require.NoError(t, err)
	assert.Equal(t, "pkg_client_side", b.Package.ID)
}

func TestCreateRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateRequest{Passenger: testPassenger})
	assert.ErrorIs(t, err, ErrPackageRequired)

	_, err = f.svc.Create(ctx, CreateRequest{PackageID: "pkg_missing", Passenger: testPassenger})
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = f.svc.Create(ctx, CreateRequest{PackageID: "pkg_1_abcd_base", Passenger: trip.Passenger{FirstName: "Ada"}})
	assert.ErrorIs(t, err, ErrInvalidPassenger)

	f.flights.createErr = errors.New("offer expired")
	_, err = f.svc.Create(ctx, CreateRequest{PackageID: "pkg_1_abcd_base", Passenger: testPassenger})
	assert.ErrorContains(t, err, "offer expired")
	assert.Empty(t, f.flights.cancelled)
}

func TestCancelInsideWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.svc.Create(ctx, CreateRequest{PackageID: "pkg_1_abcd_base", Passenger: testPassenger})
	require.NoError(t, err)

	f.clock = f.clock.Add(59 * time.Minute)
	cancelled, err := f.svc.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.BookingCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, []string{"ord_1"}, f.flights.cancelled)

	_, err = f.svc.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	view, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, view.RefundAvailable)
}

func TestCancelAfterDeadline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.svc.Create(ctx, CreateRequest{PackageID: "pkg_1_abcd_base", Passenger: testPassenger})
	require.NoError(t, err)

	f.clock = b.RefundDeadline.Add(time.Second)
	_, err = f.svc.Cancel(ctx, b.ID)

	var windowErr *RefundWindowError
	require.ErrorAs(t, err, &windowErr)
	assert.Equal(t, b.RefundDeadline, windowErr.Deadline)
	assert.Empty(t, f.flights.cancelled)

	view, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.BookingConfirmed, view.Status)
	assert.False(t, view.RefundAvailable)
}

func TestCancelAtDeadlineIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.svc.Create(ctx, CreateRequest{PackageID: "pkg_1_abcd_base", Passenger: testPassenger})
	require.NoError(t, err)

	f.clock = b.RefundDeadline
	_, err = f.svc.Cancel(ctx, b.ID)
	var windowErr *RefundWindowError
	assert.ErrorAs(t, err, &windowErr)
}

func TestCancelUpstreamFailureKeepsBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.svc.Create(ctx, CreateRequest{PackageID: "pkg_1_abcd_base", Passenger: testPassenger})
	require.NoError(t, err)

	f.flights.cancelErr = errors.New("duffel down")
	_, err = f.svc.Cancel(ctx, b.ID)
	require.Error(t, err)

	view, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.BookingConfirmed, view.Status)
	assert.True(t, view.RefundAvailable)
}

func TestCancelUnknownBooking(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Cancel(context.Background(), "bkg_missing")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestCreateCancelsFlightWhenSaveFails(t *testing.T) {
	f := newFixture(t)
	bookings := brokenBookings{database.NewMemoryBookings()}
	f.svc = NewService(bookings, f.packages, f.flights, f.hotels, logger.NewNop(), metrics.Nop())
	f.svc.now = func() time.Time { return f.clock }

	_, err := f.svc.Create(context.Background(), CreateRequest{PackageID: "pkg_1_abcd_base", Passenger: testPassenger})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.Equal(t, []string{"off_1"}, f.flights.created)
	assert.Equal(t, []string{"ord_1"}, f.flights.cancelled)
}

func TestCreateCancelsFlightWhenHotelFails(t *testing.T) {
	f := newFixture(t)
	f.hotels.err = errors.New("hotel upstream down")

	_, err := f.svc.Create(context.Background(), CreateRequest{PackageID: "pkg_1_abcd_base", Passenger: testPassenger})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hotel booking failed")
	assert.Equal(t, []string{"ord_1"}, f.flights.cancelled)
}

func TestCreateCompensationFailureKeepsOriginalError(t *testing.T) {
	f := newFixture(t)
	f.hotels.err = errors.New("hotel upstream down")
	f.flights.cancelErr = errors.New("duffel unavailable")

	_, err := f.svc.Create(context.Background(), CreateRequest{PackageID: "pkg_1_abcd_base", Passenger: testPassenger})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hotel upstream down")
	assert.Empty(t, f.flights.cancelled)
}
