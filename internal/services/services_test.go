package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rincondelcarmen/hotel-booking/internal/database"
	"github.com/rincondelcarmen/hotel-booking/internal/metrics"
	"github.com/rincondelcarmen/hotel-booking/internal/models"
	"github.com/rincondelcarmen/hotel-booking/internal/repository"
	"github.com/rincondelcarmen/hotel-booking/pkg/config"
)

// flakyBackend fails every Put while broken is set
type flakyBackend struct {
	*database.Memory
	broken atomic.Bool
}

// fixedClock pins "today" before every stay used in these tests
func fixedClock() time.Time { return time.Date(2023, 12, 1, 9, 30, 0, 0, time.UTC) }

func (f *flakyBackend) Put(ctx context.Context, key string, value []byte) error {
	if f.broken.Load() {
		return fmt.Errorf("disk full")
	}
	return f.Memory.Put(ctx, key, value)
}

type fixture struct {
	svc     *Services
	repos   *repository.Repositories
	metrics *metrics.Metrics
	backend *flakyBackend
	admin   *models.User
	guest   *models.User
	other   *models.User
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	ctx := context.Background()

	backend := &flakyBackend{Memory: database.NewMemory()}
	n := 0
	repos := repository.NewRepositories(backend, repository.KeysFor("hotel_"),
		repository.WithIDGenerator(func() string { n++; return fmt.Sprintf("r%d", n) }))
	_, err := repository.Seed(ctx, repos, nil)
	require.NoError(t, err)

	cfg := config.Defaults()
	cfg.SessionSecret = "test-secret"
	cfg.StrictBooking = strict
	m := metrics.New("test")

	svc, err := NewServices(Dependencies{Repos: repos, Config: cfg, Metrics: m, Clock: fixedClock})
	require.NoError(t, err)

	admin, err := repos.User.GetByID(ctx, "1")
	require.NoError(t, err)
	guest, err := repos.User.Create(ctx, models.UserDraft{FullName: "Guest One", Email: "u1@example.com", Password: "pw"})
	require.NoError(t, err)
	other, err := repos.User.Create(ctx, models.UserDraft{FullName: "Guest Two", Email: "u2@example.com", Password: "pw"})
	require.NoError(t, err)

	return &fixture{svc: svc, repos: repos, metrics: m, backend: backend, admin: admin, guest: guest, other: other}
}

func d(s string) models.Date { return models.MustParseDate(s) }

func roomIDs(rooms []models.Room) []string {
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestBookSearchCancelScenario(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	price := 100000.0
	_, err := f.svc.Rooms.Update(ctx, f.admin, "1", models.RoomUpdate{PricePerNight: &price})
	require.NoError(t, err)

	res, err := f.svc.Booking.Book(ctx, f.guest, models.BookingRequest{
		RoomID: "1", CheckIn: d("2024-01-01"), CheckOut: d("2024-01-03"), People: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, res.Status)
	assert.Equal(t, 200000.0, res.TotalPrice)
	assert.Equal(t, f.guest.ID, res.UserID)
	assert.Equal(t, "Suite Presidencial", res.RoomName)

	q := searchQuery("2024-01-02", "2024-01-04", 2)
	rooms, err := f.svc.Booking.Search(ctx, q)
	require.NoError(t, err)
	assert.NotContains(t, roomIDs(rooms), "1")

	_, err = f.svc.Booking.Cancel(ctx, f.guest, res.ID)
	require.NoError(t, err)

	rooms, err = f.svc.Booking.Search(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, roomIDs(rooms))
}

func searchQuery(in, out string, people int) availabilityQuery {
	return availabilityQuery{CheckIn: d(in), CheckOut: d(out), People: people}
}

func TestSearchBackToBackAndCapacity(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.svc.Booking.Book(ctx, f.guest, models.BookingRequest{
		RoomID: "3", CheckIn: d("2024-03-01"), CheckOut: d("2024-03-05"), People: 4,
	})
	require.NoError(t, err)

	rooms, err := f.svc.Booking.Search(ctx, searchQuery("2024-03-05", "2024-03-07", 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, roomIDs(rooms))

	rooms, err = f.svc.Booking.Search(ctx, searchQuery("2024-03-04", "2024-03-07", 3))
	require.NoError(t, err)
	assert.Empty(t, rooms)
	assert.NotNil(t, rooms)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.SearchesTotal))
}

func TestSearchRejectsInvalidStay(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	for name, q := range map[string]availabilityQuery{
		"reversed":  searchQuery("2024-01-05", "2024-01-01", 1),
		"same day":  searchQuery("2024-01-05", "2024-01-05", 1),
		"no guests": searchQuery("2024-01-01", "2024-01-05", 0),
		"no dates":  {People: 1},
		"past":      searchQuery("2023-11-30", "2023-12-02", 1),
		"too long":  searchQuery("2024-01-01", "2025-01-01", 1),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Booking.Search(ctx, q)
			assertCode(t, "INVALID_INPUT", err)
		})
	}
}

func TestStayBoundaries(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	// today is bookable, even late in the day
	_, err := f.svc.Booking.Search(ctx, searchQuery("2023-12-01", "2023-12-02", 1))
	require.NoError(t, err)

	// exactly MaxStayNights is allowed; one more is not
	_, err = f.svc.Booking.Search(ctx, searchQuery("2024-01-01", "2024-12-31", 1))
	require.NoError(t, err)
	_, err = f.svc.Booking.Search(ctx, searchQuery("2024-01-01", "2025-01-01", 1))
	assertCode(t, "INVALID_INPUT", err)

	// dates centuries apart are rejected instead of overflowing the price
	_, err = f.svc.Booking.Quote(ctx, "1", d("2024-01-01"), d("2400-01-01"))
	assertCode(t, "INVALID_INPUT", err)

	_, err = f.svc.Booking.Book(ctx, f.guest, models.BookingRequest{RoomID: "1", CheckIn: d("2023-11-20"), CheckOut: d("2023-11-22"), People: 1})
	assertCode(t, "INVALID_INPUT", err)
	mine, err := f.svc.Booking.ListMine(ctx, f.guest)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestSearchHidesInactiveRooms(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.svc.Rooms.ToggleActive(ctx, f.admin, "2")
	require.NoError(t, err)

	rooms, err := f.svc.Booking.Search(ctx, searchQuery("2024-01-01", "2024-01-02", 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, roomIDs(rooms))

	_, err = f.svc.Booking.GetRoom(ctx, "2")
	assertCode(t, "ROOM_NOT_FOUND", err)
}

func TestBookFailures(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	valid := models.BookingRequest{RoomID: "1", CheckIn: d("2024-05-01"), CheckOut: d("2024-05-02"), People: 1}

	_, err := f.svc.Booking.Book(ctx, nil, valid)
	assertCode(t, "UNAUTHORIZED", err)

	missing := valid
	missing.RoomID = "404"
	_, err = f.svc.Booking.Book(ctx, f.guest, missing)
	assertCode(t, "ROOM_NOT_FOUND", err)

	crowded := valid
	crowded.People = 3
	_, err = f.svc.Booking.Book(ctx, f.guest, crowded)
	assertCode(t, "INVALID_INPUT", err)

	_, err = f.svc.Rooms.ToggleActive(ctx, f.admin, "1")
	require.NoError(t, err)
	_, err = f.svc.Booking.Book(ctx, f.guest, valid)
	assertCode(t, "ROOM_NOT_FOUND", err)

	assert.Equal(t, 4.0, testutil.ToFloat64(f.metrics.BookingsTotal.WithLabelValues(metrics.ResultRejected)))
}

func TestStrictBookingRejectsOverlap(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	req := models.BookingRequest{RoomID: "2", CheckIn: d("2024-06-10"), CheckOut: d("2024-06-12"), People: 1}

	_, err := f.svc.Booking.Book(ctx, f.guest, req)
	require.NoError(t, err)

	_, err = f.svc.Booking.Book(ctx, f.other, req)
	assertCode(t, "ROOM_UNAVAILABLE", err)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BookingsTotal.WithLabelValues(metrics.ResultUnavailable)))
}

func TestLenientBookingTrustsCaller(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	req := models.BookingRequest{RoomID: "2", CheckIn: d("2024-06-10"), CheckOut: d("2024-06-12"), People: 1}

	_, err := f.svc.Booking.Book(ctx, f.guest, req)
	require.NoError(t, err)
	_, err = f.svc.Booking.Book(ctx, f.other, req)
	require.NoError(t, err)

	all, err := f.svc.Admin.ListReservations(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestConcurrentStrictBookingsNeverOverlap(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	var wg sync.WaitGroup
	var confirmed atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			identity := f.guest
			if i%2 == 1 {
				identity = f.other
			}
			_, err := f.svc.Booking.Book(ctx, identity, models.BookingRequest{
				RoomID: "3", CheckIn: d("2024-07-01"), CheckOut: d("2024-07-04"), People: 2,
			})
			if err == nil {
				confirmed.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), confirmed.Load())
}

func TestCancelAuthorization(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	res, err := f.svc.Booking.Book(ctx, f.guest, models.BookingRequest{
		RoomID: "1", CheckIn: d("2024-08-01"), CheckOut: d("2024-08-03"), People: 1,
	})
	require.NoError(t, err)

	_, err = f.svc.Booking.Cancel(ctx, nil, res.ID)
	assertCode(t, "UNAUTHORIZED", err)

	_, err = f.svc.Booking.Cancel(ctx, f.other, res.ID)
	assertCode(t, "FORBIDDEN", err)

	_, err = f.svc.Booking.Cancel(ctx, f.guest, "missing")
	assertCode(t, "NOT_FOUND", err)

	cancelled, err := f.svc.Booking.Cancel(ctx, f.admin, res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	again, err := f.svc.Booking.Cancel(ctx, f.guest, res.ID)
	require.NoError(t, err)
	assert.Equal(t, cancelled, again)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CancellationsTotal))
}

func TestCancelLeavesOtherReservationsAlone(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	a, err := f.svc.Booking.Book(ctx, f.guest, models.BookingRequest{RoomID: "1", CheckIn: d("2024-09-01"), CheckOut: d("2024-09-02"), People: 1})
	require.NoError(t, err)
	b, err := f.svc.Booking.Book(ctx, f.guest, models.BookingRequest{RoomID: "2", CheckIn: d("2024-09-01"), CheckOut: d("2024-09-02"), People: 1})
	require.NoError(t, err)

	_, err = f.svc.Booking.Cancel(ctx, f.guest, a.ID)
	require.NoError(t, err)

	stored, err := f.repos.Reservation.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
}

func TestListMine(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	none, err := f.svc.Booking.ListMine(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.svc.Booking.Book(ctx, f.guest, models.BookingRequest{RoomID: "1", CheckIn: d("2024-10-01"), CheckOut: d("2024-10-02"), People: 1})
	require.NoError(t, err)
	_, err = f.svc.Booking.Book(ctx, f.other, models.BookingRequest{RoomID: "2", CheckIn: d("2024-10-01"), CheckOut: d("2024-10-02"), People: 1})
	require.NoError(t, err)

	mine, err := f.svc.Booking.ListMine(ctx, f.guest)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "1", mine[0].RoomID)
}

func TestQuote(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	q, err := f.svc.Booking.Quote(ctx, "2", d("2024-02-27"), d("2024-03-02"))
	require.NoError(t, err)
	assert.Equal(t, 4, q.Nights)
	assert.Equal(t, 4*280000.0, q.TotalPrice)

	_, err = f.svc.Booking.Quote(ctx, "2", d("2024-03-02"), d("2024-03-02"))
	assertCode(t, "INVALID_INPUT", err)
}

func TestStoreFailureSurfacesAsDatabaseError(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	f.backend.broken.Store(true)
	_, err := f.svc.Booking.Book(ctx, f.guest, models.BookingRequest{RoomID: "1", CheckIn: d("2024-11-01"), CheckOut: d("2024-11-02"), People: 1})
	assertCode(t, "DATABASE_ERROR", err)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StoreErrorsTotal.WithLabelValues("book")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BookingsTotal.WithLabelValues(metrics.ResultFailed)))

	f.backend.broken.Store(false)
	_, err = f.svc.Booking.Book(ctx, f.guest, models.BookingRequest{RoomID: "1", CheckIn: d("2024-11-01"), CheckOut: d("2024-11-02"), People: 1})
	require.NoError(t, err)
}

func TestRoomAdministration(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	draft := models.RoomDraft{
		Name: "  Cabaña  ", Description: "Junto al río", Beds: 2, MaxPeople: 3,
		PricePerNight: 0, Amenities: []string{" ", "Chimenea "}, Image: "data:image/png;base64,AAAA",
	}

	_, err := f.svc.Rooms.Create(ctx, f.guest, draft)
	assertCode(t, "FORBIDDEN", err)
	_, err = f.svc.Rooms.Create(ctx, nil, draft)
	assertCode(t, "UNAUTHORIZED", err)

	room, err := f.svc.Rooms.Create(ctx, f.admin, draft)
	require.NoError(t, err)
	assert.Equal(t, "Cabaña", room.Name)
	assert.Equal(t, []string{"Chimenea"}, room.Amenities)
	assert.True(t, room.Active)

	stored, err := f.repos.Room.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room, stored)

	plain, err := f.svc.Rooms.Create(ctx, f.admin, models.RoomDraft{Name: "Sencilla", Beds: 1, MaxPeople: 1, PricePerNight: 90000, Image: "x.jpg"})
	require.NoError(t, err)
	assert.Equal(t, DefaultAmenities, plain.Amenities)

	all, err := f.svc.Rooms.ListAll(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestRoomDraftValidation(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	base := models.RoomDraft{Name: "A", Beds: 1, MaxPeople: 1, PricePerNight: 1, Image: "a.jpg"}

	cases := map[string]func(*models.RoomDraft){
		"no name":        func(r *models.RoomDraft) { r.Name = " " },
		"no beds":        func(r *models.RoomDraft) { r.Beds = 0 },
		"no capacity":    func(r *models.RoomDraft) { r.MaxPeople = 0 },
		"negative price": func(r *models.RoomDraft) { r.PricePerNight = -1 },
		"no image":       func(r *models.RoomDraft) { r.Image = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			draft := base
			mutate(&draft)
			_, err := f.svc.Rooms.Create(ctx, f.admin, draft)
			assertCode(t, "INVALID_INPUT", err)
		})
	}
}

func TestRoomUpdate(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	zero := 0.0
	_, err := f.svc.Rooms.Update(ctx, f.admin, "1", models.RoomUpdate{PricePerNight: &zero})
	assertCode(t, "INVALID_INPUT", err)

	_, err = f.svc.Rooms.Update(ctx, f.admin, "1", models.RoomUpdate{})
	assertCode(t, "INVALID_INPUT", err)

	price := 500000.0
	_, err = f.svc.Rooms.Update(ctx, f.admin, "404", models.RoomUpdate{PricePerNight: &price})
	assertCode(t, "ROOM_NOT_FOUND", err)

	_, err = f.svc.Rooms.Update(ctx, f.guest, "1", models.RoomUpdate{PricePerNight: &price})
	assertCode(t, "FORBIDDEN", err)

	room, err := f.svc.Rooms.Update(ctx, f.admin, "1", models.RoomUpdate{PricePerNight: &price})
	require.NoError(t, err)
	assert.Equal(t, 500000.0, room.PricePerNight)
	assert.True(t, room.Active)

	room, err = f.svc.Rooms.ToggleActive(ctx, f.admin, "1")
	require.NoError(t, err)
	assert.False(t, room.Active)
	room, err = f.svc.Rooms.ToggleActive(ctx, f.admin, "1")
	require.NoError(t, err)
	assert.True(t, room.Active)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.svc.Admin.Dashboard(ctx, f.guest)
	assertCode(t, "FORBIDDEN", err)

	var last *models.Reservation
	for day := 1; day <= 6; day++ {
		in := time.Date(2025, 1, day*3, 0, 0, 0, 0, time.UTC)
		last, err = f.svc.Booking.Book(ctx, f.guest, models.BookingRequest{
			RoomID: "2", CheckIn: models.NewDate(in), CheckOut: models.NewDate(in.AddDate(0, 0, 1)), People: 1,
		})
		require.NoError(t, err)
	}
	_, err = f.svc.Booking.Cancel(ctx, f.guest, last.ID)
	require.NoError(t, err)

	dash, err := f.svc.Admin.Dashboard(ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 6, dash.TotalReservations)
	assert.Equal(t, 5, dash.ConfirmedReservations)
	assert.Equal(t, 3, dash.TotalRooms)
	assert.Equal(t, 3, dash.TotalUsers)
	assert.Equal(t, 5*280000.0, dash.TotalRevenue)
	require.Len(t, dash.RecentActivity, 5)
	assert.Equal(t, last.ID, dash.RecentActivity[0].ID)
}

func TestAuthServiceFlow(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	session := f.svc.Auth.NewSession()
	_, err := f.svc.Auth.Login(ctx, session, models.LoginRequest{Email: repository.SeedAdminEmail, Password: "wrongpass"})
	assertCode(t, "INVALID_CREDENTIALS", err)
	_, err = f.svc.Auth.Login(ctx, session, models.LoginRequest{Email: "nobody@x.com", Password: "x"})
	assertCode(t, "USER_NOT_FOUND", err)

	draft := models.UserDraft{DocumentID: "9", FullName: "A", Email: "a@x.com", Password: "pw"}
	user, err := f.svc.Auth.Register(ctx, session, draft)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, user.Role)

	_, err = f.svc.Auth.Register(ctx, f.svc.Auth.NewSession(), draft)
	assertCode(t, "EMAIL_TAKEN", err)

	token, _, err := session.Token()
	require.NoError(t, err)
	resumed, err := f.svc.Auth.Resume(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resumed.Current().ID)

	f.svc.Auth.Logout(resumed)
	assert.False(t, resumed.IsAuthenticated())

	empty, err := f.svc.Auth.Resume(ctx, "")
	require.NoError(t, err)
	assert.False(t, empty.IsAuthenticated())

	found, err := f.svc.Auth.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", found.Email)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LoginsTotal.WithLabelValues("invalid_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RegistrationsTotal.WithLabelValues("email_taken")))
}

func TestBcryptModeSeedsHashedAdmin(t *testing.T) {
	ctx := context.Background()
	cfg := config.Defaults()
	cfg.PasswordMode = config.PasswordBcrypt
	cfg.SessionSecret = "s"

	encode, err := PasswordEncoder(cfg)
	require.NoError(t, err)

	repos := repository.NewRepositories(database.NewMemory(), repository.KeysFor("hotel_"))
	_, err = repository.Seed(ctx, repos, encode)
	require.NoError(t, err)

	admin, err := repos.User.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.NotEqual(t, repository.SeedAdminPassword, admin.Password)

	svc, err := NewServices(Dependencies{Repos: repos, Config: cfg})
	require.NoError(t, err)
	user, err := svc.Auth.Login(ctx, svc.Auth.NewSession(), models.LoginRequest{Email: repository.SeedAdminEmail, Password: repository.SeedAdminPassword})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
}
