package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"courtside/database/memory"
	"courtside/handlers"
	"courtside/middleware"
	"courtside/models"
	"courtside/routes"
	"courtside/services/billing"
	"courtside/services/booking"
	"courtside/services/identity"
	"courtside/services/listing"
	"courtside/services/notification"
	"courtside/services/partner"
	"courtside/services/tasks"
	"courtside/services/user"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type queued struct{ tasks []*asynq.Task }

func (q *queued) EnqueueContext(_ context.Context, t *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.tasks = append(q.tasks, t)
	return &asynq.TaskInfo{}, nil
}

type nopPusher struct{ count int }

func (p *nopPusher) Push(context.Context, string, string, string, map[string]string) error {
	p.count++
	return nil
}

type fakeImages struct{ folder string }

func (f *fakeImages) Upload(_ context.Context, r io.Reader, folder string) (*models.Image, error) {
	f.folder = folder
	_, _ = io.ReadAll(r)
	return &models.Image{URL: "https://img.example/full.jpg", ThumbnailURL: "https://img.example/thumb.jpg"}, nil
}

func (f *fakeImages) Delete(context.Context, string) error { return nil }

type app struct {
	t       *testing.T
	router  *gin.Engine
	db      *memory.DB
	idp     *identity.Fake
	queue   *queued
	pusher  *nopPusher
	images  *fakeImages
	billing *billing.Service
}

func newApp(t *testing.T) *app {
	t.Helper()
	logger := zap.NewNop()
	db := memory.New()
	idp := identity.NewFake()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	q := &queued{}
	pusher := &nopPusher{}
	images := &fakeImages{}
	notifier := notification.NewService(notification.NewAsynqEmailQueue(q), pusher, db.Users(), db.Partners(), "support@example.com", logger)

	listings := listing.NewService(db.Listings(), db.Partners(), db.Transactor(),
		listing.NewRedisSnapshotStore(rdb, time.Minute), listing.PriceJoint, time.UTC, logger)
	bookings := booking.NewService(db.Listings(), db.Users(), db.Transactor(), notifier, time.UTC, 3, logger)
	partners := partner.NewService(db.Partners(), idp, partner.PaymentConfig{
		EncryptionSecret: "enc", ReauthSecret: "reauth", ReauthTTL: time.Minute,
	}, logger)
	users := user.NewService(db.Users(), idp, logger)
	bill := billing.NewService(db.Partners(), time.UTC, logger)

	hb := &handlers.HandlerBundle{
		Listing: handlers.NewListingHandler(listings),
		Booking: handlers.NewBookingHandler(bookings),
		Partner: handlers.NewPartnerHandler(partners),
		User:    handlers.NewUserHandler(users),
		Auth:    handlers.NewAuthHandler(idp, notifier),
		Admin:   handlers.NewAdminHandler(bill, users),
		Storage: handlers.NewStorageHandler(images),
		Mail:    handlers.NewMailHandler(notifier),
	}

	r := gin.New()
	routes.RegisterRoutes(r, hb, routes.Deps{
		Verifier:    idp,
		Limiter:     middleware.NewRateLimiter(1000),
		Logger:      logger,
		AdminKey:    "admin-key",
		EmailAPIKey: "email-key",
	})
	return &app{t: t, router: r, db: db, idp: idp, queue: q, pusher: pusher, images: images, billing: bill}
}

func (a *app) do(method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

// registerPartner signs a partner up through the API and returns its token.
func (a *app) registerPartner(email string) (string, string) {
	w := a.do(http.MethodPost, "/api/partners/register", "", models.PartnerRegistration{
		CompanyName: "Marina Sports", CompanyEmail: email, Password: "password1",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var p models.Partner
	decode(a.t, w, &p)
	return p.ID, "token-" + p.ID
}

func (a *app) registerUser(email string) (string, string) {
	w := a.do(http.MethodPost, "/api/users/register", "", models.UserRegistration{
		FirstName: "Sara", Email: email, Password: "password1",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var u models.User
	decode(a.t, w, &u)
	return u.ID, "token-" + u.ID
}

func listingInput(name string, price int) models.ListingInput {
	return models.ListingInput{
		Name:       name,
		Location:   "Dubai",
		Sport:      "padel",
		Categories: []string{"indoor"},
		DateRange:  models.DateRange{From: "2025-06-01", To: "2025-06-02"},
		Timings: []models.TimingTemplate{
			{StartTime: "09:00", EndTime: "10:00", Price: price},
			{StartTime: "10:00", EndTime: "11:00", Price: price + 20},
		},
	}
}

func TestBookingFlow(t *testing.T) {
	a := newApp(t)
	partnerID, partnerToken := a.registerPartner("ops@marina.example")
	userID, userToken := a.registerUser("sara@example.com")

	w := a.do(http.MethodPost, "/api/partners/me/listings", partnerToken, listingInput("Marina Padel", 100))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var l models.Listing
	decode(t, w, &l)
	assert.Equal(t, partnerID, l.PartnerID)
	assert.Len(t, l.Dates, 2)

	slot := models.BookingRequestInput{
		SlotRequest:   models.SlotRequest{ListingID: l.ID, Date: "2025-06-02", StartTime: "09:00", EndTime: "10:00"},
		PaymentOption: models.PaymentCard,
	}

	// Partners cannot book.
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/bookings", partnerToken, slot).Code)

	w = a.do(http.MethodPost, "/api/bookings", userToken, slot)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res booking.Result
	decode(t, w, &res)
	assert.Equal(t, booking.OutcomeBooked, res.Outcome)
	require.NotNil(t, res.Booking)
	assert.Equal(t, 100, res.Booking.Time.Price)

	require.Len(t, a.queue.tasks, 1)
	mail, err := tasks.ParseEmailTask(a.queue.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, "sara@example.com", mail.To)

	_, otherToken := a.registerUser("omar@example.com")
	w = a.do(http.MethodPost, "/api/bookings", otherToken, slot)
	assert.Equal(t, http.StatusConflict, w.Code)
	decode(t, w, &res)
	assert.Equal(t, booking.ReasonSlotTaken, res.Reason)

	missing := slot
	missing.StartTime = "07:00"
	missing.EndTime = "08:00"
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, "/api/bookings", userToken, missing).Code)

	bad := slot
	bad.PaymentOption = "crypto"
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/bookings", userToken, bad).Code)

	w = a.do(http.MethodGet, "/api/users/me/bookings", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []models.Booking
	decode(t, w, &history)
	require.Len(t, history, 1)
	assert.Equal(t, l.ID, history[0].ListingID)

	w = a.do(http.MethodGet, "/api/partners/me/bookings", partnerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var booked []models.BookedSlot
	decode(t, w, &booked)
	require.Len(t, booked, 1)
	assert.Equal(t, userID, booked[0].UserID)

	// The owning partner cancels.
	w = a.do(http.MethodPost, "/api/bookings/cancel", partnerToken, slot.SlotRequest)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &res)
	assert.Equal(t, booking.OutcomeCancelled, res.Outcome)

	w = a.do(http.MethodPost, "/api/bookings/cancel", userToken, slot.SlotRequest)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListingQueryAndSearch(t *testing.T) {
	a := newApp(t)
	_, partnerToken := a.registerPartner("ops@marina.example")
	for _, in := range []models.ListingInput{listingInput("Marina Padel", 100), listingInput("Jumeirah Courts", 300)} {
		require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/partners/me/listings", partnerToken, in).Code)
	}

	w := a.do(http.MethodGet, "/api/listings?sport=PADEL&maxPrice=150&minPrice=50", "", nil, handlers.SessionHeader, "s1")
	require.Equal(t, http.StatusOK, w.Code)
	var res listing.QueryResult
	decode(t, w, &res)
	require.Len(t, res.Listings, 1)
	assert.Equal(t, "Marina Padel", res.Listings[0].Name)

	// Short queries restore the session's last result.
	w = a.do(http.MethodGet, "/api/listings/search?q=ju", "", nil, handlers.SessionHeader, "s1")
	decode(t, w, &res)
	require.Len(t, res.Listings, 1)

	w = a.do(http.MethodGet, "/api/listings/search?q=jumeirah", "", nil, handlers.SessionHeader, "s2")
	decode(t, w, &res)
	require.Len(t, res.Listings, 1)
	assert.Equal(t, "Jumeirah Courts", res.Listings[0].Name)

	w = a.do(http.MethodGet, "/api/listings?sport=tennis", "", nil)
	decode(t, w, &res)
	assert.Empty(t, res.Listings)
	assert.Equal(t, listing.NoResultsNotice, res.Notice)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/listings?minPrice=cheap", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/listings/nope", "", nil).Code)
}

func TestListingQuery_DateFilter(t *testing.T) {
	a := newApp(t)
	_, partnerToken := a.registerPartner("ops@marina.example")
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/partners/me/listings", partnerToken, listingInput("Marina Padel", 100)).Code)

	tests := []struct {
		name  string
		date  string
		count int
	}{
		{"calendar date", "2025-06-02", 1},
		{"timestamp with offset", "2025-06-02T10:00:00+04:00", 1},
		{"outside the listing range", "2025-06-03", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(http.MethodGet, "/api/listings?date="+url.QueryEscape(tt.date), "", nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var res listing.QueryResult
			decode(t, w, &res)
			assert.Len(t, res.Listings, tt.count)
		})
	}

	w := a.do(http.MethodGet, "/api/listings?date=not-a-date", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "YYYY-MM-DD")
}

func TestPartnerListingOwnership(t *testing.T) {
	a := newApp(t)
	_, ownerToken := a.registerPartner("ops@marina.example")
	_, otherToken := a.registerPartner("ops@jumeirah.example")

	w := a.do(http.MethodPost, "/api/partners/me/listings", ownerToken, listingInput("Marina Padel", 100))
	require.Equal(t, http.StatusCreated, w.Code)
	var l models.Listing
	decode(t, w, &l)

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodDelete, "/api/partners/me/listings/"+l.ID, otherToken, nil).Code)

	overlapping := listingInput("Broken", 100)
	overlapping.Timings = append(overlapping.Timings, models.TimingTemplate{StartTime: "09:30", EndTime: "10:30"})
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/partners/me/listings", ownerToken, overlapping).Code)

	w = a.do(http.MethodGet, "/api/partners/me/listings", ownerToken, nil)
	var mine []models.Listing
	decode(t, w, &mine)
	assert.Len(t, mine, 1)

	assert.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/api/partners/me/listings/"+l.ID, ownerToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/listings/"+l.ID, "", nil).Code)
}

func TestPartnerPaymentEndpoints(t *testing.T) {
	a := newApp(t)
	_, token := a.registerPartner("ops@marina.example")

	w := a.do(http.MethodPut, "/api/partners/me/payment", token, models.CardInput{
		CardNumber: "4111111111111111", CardCVV: "123", Password: "cardpass1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "4111111111111111")

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/partners/me/payment", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/partners/me/reauth", token, gin.H{"password": "nope"}).Code)

	w = a.do(http.MethodPost, "/api/partners/me/reauth", token, gin.H{"password": "cardpass1"})
	require.Equal(t, http.StatusOK, w.Code)
	var re struct {
		Token string `json:"token"`
	}
	decode(t, w, &re)

	w = a.do(http.MethodGet, "/api/partners/me/payment", token, nil, handlers.ReauthHeader, re.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var card models.RevealedCard
	decode(t, w, &card)
	assert.Equal(t, "4111111111111111", card.CardNumber)
}

func TestAccountEndpoints(t *testing.T) {
	a := newApp(t)
	_, token := a.registerUser("sara@example.com")

	w := a.do(http.MethodPost, "/api/users/register", "", models.UserRegistration{FirstName: "Dup", Email: "sara@example.com", Password: "password1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), identity.Message(identity.ErrEmailExists))

	w = a.do(http.MethodPatch, "/api/users/me", token, gin.H{"preferredEmirate": "Sharjah"})
	require.Equal(t, http.StatusOK, w.Code)
	var u models.User
	decode(t, w, &u)
	assert.Equal(t, "Sharjah", u.PreferredEmirate)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPatch, "/api/users/me", token, gin.H{}).Code)

	assert.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/auth/password-reset", "", gin.H{"email": "sara@example.com"}).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/auth/password-reset", "", gin.H{"email": "nobody@example.com"}).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/auth/verify-email", token, nil).Code)
	assert.Len(t, a.queue.tasks, 2)

	assert.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/api/users/me", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/users/me", token, nil).Code)
}

func TestMailEndpoints(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodPost, "/api/contact", "", models.ContactMessage{Name: "Omar", Email: "omar@example.com", Message: "Hi"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/contact", "", gin.H{"name": "Omar"}).Code)

	email := models.EmailPayload{To: "x@example.com", Subject: "Hello", HTML: "<p>hi</p>"}
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/internal/email", "", email).Code)
	assert.Equal(t, http.StatusAccepted, a.do(http.MethodPost, "/api/internal/email", "", email, "X-Api-Key", "email-key").Code)
	assert.Len(t, a.queue.tasks, 2)
}

func TestAdminEndpoints(t *testing.T) {
	a := newApp(t)
	a.registerPartner("ops@marina.example")
	a.idp.Add("u9", "fresh@example.com", identity.RoleUser)
	require.NoError(t, a.db.Users().Create(context.Background(), &models.User{ID: "u9", Email: "stale@example.com"}))

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/admin/billing/run", "wrong", nil).Code)

	w := a.do(http.MethodPost, "/api/admin/billing/run", "admin-key", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report billing.RunReport
	decode(t, w, &report)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Initialized)

	w = a.do(http.MethodPost, "/api/admin/users/sync-emails", "admin-key", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sync user.SyncReport
	decode(t, w, &sync)
	assert.Equal(t, 1, sync.Updated)
}

func TestUploadImage(t *testing.T) {
	a := newApp(t)
	partnerID, token := a.registerPartner("ops@marina.example")

	upload := func(contentType string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="file"; filename="court.jpg"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, _ = part.Write([]byte("fake image bytes"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/partners/me/uploads", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, req)
		return w
	}

	w := upload("image/jpeg")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var img models.Image
	decode(t, w, &img)
	assert.Equal(t, "https://img.example/thumb.jpg", img.ThumbnailURL)
	assert.Equal(t, "partners/"+partnerID, a.images.folder)

	assert.Equal(t, http.StatusUnsupportedMediaType, upload("application/pdf").Code)
}
