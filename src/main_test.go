package main

import (
	"bytes"
	"camphub/src/boot"
	"camphub/src/db"
	"camphub/src/lib"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"camphub/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	secret      = "secret"
	storageBase = "https://storage.test/camphub"
)

type TestSuite struct {
	suite.Suite
	DB       *gorm.DB
	Router   *gin.Engine
	Storage  *testStorage
	Owner    string
	Renter   string
	Stranger string
}

type testStorage struct {
	objects map[string][]byte
}

func (s *testStorage) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	url := lib.PublicObjectURL(storageBase, key)
	s.objects[url] = b
	return url, nil
}

func (s *testStorage) Delete(ctx context.Context, objectURL string) error {
	delete(s.objects, objectURL)
	return nil
}

func generateJWT(sub uuid.UUID, email string) (string, error) {
	claims := &types.Claims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", secret)
	os.Unsetenv("MAINTENANCE_MODE")
	registerValidators()

	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	inner, _ := d.DB()
	inner.SetMaxOpenConns(1)
	db.NewDB(d)
	s.DB = boot.InitDb()

	s.Storage = &testStorage{objects: map[string][]byte{}}
	objectStorage = s.Storage

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	publicRoutes(router)
	authorizedRoutes(router)
	s.Router = router

	for _, token := range []*string{&s.Owner, &s.Renter, &s.Stranger} {
		id := uuid.New()
		t, err := generateJWT(id, id.String()+"@camphub.test")
		if err != nil {
			log.Fatalf("Error generating JWT token: %s\n", err.Error())
		}
		*token = t
	}
}

func (s *TestSuite) TearDownSuite() {
	inner, err := s.DB.DB()
	if err != nil {
		log.Printf("Error accessing inner db instance: %s\n", err.Error())
		return
	}
	inner.Close()
}

func (s *TestSuite) request(method, url, token string, body any) (int, string) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w.Code, w.Body.String()
}

// newCampsite creates a campsite with one zone owned by s.Owner.
func (s *TestSuite) newCampsite(name string) uint64 {
	code, body := s.request("POST", "/api/v1/campsites", s.Owner, map[string]any{
		"name":            name,
		"location":        "Chiang Mai",
		"price_per_night": 500,
	})
	s.Require().Equal(http.StatusCreated, code, body)
	id := gjson.Get(body, "data.id").Uint()

	code, body = s.request("POST", fmt.Sprintf("/api/v1/campsites/%d/zones", id), s.Owner, map[string]any{
		"name":     "Zone A",
		"capacity": 4,
	})
	s.Require().Equal(http.StatusCreated, code, body)
	return id
}

func (s *TestSuite) book(campsiteID uint64, checkIn, checkOut string) (int, string) {
	return s.request("POST", "/api/v1/bookings", s.Renter, map[string]any{
		"campsite_id": campsiteID,
		"zone":        "Zone A",
		"check_in":    checkIn,
		"check_out":   checkOut,
		"guests":      2,
	})
}

func (s *TestSuite) availability(campsiteID uint64, checkIn, checkOut string) string {
	code, body := s.request("GET", fmt.Sprintf("/api/v1/campsites/%d/availability?zone=Zone%%20A&check_in=%s&check_out=%s", campsiteID, checkIn, checkOut), "", nil)
	s.Require().Equal(http.StatusOK, code, body)
	return body
}

func (s *TestSuite) TestPingRoute() {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	s.Router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestAuthRequired() {
	code, body := s.request("GET", "/api/v1/bookings", "", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, code)
	assert.False(s.T(), gjson.Get(body, "success").Bool())
	assert.NotEmpty(s.T(), gjson.Get(body, "error").String())

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
	}).SignedString([]byte("not-the-secret"))
	assert.Nil(s.T(), err)
	code, _ = s.request("GET", "/api/v1/bookings", forged, nil)
	assert.Equal(s.T(), http.StatusUnauthorized, code)

	code, body = s.request("GET", "/api/v1/me", s.Renter, nil)
	assert.Equal(s.T(), http.StatusOK, code)
	assert.Contains(s.T(), gjson.Get(body, "data.email").String(), "@camphub.test")
}

func (s *TestSuite) TestAvailabilityAndCancellation() {
	campsiteID := s.newCampsite("Availability Camp")

	code, body := s.book(campsiteID, "2025-01-10", "2025-01-12")
	s.Require().Equal(http.StatusCreated, code, body)
	bookingID := gjson.Get(body, "data.id").Uint()
	assert.Equal(s.T(), "pending", gjson.Get(body, "data.status").String())
	assert.Equal(s.T(), "unpaid", gjson.Get(body, "data.payment_status").String())

	s.Run("overlapping stay is reported with its conflict", func() {
		body := s.availability(campsiteID, "2025-01-11", "2025-01-13")
		assert.False(s.T(), gjson.Get(body, "data.available").Bool())
		assert.Equal(s.T(), bookingID, gjson.Get(body, "data.conflicts.0.id").Uint())
	})

	s.Run("check-out day is free", func() {
		body := s.availability(campsiteID, "2025-01-12", "2025-01-14")
		assert.True(s.T(), gjson.Get(body, "data.available").Bool())
	})

	s.Run("overlapping booking is rejected", func() {
		code, body := s.book(campsiteID, "2025-01-11", "2025-01-13")
		assert.Equal(s.T(), http.StatusConflict, code)
		assert.False(s.T(), gjson.Get(body, "success").Bool())
	})

	s.Run("only the campsite owner can approve", func() {
		url := fmt.Sprintf("/api/v1/bookings/%d/status", bookingID)
		code, _ := s.request("PUT", url, s.Stranger, map[string]any{"status": "approved"})
		assert.Equal(s.T(), http.StatusForbidden, code)
		code, _ = s.request("PUT", url, s.Renter, map[string]any{"status": "approved"})
		assert.Equal(s.T(), http.StatusForbidden, code)
		code, _ = s.request("PUT", url, s.Owner, map[string]any{"status": "confirmed"})
		assert.Equal(s.T(), http.StatusBadRequest, code)
	})

	s.Run("renter cancels and the dates open up", func() {
		url := fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID)
		code, body := s.request("PUT", url, s.Renter, nil)
		assert.Equal(s.T(), http.StatusOK, code, body)
		assert.Equal(s.T(), "cancelled", gjson.Get(body, "data.status").String())

		code, body = s.request("PUT", url, s.Renter, nil)
		assert.Equal(s.T(), http.StatusBadRequest, code)
		assert.Equal(s.T(), "booking is already cancelled", gjson.Get(body, "error").String())

		body = s.availability(campsiteID, "2025-01-10", "2025-01-12")
		assert.True(s.T(), gjson.Get(body, "data.available").Bool())

		code, body = s.request("GET", fmt.Sprintf("/api/v1/bookings/%d", bookingID), s.Owner, nil)
		assert.Equal(s.T(), http.StatusOK, code)
		assert.Equal(s.T(), "renter", gjson.Get(body, "data.cancelled_by").String())
	})
}

func (s *TestSuite) TestBookingValidation() {
	campsiteID := s.newCampsite("Validation Camp")

	code, body := s.book(campsiteID, "2025-01-12", "2025-01-10")
	assert.Equal(s.T(), http.StatusBadRequest, code)
	assert.False(s.T(), gjson.Get(body, "success").Bool())

	code, _ = s.book(campsiteID, "10/01/2025", "2025-01-12")
	assert.Equal(s.T(), http.StatusBadRequest, code)

	code, _ = s.request("GET", fmt.Sprintf("/api/v1/campsites/%d/availability?zone=Zone%%20A&check_in=2025-01-12&check_out=2025-01-12", campsiteID), "", nil)
	assert.Equal(s.T(), http.StatusBadRequest, code)

	code, _ = s.request("POST", "/api/v1/bookings", s.Owner, map[string]any{
		"campsite_id": campsiteID, "zone": "Zone A", "check_in": "2025-03-01", "check_out": "2025-03-02", "guests": 1,
	})
	assert.Equal(s.T(), http.StatusBadRequest, code)
}

func (s *TestSuite) TestPaymentFlow() {
	campsiteID := s.newCampsite("Payment Camp")
	code, body := s.book(campsiteID, "2025-02-10", "2025-02-12")
	s.Require().Equal(http.StatusCreated, code, body)
	bookingID := gjson.Get(body, "data.id").Uint()

	code, body = s.request("POST", fmt.Sprintf("/api/v1/bookings/%d/payments/cash", bookingID), s.Renter, map[string]any{"notes": "on arrival"})
	s.Require().Equal(http.StatusCreated, code, body)
	assert.Equal(s.T(), "cash", gjson.Get(body, "data.method").String())

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	mw.WriteField("bank_name", "Kasikorn")
	mw.WriteField("account_number", "123-4-56789-0")
	mw.WriteField("transaction_date", "2025-02-01")
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="slip"; filename="slip.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	s.Require().NoError(err)
	part.Write([]byte("png-bytes"))
	mw.Close()

	req, _ := http.NewRequest("POST", fmt.Sprintf("/api/v1/bookings/%d/payments/transfer", bookingID), &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Renter))
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	paymentID := gjson.Get(w.Body.String(), "data.id").Uint()
	slipURL := gjson.Get(w.Body.String(), "data.slip_url").String()
	assert.Contains(s.T(), s.Storage.objects, slipURL)

	code, body = s.request("GET", fmt.Sprintf("/api/v1/bookings/%d/payment", bookingID), s.Owner, nil)
	assert.Equal(s.T(), http.StatusOK, code)
	assert.Equal(s.T(), paymentID, gjson.Get(body, "data.id").Uint())
	assert.Equal(s.T(), "bank_transfer", gjson.Get(body, "data.method").String())

	verifyURL := fmt.Sprintf("/api/v1/payments/%d/verify", paymentID)
	code, _ = s.request("PUT", verifyURL, s.Renter, map[string]any{"status": "verified"})
	assert.Equal(s.T(), http.StatusForbidden, code)

	code, body = s.request("PUT", verifyURL, s.Owner, map[string]any{"status": "verified"})
	assert.Equal(s.T(), http.StatusOK, code, body)
	assert.Equal(s.T(), "verified", gjson.Get(body, "data.status").String())

	code, body = s.request("GET", fmt.Sprintf("/api/v1/bookings/%d", bookingID), s.Renter, nil)
	assert.Equal(s.T(), http.StatusOK, code)
	assert.Equal(s.T(), "verified", gjson.Get(body, "data.payment_status").String())
	assert.Equal(s.T(), "bank_transfer", gjson.Get(body, "data.payment_method").String())
	assert.Equal(s.T(), int64(1), gjson.Get(body, "data.payments.#").Int())
}

func (s *TestSuite) TestCashPaymentBody() {
	campsiteID := s.newCampsite("Cash Camp")
	code, body := s.book(campsiteID, "2025-03-10", "2025-03-12")
	s.Require().Equal(http.StatusCreated, code, body)
	url := fmt.Sprintf("/api/v1/bookings/%d/payments/cash", gjson.Get(body, "data.id").Uint())

	send := func(req *http.Request) *httptest.ResponseRecorder {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Renter))
		w := httptest.NewRecorder()
		s.Router.ServeHTTP(w, req)
		return w
	}

	// chunked bodies carry no content length
	req, _ := http.NewRequest("POST", url, io.NopCloser(bytes.NewReader([]byte(`{"notes":"pay at the gate"}`))))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	w := send(req)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(s.T(), "pay at the gate", gjson.Get(w.Body.String(), "data.notes").String())

	req, _ = http.NewRequest("POST", url, http.NoBody)
	w = send(req)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	assert.False(s.T(), gjson.Get(w.Body.String(), "data.notes").Exists())

	req, _ = http.NewRequest("POST", url, bytes.NewReader([]byte(`{"notes":`)))
	w = send(req)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code, w.Body.String())
}

func (s *TestSuite) TestNotifications() {
	campsiteID := s.newCampsite("Notification Camp")
	code, body := s.book(campsiteID, "2025-05-10", "2025-05-12")
	s.Require().Equal(http.StatusCreated, code, body)

	code, body = s.request("GET", "/api/v1/notifications?unread=true", s.Owner, nil)
	assert.Equal(s.T(), http.StatusOK, code)
	assert.GreaterOrEqual(s.T(), gjson.Get(body, "count").Int(), int64(1))
	assert.Equal(s.T(), "new_booking", gjson.Get(body, "data.0.type").String())

	code, _ = s.request("PUT", "/api/v1/notifications/not-a-uuid/read", s.Owner, nil)
	assert.Equal(s.T(), http.StatusBadRequest, code)

	code, _ = s.request("PUT", "/api/v1/notifications", s.Owner, nil)
	assert.Equal(s.T(), http.StatusOK, code)
	code, body = s.request("GET", "/api/v1/notifications?unread=true", s.Owner, nil)
	assert.Equal(s.T(), http.StatusOK, code)
	assert.Equal(s.T(), int64(0), gjson.Get(body, "count").Int())
}

func (s *TestSuite) TestUpstreamErrorIsMasked() {
	mockDB, mock, err := sqlmock.New()
	s.Require().NoError(err)
	defer mockDB.Close()
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{})
	s.Require().NoError(err)

	db.NewDB(gormDB)
	defer db.NewDB(s.DB)

	mock.ExpectQuery(`SELECT (.+) FROM "campsites"`).WillReturnError(errors.New(`pq: relation "campsites" does not exist`))

	code, body := s.request("GET", "/api/v1/campsites", "", nil)
	assert.Equal(s.T(), http.StatusInternalServerError, code)
	assert.Equal(s.T(), "something went wrong", gjson.Get(body, "error").String())
	assert.NotContains(s.T(), body, "relation")
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
