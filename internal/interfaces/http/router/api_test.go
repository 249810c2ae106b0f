package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	blapp "github.com/bizline/backoffice/internal/application/businessline"
	financeapp "github.com/bizline/backoffice/internal/application/finance"
	identityapp "github.com/bizline/backoffice/internal/application/identity"
	inventoryapp "github.com/bizline/backoffice/internal/application/inventory"
	partnerapp "github.com/bizline/backoffice/internal/application/partner"
	reportapp "github.com/bizline/backoffice/internal/application/report"
	tradeapp "github.com/bizline/backoffice/internal/application/trade"
	"github.com/bizline/backoffice/internal/infrastructure/auth"
	"github.com/bizline/backoffice/internal/infrastructure/cache"
	"github.com/bizline/backoffice/internal/infrastructure/config"
	"github.com/bizline/backoffice/internal/infrastructure/persistence"
	"github.com/bizline/backoffice/internal/infrastructure/persistence/models"
	"github.com/bizline/backoffice/internal/interfaces/http/handler"
	"github.com/bizline/backoffice/internal/interfaces/http/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total int64 `json:"total"`
	} `json:"meta"`
}

type testAPI struct {
	t      *testing.T
	engine *Engine
	users  *identityapp.UserService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	require.NoError(t, middleware.SetupValidator())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	database := persistence.NewDatabaseFromGorm(db)
	lineRepo := persistence.NewGormBusinessLineRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	vendorRepo := persistence.NewGormVendorRepository(db)
	itemRepo := persistence.NewGormStockItemRepository(db)
	adjustmentRepo := persistence.NewGormStockAdjustmentRepository(db)
	invoiceRepo := persistence.NewGormSalesInvoiceRepository(db)
	intakeRepo := persistence.NewGormPurchaseIntakeRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	reportRepo := persistence.NewGormReportRepository(db)

	idempotency := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idempotency.Close() })

	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:                "router-test-secret-with-enough-bytes",
		AccessTokenExpiration: time.Hour,
		Issuer:                "backoffice-test",
	})

	userService := identityapp.NewUserService(userRepo, lineRepo, database, nil, nil)
	customerService := partnerapp.NewCustomerService(customerRepo, nil, nil)
	invoiceService := tradeapp.NewInvoiceService(invoiceRepo, customerRepo, itemRepo, adjustmentRepo, database, nil, nil)
	paymentService := financeapp.NewPaymentService(paymentRepo, invoiceRepo, customerRepo, vendorRepo, database, idempotency, nil, nil)

	h := Handlers{
		Auth:         handler.NewAuthHandler(identityapp.NewAuthService(userRepo, tokens, nil), userService),
		User:         handler.NewUserHandler(userService),
		BusinessLine: handler.NewBusinessLineHandler(blapp.NewBusinessLineService(lineRepo, database, nil, nil)),
		Customer:     handler.NewCustomerHandler(customerService, invoiceService, paymentService),
		Vendor:       handler.NewVendorHandler(partnerapp.NewVendorService(vendorRepo, nil, nil)),
		Stock:        handler.NewStockHandler(inventoryapp.NewStockService(itemRepo, adjustmentRepo, database, nil, nil)),
		Intake:       handler.NewIntakeHandler(tradeapp.NewIntakeService(intakeRepo, vendorRepo, itemRepo, adjustmentRepo, database, nil, nil)),
		SalesInvoice: handler.NewSalesInvoiceHandler(invoiceService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Report:       handler.NewReportHandler(reportapp.NewReportService(reportRepo, cache.NewInMemoryReportCache(), time.Minute, nil)),
		System:       handler.NewSystemHandler("backoffice", "test", database, nil),
	}

	engine, err := NewEngine(EngineConfig{
		ServiceName:   "backoffice",
		HTTP:          config.HTTPConfig{MaxBodySize: 1 << 20},
		Security:      middleware.DefaultSecurityConfig(),
		Tokens:        tokens,
		BusinessLines: lineRepo,
	}, h)
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	return &testAPI{t: t, engine: engine, users: userService}
}

func (a *testAPI) createUser(username, role string, lines ...uuid.UUID) {
	a.t.Helper()
	_, err := a.users.Create(context.Background(), identityapp.CreateUserRequest{
		Username:        username,
		Password:        "secret-passw0rd",
		Role:            role,
		BusinessLineIDs: lines,
	})
	require.NoError(a.t, err)
}

func (a *testAPI) login(username string) string {
	a.t.Helper()
	w, resp := a.do(http.MethodPost, "/api/v1/auth/login", "", uuid.Nil, map[string]string{
		"username": username,
		"password": "secret-passw0rd",
	}, nil)
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var login identityapp.LoginResponse
	require.NoError(a.t, json.Unmarshal(resp.Data, &login))
	require.NotEmpty(a.t, login.AccessToken)
	return login.AccessToken
}

func (a *testAPI) do(method, path, token string, lineID uuid.UUID, body any, header http.Header) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if lineID != uuid.Nil {
		req.Header.Set(middleware.BusinessLineHeader, lineID.String())
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var resp envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func (a *testAPI) createLine(token, code string) uuid.UUID {
	a.t.Helper()
	w, resp := a.do(http.MethodPost, "/api/v1/business-lines", token, uuid.Nil, map[string]string{
		"code": code,
		"name": code + " division",
	}, nil)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var line blapp.BusinessLineResponse
	require.NoError(a.t, json.Unmarshal(resp.Data, &line))
	return line.ID
}

func TestAPI_Health(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		w, resp := api.do(http.MethodGet, path, "", uuid.Nil, nil, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	}
}

func TestAPI_Authentication(t *testing.T) {
	api := newTestAPI(t)
	api.createUser("admin", "ADMIN")

	t.Run("protected route without token", func(t *testing.T) {
		w, resp := api.do(http.MethodGet, "/api/v1/business-lines", "", uuid.Nil, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ERR_UNAUTHORIZED", resp.Error.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w, resp := api.do(http.MethodPost, "/api/v1/auth/login", "", uuid.Nil, map[string]string{
			"username": "admin",
			"password": "not-the-password",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ERR_INVALID_CREDENTIALS", resp.Error.Code)
	})

	t.Run("me and navigation", func(t *testing.T) {
		token := api.login("admin")

		w, resp := api.do(http.MethodGet, "/api/v1/users/me", token, uuid.Nil, nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var me identityapp.UserResponse
		require.NoError(t, json.Unmarshal(resp.Data, &me))
		assert.Equal(t, "admin", me.Username)
		assert.Equal(t, "ADMIN", me.Role)

		w, _ = api.do(http.MethodGet, "/api/v1/users/me/navigation", token, uuid.Nil, nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAPI_BusinessLineScope(t *testing.T) {
	api := newTestAPI(t)
	api.createUser("admin", "ADMIN")
	admin := api.login("admin")

	north := api.createLine(admin, "NORTH")
	south := api.createLine(admin, "SOUTH")
	api.createUser("seller", "SALES", north)
	seller := api.login("seller")

	customer := map[string]any{"code": "C-001", "name": "Acme", "credit_limit": "500"}

	t.Run("header required", func(t *testing.T) {
		w, resp := api.do(http.MethodGet, "/api/v1/customers", admin, uuid.Nil, nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ERR_BUSINESS_LINE_REQUIRED", resp.Error.Code)
	})

	t.Run("member of the line may write", func(t *testing.T) {
		w, _ := api.do(http.MethodPost, "/api/v1/customers", seller, north, customer, nil)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("line outside the assignment", func(t *testing.T) {
		w, resp := api.do(http.MethodGet, "/api/v1/customers", seller, south, nil, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ERR_FORBIDDEN", resp.Error.Code)
	})

	t.Run("data is partitioned by line", func(t *testing.T) {
		w, resp := api.do(http.MethodGet, "/api/v1/customers", admin, south, nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, resp.Meta)
		assert.Zero(t, resp.Meta.Total)

		w, resp = api.do(http.MethodGet, "/api/v1/customers", admin, north, nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(1), resp.Meta.Total)
	})

	t.Run("role without delete permission", func(t *testing.T) {
		w, resp := api.do(http.MethodDelete, "/api/v1/customers/"+uuid.NewString(), seller, north, nil, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ERR_FORBIDDEN", resp.Error.Code)
	})

	t.Run("sales role cannot administer lines", func(t *testing.T) {
		w, _ := api.do(http.MethodPost, "/api/v1/business-lines", seller, uuid.Nil, map[string]string{
			"code": "EAST", "name": "East",
		}, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("inactive line refuses writes", func(t *testing.T) {
		w, _ := api.do(http.MethodPost, "/api/v1/business-lines/"+south.String()+"/deactivate", admin, uuid.Nil, nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w, resp := api.do(http.MethodPost, "/api/v1/customers", admin, south, customer, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ERR_BUSINESS_LINE_INACTIVE", resp.Error.Code)

		w, _ = api.do(http.MethodGet, "/api/v1/customers", admin, south, nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAPI_PaymentIdempotency(t *testing.T) {
	api := newTestAPI(t)
	api.createUser("admin", "ADMIN")
	admin := api.login("admin")
	line := api.createLine(admin, "RETAIL")

	w, resp := api.do(http.MethodPost, "/api/v1/customers", admin, line, map[string]any{
		"code": "C-100", "name": "Globex", "credit_limit": "1000",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var customer partnerapp.CustomerResponse
	require.NoError(t, json.Unmarshal(resp.Data, &customer))

	payment := map[string]any{
		"direction": "INCOMING",
		"party_id":  customer.ID,
		"method":    "CASH",
		"amount":    "250.00",
	}
	key := http.Header{handler.IdempotencyKeyHeader: []string{"pay-0001"}}

	w, resp = api.do(http.MethodPost, "/api/v1/payments", admin, line, payment, key)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Empty(t, w.Header().Get(handler.IdempotentReplayedHeader))
	var first financeapp.PaymentResponse
	require.NoError(t, json.Unmarshal(resp.Data, &first))

	w, resp = api.do(http.MethodPost, "/api/v1/payments", admin, line, payment, key)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "true", w.Header().Get(handler.IdempotentReplayedHeader))
	var replay financeapp.PaymentResponse
	require.NoError(t, json.Unmarshal(resp.Data, &replay))
	assert.Equal(t, first.ID, replay.ID)

	w, resp = api.do(http.MethodGet, "/api/v1/customers/"+customer.ID.String()+"/payments", admin, line, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestAPI_ValidationEnvelope(t *testing.T) {
	api := newTestAPI(t)
	api.createUser("admin", "ADMIN")
	admin := api.login("admin")

	w, resp := api.do(http.MethodPost, "/api/v1/business-lines", admin, uuid.Nil, map[string]string{
		"code": "not a code!",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Details)
}
