package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"example.com/orderflow/internal/models"
	"example.com/orderflow/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) List(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Order), args.Error(1)
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, exchange, routingKey string, body []byte, headers map[string]interface{}) error {
	return nil
}

func setupRouter(repo *mockOrderRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewOrdersHandler(services.NewOrderService(repo, noopPublisher{}), nil)
	handler.RegisterRoutes(router)
	return router
}

func TestCreateOrderHandler(t *testing.T) {
	repo := new(mockOrderRepo)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Order).ID = 1
		}).
		Return(nil)

	router := setupRouter(repo)

	body := `{"customer_email":"a@b.com","product":"Widget","amount":9.99}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, uint(1), created.ID)
	require.Equal(t, models.OrderStatusPending, created.Status)
}

func TestCreateOrderHandlerRejectsInvalidBody(t *testing.T) {
	repo := new(mockOrderRepo)
	router := setupRouter(repo)

	for _, body := range []string{
		`{}`,
		`{"customer_email":"not-an-email","product":"Widget","amount":9.99}`,
		`{"customer_email":"a@b.com","product":"Widget","amount":-1}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	}
}

func TestGetOrderHandlerInvalidID(t *testing.T) {
	router := setupRouter(new(mockOrderRepo))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
