package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	repo "storefront/internal/repository"
	"storefront/internal/session"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FindByIDだけ使う商品repo
type stubProducts struct {
	repo.ProductRepository
	items map[int64]model.Product
}

func (s stubProducts) FindByID(_ context.Context, id int64) (model.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

// テスト用のechoを組み立てる。sessはそのまま全リクエストに入る
func newTestEcho(sess *session.Session) *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.CtxSessionKey, sess)
			return next(c)
		}
	})
	return e
}

func postForm(e *echo.Echo, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newCartHandler() *CartHandler {
	return NewCartHandler(usecase.NewCartUsecase(stubProducts{items: map[int64]model.Product{
		10: {ID: 10, Name: "Tea", Stock: 3},
		11: {ID: 11, Name: "Mug", Stock: 0},
	}}))
}

func TestCartHandler_Add(t *testing.T) {
	sess := session.New()
	e := newTestEcho(sess)
	newCartHandler().RegisterRoutes(e)

	rec := postForm(e, "/cart/add", url.Values{"productId": {"10"}, "quantity": {"5"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, []session.CartLine{{ProductID: 10, Quantity: 3}}, sess.Cart())
}

func TestCartHandler_Add_RejectedLeavesCart(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{"out of stock", url.Values{"productId": {"11"}, "quantity": {"1"}}},
		{"unknown product", url.Values{"productId": {"99"}, "quantity": {"1"}}},
		{"missing product id", url.Values{"quantity": {"1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := session.New()
			e := newTestEcho(sess)
			newCartHandler().RegisterRoutes(e)

			rec := postForm(e, "/cart/add", tt.form)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
			assert.Empty(t, sess.Cart())
			assert.False(t, sess.Dirty())
		})
	}
}

func TestCartHandler_UpdateAndRemove(t *testing.T) {
	sess := session.New()
	sess.SetCart([]session.CartLine{{ProductID: 10, Quantity: 1}, {ProductID: 12, Quantity: 2}})
	e := newTestEcho(sess)
	newCartHandler().RegisterRoutes(e)

	rec := postForm(e, "/cart/update", url.Values{"productId": {"10"}, "quantity": {"2"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, int64(2), sess.Cart()[0].Quantity)

	rec = postForm(e, "/cart/remove", url.Values{"productId": {"12"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, []session.CartLine{{ProductID: 10, Quantity: 2}}, sess.Cart())
}

func newOrderHandler() *OrderHandler {
	products := stubProducts{items: map[int64]model.Product{}}
	cart := usecase.NewCartUsecase(products)
	return NewOrderHandler(
		usecase.NewCheckoutUsecase(nil, nil, cart, nil),
		usecase.NewOrderUsecase(nil, nil),
	)
}

func TestOrderHandler_PlaceOrder_RequiresLogin(t *testing.T) {
	e := newTestEcho(session.New())
	newOrderHandler().RegisterRoutes(e)

	rec := postForm(e, "/orders/checkout", url.Values{})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get(echo.HeaderLocation))
}

func TestOrderHandler_PlaceOrder_EmptyCartGoesBackToCart(t *testing.T) {
	sess := session.New()
	sess.LoginCustomer(4, "Bob")
	e := newTestEcho(sess)
	newOrderHandler().RegisterRoutes(e)

	rec := postForm(e, "/orders/checkout", url.Values{"address": {"1 Main St"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get(echo.HeaderLocation))
}

func TestOrderHandler_Confirmation_InvalidID(t *testing.T) {
	e := newTestEcho(session.New())
	newOrderHandler().RegisterRoutes(e)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/confirmation/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"order not found"}`, rec.Body.String())
}

func TestFormError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantLoc  string
	}{
		{"validation", usecase.NewHTTPError(http.StatusBadRequest, "name required"), http.StatusFound, "/back?error=name+required"},
		{"conflict", usecase.NewHTTPError(http.StatusConflict, "role already exists"), http.StatusFound, "/back?error=role+already+exists"},
		{"unauthenticated", usecase.NewHTTPError(http.StatusUnauthorized, "unauthenticated"), http.StatusFound, "/auth/login"},
		{"forbidden", usecase.NewHTTPError(http.StatusForbidden, "forbidden"), http.StatusForbidden, ""},
		{"internal", usecase.NewHTTPError(http.StatusInternalServerError, "db error"), http.StatusInternalServerError, ""},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

			require.NoError(t, formError(c, tt.err, "/back"))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLoc, rec.Header().Get(echo.HeaderLocation))
		})
	}
}
