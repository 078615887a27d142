package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/k-krishaa/Books/internal/auth"
	"github.com/k-krishaa/Books/internal/handlers"
	"github.com/k-krishaa/Books/internal/middleware"
	"github.com/k-krishaa/Books/internal/models"
	"github.com/k-krishaa/Books/internal/repository"
	"github.com/k-krishaa/Books/internal/routes"
	"github.com/k-krishaa/Books/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	userCols    = []string{"id", "username", "email", "password_hash", "is_admin", "created_at"}
	productCols = []string{"id", "title", "author", "description", "price", "stock", "category_id", "image_url", "created_at", "updated_at", "category_name"}
)

type testApp struct {
	router *gin.Engine
	mock   sqlmock.Sqlmock
	tokens *auth.TokenIssuer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	catalogRepo := repository.NewCatalogRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	h := &handlers.Handlers{
		Catalog:   services.NewCatalogService(catalogRepo),
		Auth:      services.NewAuthService(repository.NewUserRepository(db), repository.NewSessionRepository(db), tokens, nil),
		Cart:      services.NewCartService(cartRepo, catalogRepo),
		Wishlist:  services.NewWishlistService(repository.NewWishlistRepository(db), catalogRepo),
		Checkout:  services.NewCheckoutService(db, cartRepo, catalogRepo, orderRepo),
		Orders:    services.NewOrderService(orderRepo),
		Admin:     services.NewAdminService(catalogRepo, orderRepo),
		UploadDir: t.TempDir(),
		FlashKey:  []byte("test-flash-key"),
	}

	router := gin.New()
	require.NoError(t, routes.Register(router, h))
	return &testApp{router: router, mock: mock, tokens: tokens}
}

// sessionFor returns a cookie for u and expects the per-request session lookup.
func (a *testApp) sessionFor(t *testing.T, u models.User) *http.Cookie {
	t.Helper()
	token, err := a.tokens.GenerateToken("sess-1", u.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	a.mock.ExpectQuery("FROM sessions s").
		WithArgs("sess-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(u.ID, u.Username, u.Email, "x", u.IsAdmin, time.Now()))
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

func (a *testApp) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func clearsCookie(w *httptest.ResponseRecorder, name string) bool {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name && ck.MaxAge < 0 {
			return true
		}
	}
	return false
}

func hasCookie(w *httptest.ResponseRecorder, name string) bool {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name && ck.Value != "" {
			return true
		}
	}
	return false
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	w := app.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestAnonymousCartRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	w := app.do(httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestSessionLookupFailureIs500(t *testing.T) {
	app := newTestApp(t)
	token, err := app.tokens.GenerateToken("sess-1", 1, time.Now().Add(time.Hour))
	require.NoError(t, err)
	app.mock.ExpectQuery("FROM sessions s").
		WithArgs("sess-1", sqlmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	w := app.do(httptest.NewRequest(http.MethodGet, "/cart", nil), &http.Cookie{Name: middleware.SessionCookie, Value: token})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.False(t, clearsCookie(w, middleware.SessionCookie))
}

func adminRoutes() []struct {
	method, path string
	form         url.Values
} {
	product := url.Values{
		"title": {"Dune"}, "author": {"Frank Herbert"}, "price": {"12.99"},
		"stock": {"4"}, "category_id": {"1"},
	}
	return []struct {
		method, path string
		form         url.Values
	}{
		{http.MethodGet, "/admin", nil},
		{http.MethodGet, "/admin/products", nil},
		{http.MethodGet, "/admin/product/add", nil},
		{http.MethodPost, "/admin/product/add", product},
		{http.MethodGet, "/admin/product/edit/5", nil},
		{http.MethodPost, "/admin/product/edit/5", product},
		{http.MethodGet, "/admin/product/delete/5", nil},
	}
}

func adminRequest(method, path string, form url.Values) *http.Request {
	if method == http.MethodPost {
		return postForm(path, form)
	}
	return httptest.NewRequest(method, path, nil)
}

// Only the session lookup is expected; sqlmock fails on any other query.
func TestNonAdminIsTurnedAwayFromAdminRoutes(t *testing.T) {
	for _, rt := range adminRoutes() {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			app := newTestApp(t)
			ck := app.sessionFor(t, models.User{ID: 1, Username: "alice"})

			w := app.do(adminRequest(rt.method, rt.path, rt.form), ck)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/", w.Header().Get("Location"))
			assert.True(t, hasCookie(w, middleware.FlashCookie))
		})
	}
}

func TestAnonymousIsSentToLoginFromAdminRoutes(t *testing.T) {
	for _, rt := range adminRoutes() {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			app := newTestApp(t)

			w := app.do(adminRequest(rt.method, rt.path, rt.form))
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/login", w.Header().Get("Location"))
		})
	}
}

func TestAdminDeletesProduct(t *testing.T) {
	app := newTestApp(t)
	ck := app.sessionFor(t, models.User{ID: 2, Username: "root", IsAdmin: true})
	app.mock.ExpectExec("DELETE FROM products WHERE id").WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 1))

	w := app.do(httptest.NewRequest(http.MethodGet, "/admin/product/delete/5", nil), ck)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/products", w.Header().Get("Location"))
}

func TestRegisterDuplicateSetsNoSession(t *testing.T) {
	app := newTestApp(t)
	app.mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users").WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	w := app.do(postForm("/register", url.Values{
		"username": {"alice"}, "email": {"alice2@example.com"}, "password": {"secret1"},
	}))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/register", w.Header().Get("Location"))
	assert.False(t, hasCookie(w, middleware.SessionCookie))
}

func TestRegisterSuccessRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	app.mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users").WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	app.mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(4, 1))

	w := app.do(postForm("/register", url.Values{
		"username": {"bob"}, "email": {"bob@example.com"}, "password": {"secret1"},
	}))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.False(t, hasCookie(w, middleware.SessionCookie))
}

func TestLoginBadPassword(t *testing.T) {
	app := newTestApp(t)
	app.mock.ExpectQuery("FROM users WHERE username").WithArgs("alice").WillReturnRows(sqlmock.NewRows(userCols))

	w := app.do(postForm("/login", url.Values{"username": {"alice"}, "password": {"nope"}}))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.False(t, hasCookie(w, middleware.SessionCookie))
}

func TestMissingProductIs404(t *testing.T) {
	app := newTestApp(t)
	app.mock.ExpectQuery("WHERE p.id = ?").WithArgs(999).WillReturnRows(sqlmock.NewRows(productCols))

	w := app.do(httptest.NewRequest(http.MethodGet, "/product/999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "404")
}

func TestNonNumericProductIs404(t *testing.T) {
	app := newTestApp(t)
	w := app.do(httptest.NewRequest(http.MethodGet, "/product/abc", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidCategoryListsNothing(t *testing.T) {
	app := newTestApp(t)
	app.mock.ExpectQuery("FROM categories ORDER BY name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at"}).AddRow(1, "Fiction", "fiction", time.Now()))

	w := app.do(httptest.NewRequest(http.MethodGet, "/products?category=abc", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No books match")
}

func TestCheckoutEmptyCartRedirects(t *testing.T) {
	app := newTestApp(t)
	ck := app.sessionFor(t, models.User{ID: 1, Username: "alice", Email: "a@example.com"})
	app.mock.ExpectBegin()
	app.mock.ExpectQuery("FROM cart_items ci").WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "title", "author", "image_url", "price", "stock", "quantity"}))
	app.mock.ExpectRollback()

	w := app.do(postForm("/checkout", url.Values{}), ck)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/products", w.Header().Get("Location"))
}

func TestAddToCartRejectsZeroQuantity(t *testing.T) {
	app := newTestApp(t)
	ck := app.sessionFor(t, models.User{ID: 1, Username: "alice"})

	w := app.do(postForm("/add_to_cart/10", url.Values{"quantity": {"0"}}), ck)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/product/10", w.Header().Get("Location"))
}

func TestRemoveOtherUsersCartItemIs404(t *testing.T) {
	app := newTestApp(t)
	ck := app.sessionFor(t, models.User{ID: 2, Username: "bob"})
	app.mock.ExpectQuery("FROM cart_items").WithArgs(7, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "product_id", "quantity", "created_at", "updated_at"}))

	w := app.do(httptest.NewRequest(http.MethodGet, "/remove_from_cart/7", nil), ck)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterMalformedBody(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")

	w := app.do(req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/register", w.Header().Get("Location"))
	assert.False(t, hasCookie(w, middleware.SessionCookie))
}

func TestUpdateCartWithoutQuantityKeepsLine(t *testing.T) {
	app := newTestApp(t)
	ck := app.sessionFor(t, models.User{ID: 1, Username: "alice"})

	// No cart query is expected.
	w := app.do(postForm("/update_cart/7", url.Values{}), ck)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/cart", w.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	ck := app.sessionFor(t, models.User{ID: 1, Username: "alice"})
	app.mock.ExpectExec("DELETE FROM sessions WHERE id").WithArgs("sess-1").WillReturnResult(sqlmock.NewResult(0, 1))

	w := app.do(httptest.NewRequest(http.MethodGet, "/logout", nil), ck)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.True(t, clearsCookie(w, middleware.SessionCookie))
}

func TestLogoutFailureKeepsCookie(t *testing.T) {
	app := newTestApp(t)
	ck := app.sessionFor(t, models.User{ID: 1, Username: "alice"})
	app.mock.ExpectExec("DELETE FROM sessions WHERE id").WithArgs("sess-1").
		WillReturnError(errors.New("connection refused"))

	w := app.do(httptest.NewRequest(http.MethodGet, "/logout", nil), ck)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, clearsCookie(w, middleware.SessionCookie))
}
