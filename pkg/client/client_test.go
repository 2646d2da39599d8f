package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/ExpenseTracker/internal/logger"
	"github.com/sebuszqo/ExpenseTracker/internal/server"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAPI(t *testing.T, jwtManager *auth.JWTManager) *httptest.Server {
	t.Helper()
	store := infrastructure.NewMemoryStore()
	api := server.New(server.Deps{
		Users:          user.NewMemoryRepository(),
		Categories:     store,
		Expenses:       store,
		PasswordHasher: user.NewBcryptHasher(bcrypt.MinCost),
		JWTManager:     jwtManager,
		Logger:         logger.Discard(),
	})
	ts := httptest.NewServer(api.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestClientEndToEnd(t *testing.T) {
	ctx := context.Background()
	ts := newAPI(t, auth.NewJWTManager("client-test", time.Hour))
	c := New(ts.URL, WithHTTPClient(ts.Client()))

	_, err := c.ListCategories(ctx)
	require.ErrorIs(t, err, ErrNoSession)

	session, err := c.Register(ctx, "Alex", "Alex@Example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", session.User.Email)
	assert.NotEmpty(t, session.Token)

	food, err := c.CreateCategory(ctx, "Food")
	require.NoError(t, err)
	travel, err := c.CreateCategory(ctx, "Travel")
	require.NoError(t, err)

	_, err = c.CreateCategory(ctx, "Food")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)

	lunch, err := c.CreateExpense(ctx, NewExpense{
		Amount:     decimal.RequireFromString("12.5"),
		CategoryID: food.ID,
		Date:       date("2024-03-10"),
		Note:       "lunch",
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.50").Equal(lunch.Amount))
	assert.Equal(t, "USD", lunch.Currency)
	require.NotNil(t, lunch.Category)
	assert.Equal(t, "Food", lunch.Category.Name)

	_, err = c.CreateExpense(ctx, NewExpense{
		Amount:     decimal.RequireFromString("300"),
		CategoryID: travel.ID,
		Date:       date("2024-04-01"),
		Currency:   "eur",
	})
	require.NoError(t, err)

	page, err := c.ListExpenses(ctx, ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Expenses, 1)
	assert.Equal(t, "EUR", page.Expenses[0].Currency)
	assert.Equal(t, Pagination{Total: 2, Page: 1, Limit: 1, TotalPages: 2}, page.Pagination)

	from, to := date("2024-03-01"), date("2024-03-31")
	page, err = c.ListExpenses(ctx, ListOptions{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, page.Expenses, 1)
	assert.Equal(t, lunch.ID, page.Expenses[0].ID)

	page, err = c.ListExpenses(ctx, ListOptions{CategoryID: travel.ID})
	require.NoError(t, err)
	assert.Len(t, page.Expenses, 1)

	amount := decimal.RequireFromString("15")
	updated, err := c.UpdateExpense(ctx, lunch.ID, ExpensePatch{Amount: &amount, CategoryID: &travel.ID, ClearNote: true})
	require.NoError(t, err)
	assert.True(t, amount.Equal(updated.Amount))
	assert.Nil(t, updated.Note)
	assert.Equal(t, travel.ID, updated.CategoryID)

	err = c.DeleteCategory(ctx, travel.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	require.NoError(t, c.DeleteCategory(ctx, food.ID))

	require.NoError(t, c.DeleteExpense(ctx, lunch.ID))
	_, err = c.GetExpense(ctx, lunch.ID)
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Logout())
	assert.Nil(t, c.Session())

	_, err = c.Login(ctx, "alex@example.com", "password123")
	require.NoError(t, err)
	categories, err := c.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Travel", categories[0].Name)
}

func TestClientIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	ts := newAPI(t, auth.NewJWTManager("client-test", time.Hour))

	owner := New(ts.URL, WithHTTPClient(ts.Client()))
	_, err := owner.Register(ctx, "Owner", "owner@example.com", "password123")
	require.NoError(t, err)
	category, err := owner.CreateCategory(ctx, "Food")
	require.NoError(t, err)
	expense, err := owner.CreateExpense(ctx, NewExpense{Amount: decimal.NewFromInt(5), CategoryID: category.ID, Date: date("2024-01-01")})
	require.NoError(t, err)

	other := New(ts.URL, WithHTTPClient(ts.Client()))
	_, err = other.Register(ctx, "Other", "other@example.com", "password123")
	require.NoError(t, err)

	_, err = other.GetExpense(ctx, expense.ID)
	assert.True(t, IsNotFound(err))

	err = other.DeleteExpense(ctx, expense.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	_, err = other.CreateExpense(ctx, NewExpense{Amount: decimal.NewFromInt(5), CategoryID: category.ID, Date: date("2024-01-01")})
	assert.True(t, IsNotFound(err))

	page, err := other.ListExpenses(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, page.Expenses)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	ts := newAPI(t, auth.NewJWTManager("client-test", time.Hour))
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "session.json"))

	first := New(ts.URL, WithHTTPClient(ts.Client()), WithTokenStore(store))
	_, err := first.Register(ctx, "Robin", "robin@example.com", "password123")
	require.NoError(t, err)

	second := New(ts.URL, WithHTTPClient(ts.Client()), WithTokenStore(store))
	session, err := second.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, "robin@example.com", session.User.Email)
}

func TestRestoreClearsRejectedToken(t *testing.T) {
	ctx := context.Background()
	ts := newAPI(t, auth.NewJWTManager("client-test", time.Hour))
	store := NewMemoryTokenStore()
	require.NoError(t, store.Save(&Session{Token: "stale", User: User{ID: "x"}}))

	c := New(ts.URL, WithHTTPClient(ts.Client()), WithTokenStore(store))
	_, err := c.Restore(ctx)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Nil(t, c.Session())

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRestoreWithoutStoredSession(t *testing.T) {
	c := New("http://127.0.0.1:0")
	_, err := c.Restore(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFileTokenStore(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "nested", "session.json"))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	session := &Session{Token: "abc", User: User{ID: "1", Email: "a@b.co", Name: "A"}}
	require.NoError(t, store.Save(session))

	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, session, loaded)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestListOptionsQuery(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	q := ListOptions{Page: 2, Limit: 10, From: &from, CategoryID: "c1"}.query()

	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "2024-05-01T00:00:00Z", q.Get("from"))
	assert.Empty(t, q.Get("to"))
	assert.Equal(t, "c1", q.Get("categoryId"))

	assert.Empty(t, ListOptions{}.query())
}

func TestExpensePatchBody(t *testing.T) {
	note := "dinner"
	body := ExpensePatch{Note: &note}.body()
	assert.Equal(t, map[string]interface{}{"note": "dinner"}, body)

	body = ExpensePatch{Note: &note, ClearNote: true}.body()
	v, ok := body["note"]
	assert.True(t, ok)
	assert.Nil(t, v)
}
