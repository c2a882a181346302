package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/userconsole/internal/client/api"
	"github.com/dmitrijs2005/userconsole/internal/client/models"
	"github.com/dmitrijs2005/userconsole/internal/client/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

var _ api.Client = (*mockClient)(nil)

func (m *mockClient) Login(ctx context.Context, c models.Credentials) (string, error) {
	args := m.Called(ctx, c)
	return args.String(0), args.Error(1)
}

func (m *mockClient) ListUsers(ctx context.Context, page int) (*models.UserPage, error) {
	args := m.Called(ctx, page)
	p, _ := args.Get(0).(*models.UserPage)
	return p, args.Error(1)
}

func (m *mockClient) GetUser(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockClient) UpdateUser(ctx context.Context, id int, upd models.UserUpdate) (*models.UpdateAck, error) {
	args := m.Called(ctx, id, upd)
	a, _ := args.Get(0).(*models.UpdateAck)
	return a, args.Error(1)
}

func (m *mockClient) DeleteUser(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type gateFunc func() bool

func (g gateFunc) IsAuthenticated() bool { return g() }

var signedIn = gateFunc(func() bool { return true })

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func users(ids ...int) []models.User {
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.User{ID: id, Email: "u@reqres.in", FirstName: "First", LastName: "Last"})
	}
	return out
}

func page(n, total int, items []models.User) *models.UserPage {
	return &models.UserPage{Page: n, PerPage: 6, Total: total * 6, TotalPages: total, Items: items}
}
