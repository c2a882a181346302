package api

import (
	"context"

	"github.com/dmitrijs2005/userconsole/internal/client/models"
)

type Client interface {
	Login(ctx context.Context, creds models.Credentials) (string, error)
	ListUsers(ctx context.Context, page int) (*models.UserPage, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	UpdateUser(ctx context.Context, id int, upd models.UserUpdate) (*models.UpdateAck, error)
	DeleteUser(ctx context.Context, id int) error
}

// TokenSource supplies the opaque token replayed on every request. An empty
// token means no Authorization header is sent.
type TokenSource interface {
	Token() string
}
