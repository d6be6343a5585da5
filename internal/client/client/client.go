package client

import (
	"context"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
)

// Client is the transport contract towards the account service.
type Client interface {
	Register(ctx context.Context, email, password, fullName string) error
	Login(ctx context.Context, email, password string) (*models.User, error)
	UploadAvatar(ctx context.Context, userID int64, image []byte) (*models.User, error)
	Ping(ctx context.Context) error
	Close() error
}
