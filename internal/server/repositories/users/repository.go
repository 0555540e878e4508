package users

import (
	"context"

	"github.com/uscre/auth-service/internal/server/models"
)

// Repository is the persistence contract for user records. Implementations
// return common.ErrorNotFound for missing rows and common.ErrorAlreadyExists
// for uniqueness violations on create; email lookups are case-insensitive.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
}
