package repomanager

import (
	"context"
	"database/sql"

	"github.com/uscre/auth-service/internal/dbx"
	"github.com/uscre/auth-service/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
