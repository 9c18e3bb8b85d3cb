package repository

import (
	"errors"

	"billboard-report/pkg/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrNotFound is wrapped by update/delete methods that matched no row.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Report  ReportRepository
	Support SupportRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Report:  NewReportRepository(db, log),
		Support: NewSupportRepository(db, log),
	}
}

// UseDocumentStore moves reports and support requests to MongoDB. Accounts and
// sessions stay in PostgreSQL.
func (r *Repository) UseDocumentStore(db *mongo.Database, log *zap.Logger) {
	r.Report = NewMongoReportRepository(db, log)
	r.Support = NewMongoSupportRepository(db, log)
}
