package repository

import (
	"context"
	"fmt"
	"time"

	"billboard-report/internal/data/entity"
	"billboard-report/pkg/database"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type supportDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Message   string    `bson:"message"`
	CreatedAt time.Time `bson:"created_at"`
}

type mongoSupportRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

func NewMongoSupportRepository(db *mongo.Database, log *zap.Logger) SupportRepository {
	return &mongoSupportRepository{
		coll: db.Collection(database.SupportRequestsCollection),
		log:  log.With(zap.String("repository", "support"), zap.String("store", "mongo")),
	}
}

func (r *mongoSupportRepository) Create(ctx context.Context, req *entity.SupportRequest) error {
	doc := supportDocument{
		ID:        req.ID.String(),
		UserID:    req.UserID.String(),
		Message:   req.Message,
		CreatedAt: req.CreatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		r.log.Error("Failed to create support request",
			zap.Error(err),
			zap.String("user_id", req.UserID.String()),
		)
		return fmt.Errorf("create support request: %w", err)
	}
	return nil
}

func (r *mongoSupportRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.SupportRequest, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.log.Error("Failed to get support requests", zap.Error(err))
		return nil, fmt.Errorf("find support requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := make([]*entity.SupportRequest, 0)
	for cursor.Next(ctx) {
		var doc supportDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode support request: %w", err)
		}
		id, _ := uuid.Parse(doc.ID)
		userID, _ := uuid.Parse(doc.UserID)
		requests = append(requests, &entity.SupportRequest{
			BaseSimple: entity.BaseSimple{ID: id, CreatedAt: doc.CreatedAt},
			UserID:     userID,
			Message:    doc.Message,
		})
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate support requests: %w", err)
	}

	return requests, nil
}

func (r *mongoSupportRepository) CountAll(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.log.Error("Database error counting support requests", zap.Error(err))
		return 0, fmt.Errorf("count support requests: %w", err)
	}
	return count, nil
}
