package repository

import (
	"context"
	"errors"
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

// reportDocument is the stored shape of a report. Identifiers are kept as
// strings so documents stay readable from the mongo shell.
type reportDocument struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Flag        string    `bson:"flag"`
	ImageKeys   []string  `bson:"image_keys,omitempty"`
	Latitude    float64   `bson:"latitude"`
	Longitude   float64   `bson:"longitude"`
	Status      string    `bson:"status,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func newReportDocument(report *entity.Report) reportDocument {
	return reportDocument{
		ID:          report.ID.String(),
		UserID:      report.UserID.String(),
		Title:       report.Title,
		Description: report.Description,
		Flag:        string(report.Flag),
		ImageKeys:   report.ImageKeys,
		Latitude:    report.Latitude,
		Longitude:   report.Longitude,
		Status:      string(report.Status),
		CreatedAt:   report.CreatedAt,
		UpdatedAt:   report.UpdatedAt,
	}
}

// Malformed ids decode to uuid.Nil rather than failing the whole listing.
func (d reportDocument) toEntity() *entity.Report {
	id, _ := uuid.Parse(d.ID)
	userID, _ := uuid.Parse(d.UserID)

	report := &entity.Report{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        id,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
		UserID:      userID,
		Title:       d.Title,
		Description: d.Description,
		Flag:        entity.Flag(d.Flag),
		ImageKeys:   d.ImageKeys,
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
		Status:      entity.ReportStatus(d.Status),
	}
	report.Normalize()
	return report
}

type mongoReportRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

func NewMongoReportRepository(db *mongo.Database, log *zap.Logger) ReportRepository {
	return &mongoReportRepository{
		coll: db.Collection(database.ReportsCollection),
		log:  log.With(zap.String("repository", "report"), zap.String("store", "mongo")),
	}
}

func (r *mongoReportRepository) Create(ctx context.Context, report *entity.Report) error {
	if _, err := r.coll.InsertOne(ctx, newReportDocument(report)); err != nil {
		r.log.Error("Failed to create report",
			zap.Error(err),
			zap.String("user_id", report.UserID.String()),
		)
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (r *mongoReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Report, error) {
	var doc reportDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find report by ID", zap.Error(err), zap.String("report_id", id.String()))
		return nil, fmt.Errorf("find report %s: %w", id.String(), err)
	}
	return doc.toEntity(), nil
}

func (r *mongoReportRepository) FindAll(ctx context.Context) ([]*entity.Report, error) {
	return r.find(ctx, "all", bson.M{})
}

func (r *mongoReportRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Report, error) {
	return r.find(ctx, "by_user", bson.M{"user_id": userID.String()})
}

// Documents written before moderation existed have no status and count as pending.
func (r *mongoReportRepository) FindByStatus(ctx context.Context, status entity.ReportStatus) ([]*entity.Report, error) {
	filter := bson.M{"status": string(status)}
	if status == entity.StatusPending {
		filter = bson.M{"$or": []bson.M{
			{"status": string(status)},
			{"status": bson.M{"$exists": false}},
			{"status": ""},
		}}
	}
	return r.find(ctx, "by_status", filter)
}

func (r *mongoReportRepository) find(ctx context.Context, op string, filter bson.M) ([]*entity.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		r.log.Error("Failed to query reports", zap.Error(err), zap.String("op", op))
		return nil, fmt.Errorf("query reports %s: %w", op, err)
	}
	defer cursor.Close(ctx)

	reports := make([]*entity.Report, 0)
	for cursor.Next(ctx) {
		var doc reportDocument
		if err := cursor.Decode(&doc); err != nil {
			r.log.Error("Failed to decode report document", zap.Error(err))
			return nil, fmt.Errorf("decode report document: %w", err)
		}
		reports = append(reports, doc.toEntity())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate report documents: %w", err)
	}

	return reports, nil
}

func (r *mongoReportRepository) UpdateContent(ctx context.Context, id uuid.UUID, description string, flag entity.Flag, updatedAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"description": description,
		"flag":        string(flag),
		"updated_at":  updatedAt,
	}}
	return r.updateOne(ctx, id, update)
}

func (r *mongoReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReportStatus, updatedAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": updatedAt,
	}}
	return r.updateOne(ctx, id, update)
}

func (r *mongoReportRepository) updateOne(ctx context.Context, id uuid.UUID, update bson.M) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id.String()}, update)
	if err != nil {
		r.log.Error("Failed to update report", zap.Error(err), zap.String("report_id", id.String()))
		return fmt.Errorf("update report %s: %w", id.String(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("update report %s: %w", id.String(), ErrNotFound)
	}
	return nil
}

func (r *mongoReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		r.log.Error("Failed to delete report", zap.Error(err), zap.String("report_id", id.String()))
		return fmt.Errorf("delete report %s: %w", id.String(), err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("delete report %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Report deleted", zap.String("report_id", id.String()))
	return nil
}

func (r *mongoReportRepository) CountAll(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.log.Error("Database error counting reports", zap.Error(err))
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return count, nil
}
