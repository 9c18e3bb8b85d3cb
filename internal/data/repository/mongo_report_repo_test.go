package repository

import (
	"context"
	"testing"
	"time"

	"billboard-report/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

const reportsNS = "test.reports"

func newMockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// startedCommand returns the first recorded command with the given name.
func startedCommand(mt *mtest.T, name string) *event.CommandStartedEvent {
	mt.Helper()
	for evt := mt.GetStartedEvent(); evt != nil; evt = mt.GetStartedEvent() {
		if evt.CommandName == name {
			return evt
		}
	}
	mt.Fatalf("no %s command was sent", name)
	return nil
}

func reportDoc(id, userID uuid.UUID, status string, createdAt time.Time) bson.D {
	doc := bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "user_id", Value: userID.String()},
		{Key: "title", Value: "Main St"},
		{Key: "description", Value: "Torn vinyl"},
		{Key: "flag", Value: "Red"},
		{Key: "image_keys", Value: bson.A{"billboards/1-abc.jpg"}},
		{Key: "latitude", Value: 40.7128},
		{Key: "longitude", Value: -74.006},
		{Key: "created_at", Value: createdAt},
		{Key: "updated_at", Value: createdAt},
	}
	if status != "" {
		doc = append(doc, bson.E{Key: "status", Value: status})
	}
	return doc
}

func TestMongoReportFindByStatusPendingMatchesLegacyDocuments(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("pending", func(mt *mtest.T) {
		repo := NewMongoReportRepository(mt.DB, zap.NewNop())
		legacyID, userID := uuid.New(), uuid.New()
		now := time.Now().UTC().Truncate(time.Millisecond)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, reportsNS, mtest.FirstBatch,
			reportDoc(legacyID, userID, "", now),
			reportDoc(uuid.New(), userID, "pending", now.Add(-time.Minute)),
		))

		reports, err := repo.FindByStatus(context.Background(), entity.StatusPending)
		require.NoError(mt, err)
		require.Len(mt, reports, 2)
		assert.Equal(mt, legacyID, reports[0].ID)
		assert.Equal(mt, entity.StatusPending, reports[0].Status)
		assert.Equal(mt, entity.FlagRed, reports[0].Flag)
		assert.Equal(mt, []string{"billboards/1-abc.jpg"}, reports[0].ImageKeys)

		find := startedCommand(mt, "find")
		or, err := find.Command.Lookup("filter", "$or").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, or, 3)
		assert.Equal(mt, "pending", or[0].Document().Lookup("status").StringValue())
		assert.False(mt, or[1].Document().Lookup("status", "$exists").Boolean())
		assert.Equal(mt, "", or[2].Document().Lookup("status").StringValue())

		sort := find.Command.Lookup("sort").Document()
		assert.Equal(mt, int64(-1), sort.Lookup("created_at").AsInt64())
	})

	mt.Run("approved", func(mt *mtest.T) {
		repo := NewMongoReportRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, reportsNS, mtest.FirstBatch))

		reports, err := repo.FindByStatus(context.Background(), entity.StatusApproved)
		require.NoError(mt, err)
		assert.Empty(mt, reports)

		filter := startedCommand(mt, "find").Command.Lookup("filter").Document()
		assert.Equal(mt, "approved", filter.Lookup("status").StringValue())
		_, err = filter.LookupErr("$or")
		assert.Error(mt, err)
	})
}

func TestMongoReportFindByID(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("found", func(mt *mtest.T) {
		repo := NewMongoReportRepository(mt.DB, zap.NewNop())
		id, userID := uuid.New(), uuid.New()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, reportsNS, mtest.FirstBatch,
			reportDoc(id, userID, "approved", time.Now().UTC())))

		report, err := repo.FindByID(context.Background(), id)
		require.NoError(mt, err)
		require.NotNil(mt, report)
		assert.Equal(mt, userID, report.UserID)
		assert.Equal(mt, entity.StatusApproved, report.Status)

		filter := startedCommand(mt, "find").Command.Lookup("filter").Document()
		assert.Equal(mt, id.String(), filter.Lookup("_id").StringValue())
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewMongoReportRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, reportsNS, mtest.FirstBatch))

		report, err := repo.FindByID(context.Background(), uuid.New())
		require.NoError(mt, err)
		assert.Nil(mt, report)
	})
}

func TestMongoReportCreate(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("stores string ids", func(mt *mtest.T) {
		repo := NewMongoReportRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		report := &entity.Report{
			BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now()},
			UserID:       uuid.New(),
			Title:        "Main St",
			Flag:         entity.FlagRed,
			Status:       entity.StatusPending,
		}
		require.NoError(mt, repo.Create(context.Background(), report))

		docs, err := startedCommand(mt, "insert").Command.Lookup("documents").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, docs, 1)
		doc := docs[0].Document()
		assert.Equal(mt, report.ID.String(), doc.Lookup("_id").StringValue())
		assert.Equal(mt, report.UserID.String(), doc.Lookup("user_id").StringValue())
		assert.Equal(mt, "pending", doc.Lookup("status").StringValue())
	})

	mt.Run("duplicate key", func(mt *mtest.T) {
		repo := NewMongoReportRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		err := repo.Create(context.Background(), &entity.Report{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}})
		assert.Error(mt, err)
	})
}

func TestMongoReportUpdateAndDeleteMissing(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("update status", func(mt *mtest.T) {
		repo := NewMongoReportRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		id := uuid.New()
		require.NoError(mt, repo.UpdateStatus(context.Background(), id, entity.StatusApproved, time.Now()))

		updates, err := startedCommand(mt, "update").Command.Lookup("updates").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, updates, 1)
		set := updates[0].Document().Lookup("u", "$set").Document()
		assert.Equal(mt, "approved", set.Lookup("status").StringValue())
	})

	mt.Run("update missing", func(mt *mtest.T) {
		repo := NewMongoReportRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.UpdateContent(context.Background(), uuid.New(), "Fixed", entity.FlagGreen, time.Now())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewMongoReportRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(context.Background(), uuid.New())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewMongoReportRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, repo.Delete(context.Background(), uuid.New()))
	})
}

func TestMongoReportCountAll(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("count", func(mt *mtest.T) {
		repo := NewMongoReportRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, reportsNS, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}))

		count, err := repo.CountAll(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), count)
	})
}
