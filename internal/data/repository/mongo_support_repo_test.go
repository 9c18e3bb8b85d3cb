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
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

const supportNS = "test.supportRequests"

func TestMongoSupportCreate(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("insert", func(mt *mtest.T) {
		repo := NewMongoSupportRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		req := &entity.SupportRequest{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
			UserID:     uuid.New(),
			Message:    "The map does not load",
		}
		require.NoError(mt, repo.Create(context.Background(), req))

		insert := startedCommand(mt, "insert")
		assert.Equal(mt, "supportRequests", insert.Command.Lookup("insert").StringValue())
		docs, err := insert.Command.Lookup("documents").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, docs, 1)
		assert.Equal(mt, req.ID.String(), docs[0].Document().Lookup("_id").StringValue())
		assert.Equal(mt, "The map does not load", docs[0].Document().Lookup("message").StringValue())
	})
}

func TestMongoSupportFindAllPages(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("page", func(mt *mtest.T) {
		repo := NewMongoSupportRepository(mt.DB, zap.NewNop())
		id, userID := uuid.New(), uuid.New()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, supportNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id.String()},
			{Key: "user_id", Value: userID.String()},
			{Key: "message", Value: "Help"},
			{Key: "created_at", Value: time.Now().UTC()},
		}))

		items, err := repo.FindAll(context.Background(), 20, 40)
		require.NoError(mt, err)
		require.Len(mt, items, 1)
		assert.Equal(mt, id, items[0].ID)
		assert.Equal(mt, userID, items[0].UserID)
		assert.Equal(mt, "Help", items[0].Message)

		find := startedCommand(mt, "find")
		assert.Equal(mt, int64(40), find.Command.Lookup("skip").AsInt64())
		assert.Equal(mt, int64(20), find.Command.Lookup("limit").AsInt64())
		assert.Equal(mt, int64(-1), find.Command.Lookup("sort", "created_at").AsInt64())
	})

	mt.Run("command error", func(mt *mtest.T) {
		repo := NewMongoSupportRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized",
		}))

		_, err := repo.FindAll(context.Background(), 20, 0)
		assert.Error(mt, err)
	})
}

func TestMongoSupportCountAll(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("count", func(mt *mtest.T) {
		repo := NewMongoSupportRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, supportNS, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(7)}}))

		count, err := repo.CountAll(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, int64(7), count)
	})
}
