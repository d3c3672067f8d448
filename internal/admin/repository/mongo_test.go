package repository

import (
	"context"
	"testing"
	"time"

	"github.com/faqhub/faqhub/backend/go-services/internal/admin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		a := &admin.Admin{Username: "root", Email: "root@example.com", Role: "superadmin", IsActive: true}
		require.NoError(mt, repo.Create(context.Background(), a))
		_, err := primitive.ObjectIDFromHex(a.ID)
		require.NoError(mt, err)
	})

	mt.Run("duplicate username maps to ErrExists", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}))

		err := repo.Create(context.Background(), &admin.Admin{Username: "root"})
		require.ErrorIs(mt, err, admin.ErrExists)
	})

	mt.Run("get by username decodes document", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		oid := primitive.NewObjectID()
		exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "username", Value: "root"},
			{Key: "email", Value: "root@example.com"},
			{Key: "role", Value: "superadmin"},
			{Key: "passwordHash", Value: "$2a$hash"},
			{Key: "isActive", Value: true},
			{Key: "otpHash", Value: "abc"},
			{Key: "otpExpiresAt", Value: exp},
		}))

		a, err := repo.GetByUsername(context.Background(), "root")
		require.NoError(mt, err)
		require.Equal(mt, oid.Hex(), a.ID)
		require.Equal(mt, "abc", a.OTPHash)
		require.True(mt, a.OTPExpiresAt.Equal(exp))
		require.True(mt, a.IsActive)
	})

	mt.Run("get missing is not found", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByUsername(context.Background(), "ghost")
		require.ErrorIs(mt, err, admin.ErrNotFound)
		_, err = repo.GetByID(context.Background(), "bogus")
		require.ErrorIs(mt, err, admin.ErrNotFound)
	})

	mt.Run("set otp and mark verified", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		id := primitive.NewObjectID().Hex()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		require.NoError(mt, repo.SetOTP(context.Background(), id, "hash", time.Now().Add(time.Minute)))
		require.NoError(mt, repo.MarkVerified(context.Background(), id, "hash"))
		require.ErrorIs(mt, repo.MarkVerified(context.Background(), id, "hash"), admin.ErrInvalidOTP)
		require.ErrorIs(mt, repo.MarkVerified(context.Background(), id, ""), admin.ErrInvalidOTP)
		require.ErrorIs(mt, repo.SetOTP(context.Background(), "bogus", "h", time.Now()), admin.ErrNotFound)
	})
}
