// Package repository stores admin accounts in MongoDB or in memory.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/faqhub/faqhub/backend/go-services/internal/admin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoAdmin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	Role         string             `bson:"role"`
	PasswordHash string             `bson:"passwordHash"`
	IsActive     bool               `bson:"isActive"`
	IsVerified   bool               `bson:"isVerified"`
	OTPHash      string             `bson:"otpHash,omitempty"`
	OTPExpiresAt time.Time          `bson:"otpExpiresAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d mongoAdmin) admin() *admin.Admin {
	return &admin.Admin{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		Role:         d.Role,
		PasswordHash: d.PasswordHash,
		IsActive:     d.IsActive,
		IsVerified:   d.IsVerified,
		OTPHash:      d.OTPHash,
		OTPExpiresAt: d.OTPExpiresAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// MongoRepo implements admin.Repository on the admins collection.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

// EnsureIndexes creates the unique username index.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.col.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("create admin index: %w", err)
	}
	return nil
}

func (r *MongoRepo) Create(ctx context.Context, a *admin.Admin) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	a.CreatedAt = now
	a.UpdatedAt = now
	doc := mongoAdmin{
		Username:     a.Username,
		Email:        a.Email,
		Role:         a.Role,
		PasswordHash: a.PasswordHash,
		IsActive:     a.IsActive,
		IsVerified:   a.IsVerified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return admin.ErrExists
		}
		return err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	a.ID = oid.Hex()
	return nil
}

func (r *MongoRepo) findOne(ctx context.Context, filter bson.M) (*admin.Admin, error) {
	var d mongoAdmin
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, admin.ErrNotFound
		}
		return nil, err
	}
	return d.admin(), nil
}

func (r *MongoRepo) GetByID(ctx context.Context, id string) (*admin.Admin, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, admin.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepo) GetByUsername(ctx context.Context, username string) (*admin.Admin, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// updateWhere applies update to the document with id that also matches
// extra. A miss returns errMiss.
func (r *MongoRepo) updateWhere(ctx context.Context, id string, extra bson.M, update bson.M, errMiss error) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return admin.ErrNotFound
	}
	filter := bson.M{"_id": oid}
	for k, v := range extra {
		filter[k] = v
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errMiss
	}
	return nil
}

func (r *MongoRepo) SetOTP(ctx context.Context, id, hash string, expiresAt time.Time) error {
	return r.updateWhere(ctx, id, nil, bson.M{"$set": bson.M{
		"otpHash":      hash,
		"otpExpiresAt": expiresAt,
		"updatedAt":    time.Now().UTC(),
	}}, admin.ErrNotFound)
}

// MarkVerified consumes the pending passcode with hash otpHash and flags the
// account verified. The match on otpHash makes the consume single-shot: a
// second caller with the same passcode gets admin.ErrInvalidOTP.
func (r *MongoRepo) MarkVerified(ctx context.Context, id, otpHash string) error {
	if otpHash == "" {
		return admin.ErrInvalidOTP
	}
	return r.updateWhere(ctx, id, bson.M{"otpHash": otpHash}, bson.M{
		"$set":   bson.M{"isVerified": true, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"otpHash": "", "otpExpiresAt": ""},
	}, admin.ErrInvalidOTP)
}

var _ admin.Repository = (*MongoRepo)(nil)
