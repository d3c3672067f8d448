package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/faqhub/faqhub/backend/go-services/internal/faq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoFAQ is the stored shape of a record. Translations are a nested
// subdocument keyed by language tag.
type mongoFAQ struct {
	ID           primitive.ObjectID         `bson:"_id,omitempty"`
	Question     string                     `bson:"question"`
	Answer       string                     `bson:"answer"`
	Translations map[string]faq.Translation `bson:"translations"`
	CreatedAt    time.Time                  `bson:"createdAt"`
	UpdatedAt    time.Time                  `bson:"updatedAt"`
}

func toMongo(r *faq.Record) mongoFAQ {
	tr := make(map[string]faq.Translation, len(r.Translations))
	for l, t := range r.Translations {
		if faq.IsSupported(l) {
			tr[string(l)] = t
		}
	}
	return mongoFAQ{Question: r.Question, Answer: r.Answer, Translations: tr, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

func (d mongoFAQ) record() *faq.Record {
	r := &faq.Record{
		ID:           d.ID.Hex(),
		Question:     d.Question,
		Answer:       d.Answer,
		Translations: make(map[faq.Lang]faq.Translation, len(d.Translations)),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	for k, t := range d.Translations {
		// unknown keys written by older schemas are dropped on read
		if l := faq.Lang(k); faq.IsSupported(l) {
			r.Translations[l] = t
		}
	}
	return r
}

// MongoRepo implements Repository on a MongoDB collection. Identity is the
// ObjectID assigned at insert, exposed as its hex string.
type MongoRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col, now: storedNow}
}

// storedNow returns the current time at the millisecond precision BSON
// dates keep, so a returned record matches what a later read decodes.
func storedNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// EnsureIndexes creates the index backing List ordering. Safe to call repeatedly.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}
	if _, err := m.col.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("create faq index: %w", err)
	}
	return nil
}

func (m *MongoRepo) Create(ctx context.Context, r *faq.Record) error {
	now := m.now()
	r.CreatedAt = now
	r.UpdatedAt = now
	res, err := m.col.InsertOne(ctx, toMongo(r))
	if err != nil {
		return err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	r.ID = oid.Hex()
	return nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*faq.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*faq.Record{}
	for cur.Next(ctx) {
		var d mongoFAQ
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.record())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*faq.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var d mongoFAQ
	if err := m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d.record(), nil
}

func (m *MongoRepo) Update(ctx context.Context, r *faq.Record) error {
	oid, err := primitive.ObjectIDFromHex(r.ID)
	if err != nil {
		return ErrNotFound
	}
	r.UpdatedAt = m.now()
	d := toMongo(r)
	set := bson.M{
		"question":     d.Question,
		"answer":       d.Answer,
		"translations": d.Translations,
		"updatedAt":    r.UpdatedAt,
	}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks the primary is reachable; used by /ready.
func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, readpref.Primary())
}
