package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/librerose/sitebook/internal/domain"
)

// mongoDocumentRepo is the MongoDB implementation of DocumentRepo.
// Each collection name maps to a Mongo collection; ids are ObjectID hex strings.
type mongoDocumentRepo struct {
	db *mongo.Database
}

// NewMongoDocumentRepo constructs a DocumentRepo backed by a Mongo database.
func NewMongoDocumentRepo(db *mongo.Database) DocumentRepo {
	return &mongoDocumentRepo{db: db}
}

func (r *mongoDocumentRepo) Insert(ctx context.Context, collection string, doc domain.Document) (domain.Document, error) {
	body := bson.M(withoutID(doc))

	res, err := r.db.Collection(collection).InsertOne(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("repo.MongoDocumentRepo.Insert: %w", err)
	}

	out := withoutID(doc)
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		out[domain.FieldID] = oid.Hex()
	}
	return out, nil
}

func (r *mongoDocumentRepo) GetByID(ctx context.Context, collection, id string) (domain.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("repo.MongoDocumentRepo.GetByID: %w", domain.ErrNotFound)
	}

	var m bson.M
	err = r.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&m)
	if err != nil {
		return nil, fmt.Errorf("repo.MongoDocumentRepo.GetByID: %w", mapMongoErr(err))
	}
	return fromBSON(m), nil
}

func (r *mongoDocumentRepo) FindByField(ctx context.Context, collection, field, value string) ([]domain.Document, error) {
	docs, err := r.find(ctx, collection, bson.M{field: value})
	if err != nil {
		return nil, fmt.Errorf("repo.MongoDocumentRepo.FindByField: %w", err)
	}
	return docs, nil
}

func (r *mongoDocumentRepo) List(ctx context.Context, collection string) ([]domain.Document, error) {
	docs, err := r.find(ctx, collection, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("repo.MongoDocumentRepo.List: %w", err)
	}
	return docs, nil
}

func (r *mongoDocumentRepo) Update(ctx context.Context, collection, id string, set domain.Document) (domain.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("repo.MongoDocumentRepo.Update: %w", domain.ErrNotFound)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m bson.M
	err = r.db.Collection(collection).
		FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M(withoutID(set))}, opts).
		Decode(&m)
	if err != nil {
		return nil, fmt.Errorf("repo.MongoDocumentRepo.Update: %w", mapMongoErr(err))
	}
	return fromBSON(m), nil
}

func (r *mongoDocumentRepo) Delete(ctx context.Context, collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("repo.MongoDocumentRepo.Delete: %w", domain.ErrNotFound)
	}

	res, err := r.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("repo.MongoDocumentRepo.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("repo.MongoDocumentRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// find runs a filter in natural (insertion) order and normalizes the results.
func (r *mongoDocumentRepo) find(ctx context.Context, collection string, filter bson.M) ([]domain.Document, error) {
	cur, err := r.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var ms []bson.M
	if err := cur.All(ctx, &ms); err != nil {
		return nil, fmt.Errorf("cursor: %w", err)
	}

	docs := make([]domain.Document, 0, len(ms))
	for _, m := range ms {
		docs = append(docs, fromBSON(m))
	}
	return docs, nil
}

func mapMongoErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}

// fromBSON converts a decoded Mongo document into a domain.Document,
// turning ObjectIDs into hex strings and nested documents into Documents.
func fromBSON(m bson.M) domain.Document {
	out := make(domain.Document, len(m))
	for k, v := range m {
		out[k] = fromBSONValue(v)
	}
	return out
}

func fromBSONValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return fromBSON(t)
	case bson.D:
		out := make(domain.Document, len(t))
		for _, e := range t {
			out[e.Key] = fromBSONValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = fromBSONValue(x)
		}
		return out
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time()
	default:
		return v
	}
}
