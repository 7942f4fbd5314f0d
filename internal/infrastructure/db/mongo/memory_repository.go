package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cafeice/shop-api/internal/core/domain"
)

const collectionMemories = "memories"

// MemoryRepository implements ports.MemoryRepository using MongoDB.
type MemoryRepository struct {
	col *mongo.Collection
}

func NewMemoryRepository(db *mongo.Database) *MemoryRepository {
	return &MemoryRepository{col: db.Collection(collectionMemories)}
}

type mongoMemory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Text      string             `bson:"text"`
	Approved  bool               `bson:"is_approved"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (m *mongoMemory) toDomain() *domain.Memory {
	return &domain.Memory{
		ID:        m.ID.Hex(),
		Name:      m.Name,
		Text:      m.Text,
		Approved:  m.Approved,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, m *domain.Memory) (*domain.Memory, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoMemory{
		Name:      m.Name,
		Text:      m.Text,
		Approved:  m.Approved,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert memory: %w", err)
	}
	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *MemoryRepository) List(ctx context.Context, approvedOnly bool) ([]*domain.Memory, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if approvedOnly {
		filter["is_approved"] = true
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoMemory
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode memories: %w", err)
	}
	out := make([]*domain.Memory, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// ToggleApproved negates is_approved server-side so concurrent toggles never
// read a stale flag.
func (r *MemoryRepository) ToggleApproved(ctx context.Context, id string) (*domain.Memory, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "is_approved", Value: bson.D{{Key: "$not", Value: bson.A{"$is_approved"}}}},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	}
	var m mongoMemory
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("toggle memory: %w", err)
	}
	return m.toDomain(), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByHexID(ctx, r.col, id)
}

// EnsureIndexes backs the public list, which filters on approval and sorts by age.
func (r *MemoryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "is_approved", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
