package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cafeice/shop-api/internal/core/domain"
)

const collectionAnnouncements = "announcements"

// AnnouncementRepository implements ports.AnnouncementRepository using MongoDB.
type AnnouncementRepository struct {
	col *mongo.Collection
}

func NewAnnouncementRepository(db *mongo.Database) *AnnouncementRepository {
	return &AnnouncementRepository{col: db.Collection(collectionAnnouncements)}
}

type mongoAnnouncement struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	ExpiresAt   time.Time          `bson:"expires"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (m *mongoAnnouncement) toDomain() *domain.Announcement {
	return &domain.Announcement{
		ID:          m.ID.Hex(),
		Title:       m.Title,
		Description: m.Description,
		ExpiresAt:   m.ExpiresAt.UTC(),
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *domain.Announcement) (*domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAnnouncement{
		Title:       a.Title,
		Description: a.Description,
		ExpiresAt:   a.ExpiresAt.UTC(),
		CreatedAt:   a.CreatedAt.UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert announcement: %w", err)
	}
	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// ListActive returns announcements expiring after now, newest first.
func (r *AnnouncementRepository) ListActive(ctx context.Context, now time.Time) ([]*domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"expires": bson.M{"$gt": now.UTC()}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAnnouncement
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode announcements: %w", err)
	}
	out := make([]*domain.Announcement, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByHexID(ctx, r.col, id)
}

// EnsureIndexes installs a TTL index so Mongo reaps announcements once they expire.
func (r *AnnouncementRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}
