package blogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"soothe/database"
	"soothe/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no blog post matches the query.
var ErrNotFound = errors.New("blog post not found")

// BlogRepository defines persistence operations for blog posts.
type BlogRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id string) (*models.BlogPost, error)
	Find(ctx context.Context, country, city string) ([]models.BlogPost, error)
	Delete(ctx context.Context, id string) error
}

// MongoBlogRepo implements BlogRepository using MongoDB.
type MongoBlogRepo struct {
	coll *mongo.Collection
}

// NewMongoBlogRepo creates a new instance of BlogRepository using MongoDB.
func NewMongoBlogRepo() BlogRepository {
	coll := database.DB().Collection("blog_posts")
	repo := &MongoBlogRepo{coll: coll}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "country", Value: 1}, {Key: "city", Value: 1}}},
	})
	if err != nil {
		fmt.Printf("failed to create blog indexes: %v\n", err)
	}
	return repo
}

// Create inserts a new blog post document.
func (r *MongoBlogRepo) Create(ctx context.Context, post *models.BlogPost) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("error creating blog post: %w", err)
	}
	return nil
}

// GetByID retrieves a blog post by its unique ID.
func (r *MongoBlogRepo) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var post models.BlogPost
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching blog post: %w", err)
	}
	return &post, nil
}

// Find lists blog posts newest first, optionally filtered by country/city.
func (r *MongoBlogRepo) Find(ctx context.Context, country, city string) ([]models.BlogPost, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if country != "" {
		filter["country"] = country
	}
	if city != "" {
		filter["city"] = city
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing blog posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []models.BlogPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("error decoding blog posts: %w", err)
	}
	return posts, nil
}

// Delete removes a blog post.
func (r *MongoBlogRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting blog post %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
