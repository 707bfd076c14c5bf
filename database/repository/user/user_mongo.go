package userRepo

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

// ErrEmailTaken is returned when an insert collides with the unique email index.
var ErrEmailTaken = errors.New("email already registered")

// ErrNotFound is returned when no user matches the query.
var ErrNotFound = errors.New("user not found")

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo() UserRepository {
	coll := database.DB().Collection("users")
	repo := &MongoUserRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create user indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoUserRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "roles", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new user document.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return &user, nil
}

// GetByID retrieves a user by its unique ID.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetByEmail retrieves a user by email.
func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByOAuth retrieves a user linked to an OAuth identity.
func (r *MongoUserRepo) GetByOAuth(ctx context.Context, provider, oauthID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"oauthProvider": provider, "oauthId": oauthID})
}

// GetTherapistByEmail retrieves a therapist-role user by email.
func (r *MongoUserRepo) GetTherapistByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "roles": bson.M{"$in": []string{models.RoleTherapist}}})
}

// FindByRole lists users holding the given role.
func (r *MongoUserRepo) FindByRole(ctx context.Context, role string) ([]models.User, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"roles": bson.M{"$in": []string{role}}})
	if err != nil {
		return nil, fmt.Errorf("error listing users by role: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error decoding users: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepo) updateOne(ctx context.Context, filter, update bson.M) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAbout replaces the localized about text of the user.
func (r *MongoUserRepo) UpdateAbout(ctx context.Context, id string, about models.LocalizedText) error {
	return r.updateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"about": about, "updated_at": time.Now()}})
}

// UpdatePhotoURL sets the profile photo URL.
func (r *MongoUserRepo) UpdatePhotoURL(ctx context.Context, id, photoURL string) error {
	return r.updateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"photoUrl": photoURL, "updated_at": time.Now()}})
}

// UpdateRating persists the recomputed aggregate rating.
func (r *MongoUserRepo) UpdateRating(ctx context.Context, id string, rating float64) error {
	return r.updateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"rating": rating, "updated_at": time.Now()}})
}

// SetTelegramLink binds the chat-bot identity to the user.
func (r *MongoUserRepo) SetTelegramLink(ctx context.Context, id, chatID, telegramUserID string) error {
	return r.updateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"telegramChatId": chatID,
		"telegramUserId": telegramUserID,
		"updated_at":     time.Now(),
	}})
}

// SetOAuthLink binds an external identity to an existing account.
func (r *MongoUserRepo) SetOAuthLink(ctx context.Context, id, provider, oauthID string) error {
	return r.updateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"oauthProvider": provider,
		"oauthId":       oauthID,
		"updated_at":    time.Now(),
	}})
}

// PushCertificate appends a certificate to the embedded list.
func (r *MongoUserRepo) PushCertificate(ctx context.Context, userID string, cert models.Certificate) error {
	return r.updateOne(ctx, bson.M{"id": userID}, bson.M{
		"$push": bson.M{"certificates": cert},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

// UpdateCertificate replaces the matching embedded certificate in place.
func (r *MongoUserRepo) UpdateCertificate(ctx context.Context, userID string, cert models.Certificate) error {
	return r.updateOne(ctx,
		bson.M{"id": userID, "certificates.id": cert.ID},
		bson.M{"$set": bson.M{"certificates.$": cert, "updated_at": time.Now()}},
	)
}

// PullCertificate removes the certificate with the given id.
func (r *MongoUserRepo) PullCertificate(ctx context.Context, userID, certID string) error {
	return r.updateOne(ctx, bson.M{"id": userID}, bson.M{
		"$pull": bson.M{"certificates": bson.M{"id": certID}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}
