package users

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const usersCollection = "users"

type collections interface {
	Collection(name string) *mongo.Collection
}

// Repository persists user documents.
type Repository struct {
	users *mongo.Collection
}

// NewRepository constructs a user repository.
func NewRepository(db collections) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Repository{users: db.Collection(usersCollection)}, nil
}

func (r *Repository) Insert(ctx context.Context, user *User) (*User, error) {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByID(ctx context.Context, userID primitive.ObjectID) (*User, error) {
	var user User
	if err := r.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
