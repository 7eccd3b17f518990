package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopfront/cart-sync/internal/core/domain"
)

const collectionCarts = "carts"

type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection(collectionCarts)}
}

// FindByUser retrieves the single cart owned by userID.
func (r *CartRepository) FindByUser(ctx context.Context, userID string) (*domain.RemoteCartRecord, error) {
	return r.findOne(ctx, bson.M{"userId": userID})
}

// FindByID retrieves a cart by its record id.
func (r *CartRepository) FindByID(ctx context.Context, id string) (*domain.RemoteCartRecord, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *CartRepository) findOne(ctx context.Context, filter bson.M) (*domain.RemoteCartRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec domain.RemoteCartRecord
	err := r.col.FindOne(ctx, filter).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, err
	}
	if rec.Items == nil {
		rec.Items = domain.Cart{}
	}
	return &rec, nil
}

// Create inserts a new cart document. The unique index on userId turns a
// second cart for the same user into domain.ErrCartExists.
func (r *CartRepository) Create(ctx context.Context, rec *domain.RemoteCartRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if rec.Items == nil {
		rec.Items = domain.Cart{}
	}
	_, err := r.col.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrCartExists
		}
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

// Update replaces the items of an existing cart.
func (r *CartRepository) Update(ctx context.Context, rec *domain.RemoteCartRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	items := rec.Items
	if items == nil {
		items = domain.Cart{}
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": rec.ID},
		bson.M{"$set": bson.M{"items": items, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCartNotFound
	}
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCartNotFound
	}
	return nil
}

// EnsureIndexes enforces one cart per user.
func (r *CartRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
