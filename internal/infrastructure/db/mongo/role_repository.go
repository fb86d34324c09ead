package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetms/fleet-auth/internal/core/domain"
)

const roleCollection = "roles"

// MongoRoleRepository exposes the closed role catalogue.
type MongoRoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{coll: db.Collection(roleCollection)}
}

type mongoRole struct {
	ID   int    `bson:"_id"`
	Name string `bson:"name"`
}

// Seed writes the closed catalogue with its stable numeric ids.
// $setOnInsert keeps existing ids untouched, so re-running at every
// startup is safe.
func (r *MongoRoleRepository) Seed(ctx context.Context) error {
	catalogue := []domain.Role{
		{ID: 1, Name: domain.RoleUser},
		{ID: 2, Name: domain.RoleAdmin},
	}

	for _, role := range catalogue {
		_, err := r.coll.UpdateOne(ctx,
			bson.M{"_id": role.ID},
			bson.M{"$setOnInsert": bson.M{"name": role.Name}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", role.Name, err)
		}
	}
	return nil
}

func (r *MongoRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var mr mongoRole
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("%w: find role: %v", domain.ErrStoreUnavailable, err)
	}
	return &domain.Role{ID: mr.ID, Name: mr.Name}, nil
}
