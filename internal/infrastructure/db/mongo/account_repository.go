package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetms/fleet-auth/internal/core/domain"
)

const (
	accountCollection = "accounts"
	counterCollection = "counters"
)

// MongoAccountRepository persists accounts. Uniqueness of username and
// email is enforced by unique indexes, so a registration racing past the
// service-level pre-checks still fails here instead of overwriting.
type MongoAccountRepository struct {
	accounts *mongo.Collection
	counters *mongo.Collection
	roles    *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{
		accounts: db.Collection(accountCollection),
		counters: db.Collection(counterCollection),
		roles:    db.Collection(roleCollection),
	}
}

type mongoAccount struct {
	ID           int64  `bson:"_id"`
	FirstName    string `bson:"first_name"`
	LastName     string `bson:"last_name"`
	Email        string `bson:"email"`
	Mobile       string `bson:"mobile"`
	Username     string `bson:"username"`
	PasswordHash string `bson:"password_hash"`
	RoleIDs      []int  `bson:"role_ids"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

// EnsureIndexes creates the unique indexes backing the registration
// invariant. Call once at startup before serving traffic.
func (r *MongoAccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.accounts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_username"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
	})
	if err != nil {
		return fmt.Errorf("ensure account indexes: %w", err)
	}
	return nil
}

func (r *MongoAccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := mongoAccount{
		ID:           id,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		Email:        account.Email,
		Mobile:       account.Mobile,
		Username:     account.Username,
		PasswordHash: account.PasswordHash,
		RoleIDs:      account.RoleIDs,
		CreatedAt:    account.CreatedAt.Unix(),
		UpdatedAt:    account.UpdatedAt.Unix(),
	}

	if _, err := r.accounts.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, conflictFromDuplicate(err)
		}
		return nil, fmt.Errorf("%w: insert account: %v", domain.ErrStoreUnavailable, err)
	}

	created := *account
	created.ID = id
	return &created, nil
}

func (r *MongoAccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var ma mongoAccount
	if err := r.accounts.FindOne(ctx, bson.M{"username": username}).Decode(&ma); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: find account: %v", domain.ErrStoreUnavailable, err)
	}

	roles, err := r.roleNames(ctx, ma.RoleIDs)
	if err != nil {
		return nil, err
	}

	return &domain.Account{
		ID:           ma.ID,
		FirstName:    ma.FirstName,
		LastName:     ma.LastName,
		Email:        ma.Email,
		Mobile:       ma.Mobile,
		Username:     ma.Username,
		PasswordHash: ma.PasswordHash,
		RoleIDs:      ma.RoleIDs,
		Roles:        roles,
		CreatedAt:    unixToTime(ma.CreatedAt),
		UpdatedAt:    unixToTime(ma.UpdatedAt),
	}, nil
}

func (r *MongoAccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, bson.M{"username": username})
}

func (r *MongoAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *MongoAccountRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := r.accounts.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("%w: count accounts: %v", domain.ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

// roleNames resolves role ids against the catalogue collection.
func (r *MongoAccountRepository) roleNames(ctx context.Context, ids []int) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cur, err := r.roles.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("%w: find roles: %v", domain.ErrStoreUnavailable, err)
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var mr mongoRole
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("%w: decode role: %v", domain.ErrStoreUnavailable, err)
		}
		names = append(names, mr.Name)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate roles: %v", domain.ErrStoreUnavailable, err)
	}
	return names, nil
}

// nextID hands out monotonically increasing account ids from a counter
// document. Ids are assigned once and never reused.
func (r *MongoAccountRepository) nextID(ctx context.Context) (int64, error) {
	res := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": accountCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	if err := res.Decode(&doc); err != nil {
		return 0, fmt.Errorf("%w: next account id: %v", domain.ErrStoreUnavailable, err)
	}
	return doc.Seq, nil
}

// conflictFromDuplicate maps a duplicate-key error back to the field
// that collided using the violated index name.
func conflictFromDuplicate(err error) error {
	if strings.Contains(err.Error(), "uniq_email") {
		return domain.ErrEmailTaken
	}
	return domain.ErrUsernameTaken
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
