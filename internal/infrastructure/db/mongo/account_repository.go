package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cvmotors/dealership-system/internal/core/domain"
)

const accountCollection = "accounts"

type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountCollection)}
}

type accountDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (d *accountDoc) toDomain() *domain.Account {
	return &domain.Account{
		ID:           d.ID.Hex(),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         domain.NormalizeRole(d.Role),
		CreatedAt:    unixToTime(d.CreatedAt),
		UpdatedAt:    unixToTime(d.UpdatedAt),
	}
}

func (r *AccountRepository) Insert(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	doc := accountDoc{
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		Role:         string(domain.NormalizeRole(string(account.Role))),
		CreatedAt:    account.CreatedAt.Unix(),
		UpdatedAt:    account.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	created := *account
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var doc accountDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	var doc accountDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account by id: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id, firstName, lastName, email string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	update := bson.M{"$set": bson.M{
		"first_name": firstName,
		"last_name":  lastName,
		"email":      email,
		"updated_at": time.Now().UTC().Unix(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update account profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	update := bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC().Unix(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
