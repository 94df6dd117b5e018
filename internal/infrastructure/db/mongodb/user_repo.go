package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baechuer/task-manager/internal/domain"
)

type UserRepo struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{db: db, coll: db.Collection(usersCollection)}
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (domain.User, error) {
	var d userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return d.toDomain(), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	oid, err := parseID(strings.TrimSpace(id))
	if err != nil {
		return domain.User{}, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}
	if u.Role == "" {
		u.Role = string(domain.RoleMember)
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	d := userDocFrom(u)
	d.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return d.toDomain(), nil
}

func (r *UserRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	oid, err := parseID(strings.TrimSpace(u.ID))
	if err != nil {
		return domain.User{}, err
	}

	set := bson.M{
		"name":      u.Name,
		"email":     strings.TrimSpace(u.Email),
		"password":  u.PasswordHash,
		"role":      u.Role,
		"updatedAt": time.Now().UTC(),
	}
	if u.ProfileImageURL != "" {
		set["profileImageUrl"] = u.ProfileImageURL
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d userDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return d.toDomain(), nil
}

func (r *UserRepo) SetProfileImageURL(ctx context.Context, userID, url string) error {
	oid, err := parseID(strings.TrimSpace(userID))
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"profileImageUrl": url,
		"updatedAt":       time.Now().UTC(),
	}})
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	oid, err := parseID(strings.TrimSpace(userID))
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) Ping(ctx context.Context) error {
	return r.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
