package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/baechuer/task-manager/internal/domain"
)

type userDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Email           string             `bson:"email"`
	Password        string             `bson:"password"`
	ProfileImageURL string             `bson:"profileImageUrl,omitempty"`
	Role            string             `bson:"role"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Status      string             `bson:"status"`
	UserID      primitive.ObjectID `bson:"userId"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Email:           d.Email,
		PasswordHash:    d.Password,
		ProfileImageURL: d.ProfileImageURL,
		Role:            d.Role,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func userDocFrom(u domain.User) userDoc {
	return userDoc{
		Name:            u.Name,
		Email:           u.Email,
		Password:        u.PasswordHash,
		ProfileImageURL: u.ProfileImageURL,
		Role:            u.Role,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (d taskDoc) toDomain() domain.Task {
	return domain.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.TaskStatus(d.Status),
		UserID:      d.UserID.Hex(),
		CreatedAt:   d.CreatedAt,
	}
}

// parseID maps a malformed id to not-found; no document can carry it.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrUserNotFound()
	}
	return oid, nil
}
