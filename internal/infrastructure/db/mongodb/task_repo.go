package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baechuer/task-manager/internal/domain"
)

type TaskRepo struct {
	coll *mongo.Collection
}

func NewTaskRepo(db *mongo.Database) *TaskRepo {
	return &TaskRepo{coll: db.Collection(tasksCollection)}
}

func (r *TaskRepo) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	owner, err := primitive.ObjectIDFromHex(t.UserID)
	if err != nil {
		return domain.Task{}, domain.ErrInvalidField("user_id", "not an object id")
	}
	if t.Status == "" {
		t.Status = domain.TaskPending
	}

	d := taskDoc{
		ID:          primitive.NewObjectID(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		UserID:      owner,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return domain.Task{}, domain.ErrDBUnavailable(err)
	}
	return d.toDomain(), nil
}

func (r *TaskRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		// nothing can be owned by a malformed id
		return 0, nil
	}

	res, err := r.coll.DeleteMany(ctx, bson.M{"userId": owner})
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	return res.DeletedCount, nil
}

// ListByUser returns the user's tasks, oldest first.
func (r *TaskRepo) ListByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": owner}, opts)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer cur.Close(ctx)

	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	out := make([]domain.Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
