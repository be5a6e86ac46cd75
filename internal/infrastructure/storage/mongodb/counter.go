package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inventory/internal/domain/counter"
)

// CounterRepo is the sequence store on the counters collection. The unique
// index on name decides which concurrent creator wins.
type CounterRepo struct {
	coll *mongo.Collection
}

// NewCounterRepo creates a new counter repository.
func NewCounterRepo(c *Client) *CounterRepo {
	return &CounterRepo{coll: c.db.Collection(counterCollection)}
}

func (r *CounterRepo) FindByName(ctx context.Context, name string) (counter.Counter, bool, error) {
	var c counter.Counter
	err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return counter.Counter{}, false, nil
	}
	if err != nil {
		return counter.Counter{}, false, fmt.Errorf("find counter %q: %w", name, err)
	}
	return c, true, nil
}

func (r *CounterRepo) Create(ctx context.Context, name string, initial int64) (counter.CreateOutcome, error) {
	_, err := r.coll.InsertOne(ctx, counter.Counter{Name: name, Value: initial})
	if isDuplicateOn(err, counterNameIndex) {
		return counter.AlreadyExists, nil
	}
	if err != nil {
		return 0, fmt.Errorf("insert counter %q: %w", name, err)
	}
	return counter.Created, nil
}

// IncrementAndGet uses $inc with ReturnDocument(After), a single atomic
// operation on the server.
func (r *CounterRepo) IncrementAndGet(ctx context.Context, name string) (int64, error) {
	var c counter.Counter
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"name": name},
		bson.M{"$inc": bson.M{"value": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("increment counter %q: not found", name)
	}
	if err != nil {
		return 0, fmt.Errorf("increment counter %q: %w", name, err)
	}
	return c.Value, nil
}

var _ counter.Repository = (*CounterRepo)(nil)
