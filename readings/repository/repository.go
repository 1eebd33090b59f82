package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/adherence/readings"
	"github.com/tidepool-org/adherence/store"
)

func NewRepository(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (readings.Repository, error) {
	repo := &Repository{
		collection: db.Collection(readings.CollectionName),
		logger:     logger,
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.Initialize(ctx)
		},
	})

	return repo, nil
}

type Repository struct {
	collection *mongo.Collection
	logger     *zap.SugaredLogger
}

func (r *Repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "patientId", Value: 1},
				{Key: "time", Value: -1},
			},
			Options: options.Index().
				SetBackground(true).
				SetUnique(true).
				SetName("UniquePatientReadingTime"),
		},
	})
	return err
}

func (r *Repository) Get(ctx context.Context, id string) (*readings.Reading, error) {
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, readings.ErrNotFound
	}
	return r.getOne(ctx, bson.M{"_id": objId})
}

func (r *Repository) List(ctx context.Context, filter readings.Filter, pagination store.Pagination) ([]*readings.Reading, error) {
	opts := pagination.FindOptions().
		SetSort(bson.D{{Key: "time", Value: -1}})

	selector := bson.M{
		"patientId": filter.PatientId,
	}
	if timeRange := timeRangeSelector(filter.From, filter.To); timeRange != nil {
		selector["time"] = timeRange
	}

	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing readings: %w", err)
	}

	result := make([]*readings.Reading, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("error decoding readings list: %w", err)
	}

	return result, nil
}

func (r *Repository) Create(ctx context.Context, reading readings.Reading) (*readings.Reading, error) {
	reading.Id = nil
	reading.CreatedTime = time.Now()
	res, err := r.collection.InsertOne(ctx, reading)
	if store.IsDuplicateKeyError(err) {
		return nil, readings.ErrDuplicate
	} else if err != nil {
		return nil, fmt.Errorf("error creating reading: %w", err)
	}

	return r.getOne(ctx, bson.M{"_id": res.InsertedID.(primitive.ObjectID)})
}

func (r *Repository) Delete(ctx context.Context, id string) (*readings.Reading, error) {
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, readings.ErrNotFound
	}

	deleted := &readings.Reading{}
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": objId}).Decode(deleted)
	if err == mongo.ErrNoDocuments {
		return nil, readings.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to delete reading: %w", err)
	}

	return deleted, nil
}

func (r *Repository) getOne(ctx context.Context, selector bson.M) (*readings.Reading, error) {
	reading := &readings.Reading{}
	err := r.collection.FindOne(ctx, selector).Decode(reading)
	if err == mongo.ErrNoDocuments {
		return nil, readings.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return reading, nil
}

func timeRangeSelector(from, to *time.Time) bson.M {
	if from == nil && to == nil {
		return nil
	}
	timeRange := bson.M{}
	if from != nil {
		timeRange["$gte"] = *from
	}
	if to != nil {
		timeRange["$lt"] = *to
	}
	return timeRange
}
