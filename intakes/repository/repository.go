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

	"github.com/tidepool-org/adherence/intakes"
	"github.com/tidepool-org/adherence/store"
)

func NewRepository(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (intakes.Repository, error) {
	repo := &Repository{
		collection: db.Collection(intakes.CollectionName),
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
				{Key: "drugName", Value: 1},
			},
			Options: options.Index().
				SetBackground(true).
				SetUnique(true).
				SetName("UniquePatientIntakeTimeDrug"),
		},
		{
			Keys: bson.D{
				{Key: "therapyId", Value: 1},
			},
			Options: options.Index().
				SetBackground(true).
				SetName("IntakesByTherapyId").
				SetPartialFilterExpression(bson.D{{Key: "therapyId", Value: bson.M{"$exists": true}}}),
		},
	})
	return err
}

func (r *Repository) Get(ctx context.Context, id string) (*intakes.Intake, error) {
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, intakes.ErrNotFound
	}
	return r.getOne(ctx, bson.M{"_id": objId})
}

func (r *Repository) List(ctx context.Context, filter intakes.Filter, pagination store.Pagination) ([]*intakes.Intake, error) {
	opts := pagination.FindOptions().
		SetSort(bson.D{{Key: "time", Value: -1}})

	selector := bson.M{
		"patientId": filter.PatientId,
	}
	if filter.From != nil || filter.To != nil {
		timeRange := bson.M{}
		if filter.From != nil {
			timeRange["$gte"] = *filter.From
		}
		if filter.To != nil {
			timeRange["$lt"] = *filter.To
		}
		selector["time"] = timeRange
	}

	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing intakes: %w", err)
	}

	result := make([]*intakes.Intake, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("error decoding intakes list: %w", err)
	}

	return result, nil
}

func (r *Repository) Create(ctx context.Context, intake intakes.Intake) (*intakes.Intake, error) {
	intake.Id = nil
	intake.CreatedTime = time.Now()
	res, err := r.collection.InsertOne(ctx, intake)
	if store.IsDuplicateKeyError(err) {
		return nil, intakes.ErrDuplicate
	} else if err != nil {
		return nil, fmt.Errorf("error creating intake: %w", err)
	}

	return r.getOne(ctx, bson.M{"_id": res.InsertedID.(primitive.ObjectID)})
}

func (r *Repository) Delete(ctx context.Context, id string) (*intakes.Intake, error) {
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, intakes.ErrNotFound
	}

	deleted := &intakes.Intake{}
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": objId}).Decode(deleted)
	if err == mongo.ErrNoDocuments {
		return nil, intakes.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to delete intake: %w", err)
	}

	return deleted, nil
}

func (r *Repository) getOne(ctx context.Context, selector bson.M) (*intakes.Intake, error) {
	intake := &intakes.Intake{}
	err := r.collection.FindOne(ctx, selector).Decode(intake)
	if err == mongo.ErrNoDocuments {
		return nil, intakes.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return intake, nil
}
