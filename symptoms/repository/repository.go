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

	"github.com/tidepool-org/adherence/store"
	"github.com/tidepool-org/adherence/symptoms"
)

func NewRepository(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (symptoms.Repository, error) {
	repo := &Repository{
		collection: db.Collection(symptoms.CollectionName),
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
				{Key: "type", Value: 1},
				{Key: "description", Value: 1},
				{Key: "startDate", Value: 1},
			},
			Options: options.Index().
				SetBackground(true).
				SetUnique(true).
				SetName("UniquePatientSymptomStart"),
		},
		{
			Keys: bson.D{
				{Key: "patientId", Value: 1},
				{Key: "startDate", Value: -1},
			},
			Options: options.Index().
				SetBackground(true).
				SetName("PatientStartDate"),
		},
	})
	return err
}

func (r *Repository) Get(ctx context.Context, id string) (*symptoms.Symptom, error) {
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, symptoms.ErrNotFound
	}
	return r.getOne(ctx, bson.M{"_id": objId})
}

func (r *Repository) List(ctx context.Context, filter symptoms.Filter, pagination store.Pagination) ([]*symptoms.Symptom, error) {
	opts := pagination.FindOptions().
		SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "_id", Value: -1}})

	selector := bson.M{
		"patientId": filter.PatientId,
	}
	if filter.Type != nil {
		selector["type"] = *filter.Type
	}
	if filter.OngoingOn != nil {
		selector["startDate"] = bson.M{"$lte": *filter.OngoingOn}
		selector["$or"] = bson.A{
			bson.M{"endDate": bson.M{"$exists": false}},
			bson.M{"endDate": bson.M{"$gte": *filter.OngoingOn}},
		}
	}

	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing symptoms: %w", err)
	}

	result := make([]*symptoms.Symptom, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("error decoding symptoms list: %w", err)
	}

	return result, nil
}

func (r *Repository) Create(ctx context.Context, symptom symptoms.Symptom) (*symptoms.Symptom, error) {
	symptom.Id = nil
	symptom.CreatedTime = time.Now()
	res, err := r.collection.InsertOne(ctx, symptom)
	if store.IsDuplicateKeyError(err) {
		return nil, symptoms.ErrDuplicate
	} else if err != nil {
		return nil, fmt.Errorf("error creating symptom: %w", err)
	}

	return r.getOne(ctx, bson.M{"_id": res.InsertedID.(primitive.ObjectID)})
}

func (r *Repository) Delete(ctx context.Context, id string) (*symptoms.Symptom, error) {
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, symptoms.ErrNotFound
	}

	deleted := &symptoms.Symptom{}
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": objId}).Decode(deleted)
	if err == mongo.ErrNoDocuments {
		return nil, symptoms.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to delete symptom: %w", err)
	}

	return deleted, nil
}

func (r *Repository) getOne(ctx context.Context, selector bson.M) (*symptoms.Symptom, error) {
	symptom := &symptoms.Symptom{}
	err := r.collection.FindOne(ctx, selector).Decode(symptom)
	if err == mongo.ErrNoDocuments {
		return nil, symptoms.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return symptom, nil
}
