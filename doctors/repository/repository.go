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

	"github.com/tidepool-org/adherence/doctors"
	"github.com/tidepool-org/adherence/store"
)

func NewRepository(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (doctors.Repository, error) {
	repo := &Repository{
		collection: db.Collection(doctors.CollectionName),
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
				{Key: "userId", Value: 1},
			},
			Options: options.Index().
				SetBackground(true).
				SetUnique(true).
				SetName("UniqueDoctorUserId"),
		},
		{
			Keys: bson.D{
				{Key: "fullName", Value: 1},
			},
			Options: options.Index().
				SetBackground(true).
				SetName("DoctorsByFullName"),
		},
	})
	return err
}

func (r *Repository) Get(ctx context.Context, userId string) (*doctors.Doctor, error) {
	doctor := &doctors.Doctor{}
	err := r.collection.FindOne(ctx, bson.M{"userId": userId}).Decode(doctor)
	if err == mongo.ErrNoDocuments {
		return nil, doctors.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return doctor, nil
}

func (r *Repository) List(ctx context.Context, pagination store.Pagination) ([]*doctors.Doctor, error) {
	opts := pagination.FindOptions().
		SetSort(bson.D{{Key: "fullName", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing doctors: %w", err)
	}

	result := make([]*doctors.Doctor, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("error decoding doctors list: %w", err)
	}

	return result, nil
}

func (r *Repository) Create(ctx context.Context, doctor doctors.Doctor) (*doctors.Doctor, error) {
	doctor.Id = nil
	doctor.CreatedTime = time.Now()
	doctor.UpdatedTime = doctor.CreatedTime
	res, err := r.collection.InsertOne(ctx, doctor)
	if store.IsDuplicateKeyError(err) {
		return nil, doctors.ErrDuplicate
	} else if err != nil {
		return nil, fmt.Errorf("error creating doctor: %w", err)
	}

	created := &doctors.Doctor{}
	if err := r.collection.FindOne(ctx, bson.M{"_id": res.InsertedID.(primitive.ObjectID)}).Decode(created); err != nil {
		return nil, err
	}
	return created, nil
}
