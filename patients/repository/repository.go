package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/adherence/patients"
	"github.com/tidepool-org/adherence/store"
)

func NewRepository(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (patients.Repository, error) {
	repo := &Repository{
		collection: db.Collection(patients.CollectionName),
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
				SetName("UniquePatientUserId"),
		},
		{
			Keys: bson.D{
				{Key: "doctors", Value: 1},
				{Key: "fullName", Value: 1},
			},
			Options: options.Index().
				SetBackground(true).
				SetName("PatientsByDoctor"),
		},
		{
			Keys: bson.D{
				{Key: "taxCode", Value: 1},
			},
			Options: options.Index().
				SetBackground(true).
				SetUnique(true).
				SetName("UniquePatientTaxCode").
				SetPartialFilterExpression(bson.D{{Key: "taxCode", Value: bson.M{"$exists": true}}}),
		},
	})
	return err
}

func (r *Repository) Get(ctx context.Context, userId string) (*patients.Patient, error) {
	return r.getOne(ctx, bson.M{"userId": userId})
}

func (r *Repository) List(ctx context.Context, filter patients.Filter, pagination store.Pagination) ([]*patients.Patient, error) {
	opts := pagination.FindOptions().
		SetSort(bson.D{{Key: "fullName", Value: 1}, {Key: "userId", Value: 1}})

	selector := bson.M{}
	if filter.DoctorId != nil {
		selector["doctors"] = *filter.DoctorId
	}
	if filter.Search != nil && *filter.Search != "" {
		selector["fullName"] = primitive.Regex{
			Pattern: regexp.QuoteMeta(*filter.Search),
			Options: "i",
		}
	}

	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing patients: %w", err)
	}

	result := make([]*patients.Patient, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("error decoding patients list: %w", err)
	}

	return result, nil
}

func (r *Repository) Create(ctx context.Context, patient patients.Patient) (*patients.Patient, error) {
	patient.Id = nil
	if patient.Doctors == nil {
		patient.Doctors = []string{}
	}
	patient.CreatedTime = time.Now()
	patient.UpdatedTime = patient.CreatedTime

	res, err := r.collection.InsertOne(ctx, patient)
	if store.IsDuplicateKeyError(err) {
		return nil, patients.ErrDuplicate
	} else if err != nil {
		return nil, fmt.Errorf("error creating patient: %w", err)
	}

	return r.getOne(ctx, bson.M{"_id": res.InsertedID.(primitive.ObjectID)})
}

func (r *Repository) Follow(ctx context.Context, userId string, doctorId string, primary bool) (*patients.Patient, error) {
	set := bson.M{
		"updatedTime": time.Now(),
	}
	if primary {
		set["primaryDoctorId"] = doctorId
	}
	update := bson.M{
		"$addToSet": bson.M{
			"doctors": doctorId,
		},
		"$set": set,
	}

	return r.updateOne(ctx, bson.M{"userId": userId}, update, patients.ErrNotFound)
}

// Unfollow removes the doctor from the followers of the patient and clears the primary
// doctor reference in the same update when it points to the same doctor
func (r *Repository) Unfollow(ctx context.Context, userId string, doctorId string) (*patients.Patient, error) {
	selector := bson.M{
		"userId":  userId,
		"doctors": doctorId,
	}
	update := bson.A{
		bson.M{
			"$set": bson.M{
				"doctors": bson.M{
					"$filter": bson.M{
						"input": "$doctors",
						"cond":  bson.M{"$ne": bson.A{"$$this", doctorId}},
					},
				},
				"primaryDoctorId": bson.M{
					"$cond": bson.A{
						bson.M{"$eq": bson.A{"$primaryDoctorId", doctorId}},
						"$$REMOVE",
						"$primaryDoctorId",
					},
				},
				"updatedTime": time.Now(),
			},
		},
	}

	patient, err := r.updateOne(ctx, selector, update, patients.ErrNotFollowing)
	if err == patients.ErrNotFollowing {
		// Distinguish an unknown patient from a doctor who is not following them
		if _, getErr := r.Get(ctx, userId); getErr != nil {
			return nil, getErr
		}
	}
	return patient, err
}

func (r *Repository) UpdateClinicalData(ctx context.Context, userId string, data patients.ClinicalData) (*patients.Patient, error) {
	update := bson.M{
		"$set": bson.M{
			"clinicalData": data,
			"updatedTime":  time.Now(),
		},
	}

	return r.updateOne(ctx, bson.M{"userId": userId}, update, patients.ErrNotFound)
}

func (r *Repository) getOne(ctx context.Context, selector bson.M) (*patients.Patient, error) {
	patient := &patients.Patient{}
	err := r.collection.FindOne(ctx, selector).Decode(patient)
	if err == mongo.ErrNoDocuments {
		return nil, patients.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return patient, nil
}

func (r *Repository) updateOne(ctx context.Context, selector bson.M, update interface{}, notFound error) (*patients.Patient, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	patient := &patients.Patient{}
	err := r.collection.FindOneAndUpdate(ctx, selector, update, opts).Decode(patient)
	if err == mongo.ErrNoDocuments {
		return nil, notFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to update patient: %w", err)
	}

	return patient, nil
}
