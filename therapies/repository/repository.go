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

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/deletions"
	"github.com/tidepool-org/adherence/store"
	"github.com/tidepool-org/adherence/therapies"
)

func NewRepository(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (therapies.Repository, error) {
	deletionsRepo, err := deletions.NewRepository[therapies.Therapy]("therapy", db, logger)
	if err != nil {
		return nil, err
	}

	repo := &Repository{
		client:        db.Client(),
		collection:    db.Collection(therapies.CollectionName),
		logger:        logger,
		deletionsRepo: deletionsRepo,
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := repo.Initialize(ctx); err != nil {
				return err
			}
			return repo.deletionsRepo.Initialize(ctx, []string{"patientId", "drugName"})
		},
	})

	return repo, nil
}

type Repository struct {
	client        *mongo.Client
	collection    *mongo.Collection
	logger        *zap.SugaredLogger
	deletionsRepo deletions.Repository[therapies.Therapy]
}

func (r *Repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "doctorName", Value: 1},
				{Key: "patientId", Value: 1},
				{Key: "drugName", Value: 1},
				{Key: "startDate", Value: 1},
			},
			Options: options.Index().
				SetBackground(true).
				SetUnique(true).
				SetName("UniqueTherapyIdentity"),
		},
		{
			Keys: bson.D{
				{Key: "patientId", Value: 1},
				{Key: "startDate", Value: 1},
				{Key: "endDate", Value: 1},
			},
			Options: options.Index().
				SetBackground(true).
				SetName("TherapiesByPatientPeriod"),
		},
		{
			Keys: bson.D{
				{Key: "doctorId", Value: 1},
			},
			Options: options.Index().
				SetBackground(true).
				SetName("TherapiesByDoctor"),
		},
	})
	return err
}

func (r *Repository) Get(ctx context.Context, id string) (*therapies.Therapy, error) {
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, therapies.ErrNotFound
	}
	return r.getOne(ctx, bson.M{"_id": objId})
}

func (r *Repository) FindByKey(ctx context.Context, key therapies.IdentityKey) (*therapies.Therapy, error) {
	return r.getOne(ctx, bson.M{
		"doctorName": key.DoctorName,
		"patientId":  key.PatientId,
		"drugName":   key.DrugName,
		"startDate":  calendar.Date(key.StartDate),
	})
}

func (r *Repository) List(ctx context.Context, filter therapies.Filter, pagination store.Pagination) ([]*therapies.Therapy, error) {
	opts := pagination.FindOptions().
		SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "drugName", Value: 1}})

	selector := bson.M{}
	if filter.PatientId != nil {
		selector["patientId"] = *filter.PatientId
	}
	if filter.DoctorId != nil {
		selector["doctorId"] = *filter.DoctorId
	}
	if filter.ActiveOn != nil {
		day := calendar.Date(*filter.ActiveOn)
		selector["startDate"] = bson.M{"$lte": day}
		selector["$or"] = bson.A{
			bson.M{"endDate": nil},
			bson.M{"endDate": bson.M{"$gte": day}},
		}
	}

	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing therapies: %w", err)
	}

	result := make([]*therapies.Therapy, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("error decoding therapies list: %w", err)
	}

	return result, nil
}

func (r *Repository) Create(ctx context.Context, therapy therapies.Therapy) (*therapies.Therapy, error) {
	therapy.Id = nil
	therapy.CreatedTime = time.Now()
	therapy.UpdatedTime = therapy.CreatedTime

	res, err := r.collection.InsertOne(ctx, therapy)
	if store.IsDuplicateKeyError(err) {
		return nil, therapies.ErrDuplicate
	} else if err != nil {
		return nil, fmt.Errorf("error creating therapy: %w", err)
	}

	return r.getOne(ctx, bson.M{"_id": res.InsertedID.(primitive.ObjectID)})
}

// Update replaces the mutable fields of the therapy in a single document update. The unique
// identity index rejects an update which would collide with another therapy.
func (r *Repository) Update(ctx context.Context, therapy therapies.Therapy) (*therapies.Therapy, error) {
	if therapy.Id == nil {
		return nil, therapies.ErrNotFound
	}

	set := bson.M{
		"drugName":     therapy.DrugName,
		"dosage":       therapy.Dosage,
		"dailyIntakes": therapy.DailyIntakes,
		"startDate":    calendar.Date(therapy.StartDate),
		"updatedTime":  time.Now(),
	}
	unset := bson.M{}
	setOrUnset(set, unset, "endDate", therapy.EndDate)
	setOrUnset(set, unset, "instructions", therapy.Instructions)
	setOrUnset(set, unset, "notes", therapy.Notes)
	setOrUnset(set, unset, "modifiedBy", therapy.ModifiedBy)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	updated := &therapies.Therapy{}
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": therapy.Id}, update, opts).Decode(updated)
	if err == mongo.ErrNoDocuments {
		return nil, therapies.ErrNotFound
	} else if store.IsDuplicateKeyError(err) {
		return nil, therapies.ErrDuplicate
	} else if err != nil {
		return nil, fmt.Errorf("unable to update therapy: %w", err)
	}

	return updated, nil
}

// Delete archives the therapy and removes it in a single transaction
func (r *Repository) Delete(ctx context.Context, id string, metadata deletions.Metadata) (*therapies.Therapy, error) {
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, therapies.ErrNotFound
	}
	selector := bson.M{"_id": objId}

	result, err := store.WithTransaction(ctx, r.client, func(sessCtx mongo.SessionContext) (interface{}, error) {
		therapy, err := r.getOne(sessCtx, selector)
		if err != nil {
			return nil, err
		}
		if err := r.deletionsRepo.Create(sessCtx, *therapy, metadata); err != nil {
			return nil, err
		}
		res, err := r.collection.DeleteOne(sessCtx, selector)
		if err != nil {
			return nil, fmt.Errorf("unable to delete therapy: %w", err)
		}
		if res.DeletedCount == 0 {
			return nil, therapies.ErrNotFound
		}
		return therapy, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*therapies.Therapy), nil
}

func (r *Repository) getOne(ctx context.Context, selector bson.M) (*therapies.Therapy, error) {
	therapy := &therapies.Therapy{}
	err := r.collection.FindOne(ctx, selector).Decode(therapy)
	if err == mongo.ErrNoDocuments {
		return nil, therapies.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return therapy, nil
}

func setOrUnset[T any](set bson.M, unset bson.M, key string, value *T) {
	if value == nil {
		unset[key] = ""
	} else {
		set[key] = *value
	}
}
