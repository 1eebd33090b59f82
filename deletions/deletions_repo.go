package deletions

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Metadata struct {
	DeletedByUserId *string `bson:"deletedByUserId,omitempty"`
}

// Deletion is an archived copy of a deleted document of type T
type Deletion[T any] struct {
	Id              primitive.ObjectID `bson:"_id"`
	DeletedTime     time.Time          `bson:"deletedTime"`
	DeletedByUserId *string            `bson:"deletedByUserId,omitempty"`
	Document        T                  `bson:"document"`
}

type Repository[T any] interface {
	Create(context.Context, T, Metadata) error
	CreateMany(context.Context, []T, Metadata) error
	List(ctx context.Context, documentSelector bson.M) ([]Deletion[T], error)
	Initialize(ctx context.Context, primaryKeyAttributes []string) error
}

// NewRepository returns an archive for documents of type typ stored in the <typ>_deletions collection
func NewRepository[T any](typ string, db *mongo.Database, logger *zap.SugaredLogger) (Repository[T], error) {
	repo := &deletionsRepository[T]{
		collection:   db.Collection(fmt.Sprintf("%s_deletions", typ)),
		logger:       logger,
		documentType: typ,
	}

	return repo, nil
}

type deletionsRepository[T any] struct {
	collection   *mongo.Collection
	logger       *zap.SugaredLogger
	documentType string
}

func (p *deletionsRepository[T]) Initialize(ctx context.Context, primaryKeyAttributes []string) error {
	_, err := p.collection.Indexes().CreateMany(ctx, p.getIndexes(primaryKeyAttributes))
	return err
}

func (p *deletionsRepository[T]) getIndexes(primaryKeyAttributes []string) []mongo.IndexModel {
	var primaryIndexKeys bson.D

	for _, attr := range primaryKeyAttributes {
		primaryIndexKeys = append(primaryIndexKeys, primitive.E{
			Key:   fmt.Sprintf("document.%s", attr),
			Value: 1,
		})
	}

	return []mongo.IndexModel{
		{
			Keys:    primaryIndexKeys,
			Options: options.Index().SetName(fmt.Sprintf("%sDeletion", cases.Title(language.English).String(p.documentType))),
		},
		{
			Keys:    append(bson.D{primitive.E{Key: "deletedTime", Value: 1}}, primaryIndexKeys...),
			Options: options.Index().SetName("DeletedTime"),
		},
	}
}

func (p *deletionsRepository[T]) Create(ctx context.Context, deleted T, meta Metadata) error {
	if _, err := p.collection.InsertOne(ctx, p.prepareDocument(deleted, meta)); err != nil {
		return fmt.Errorf("error persisting deleted %s in collection %s: %w", p.documentType, p.collection.Name(), err)
	}
	return nil
}

func (p *deletionsRepository[T]) CreateMany(ctx context.Context, deleted []T, meta Metadata) error {
	if len(deleted) == 0 {
		return nil
	}

	documents := make([]interface{}, 0, len(deleted))
	for _, d := range deleted {
		documents = append(documents, p.prepareDocument(d, meta))
	}

	if _, err := p.collection.InsertMany(ctx, documents); err != nil {
		return fmt.Errorf("error persisting deleted %s objects in collection %s: %w", p.documentType, p.collection.Name(), err)
	}
	return nil
}

// List returns the archived documents matching documentSelector, which is applied to the
// fields of the archived document, most recent deletion first
func (p *deletionsRepository[T]) List(ctx context.Context, documentSelector bson.M) ([]Deletion[T], error) {
	selector := bson.M{}
	for key, value := range documentSelector {
		selector["document."+key] = value
	}

	opts := options.Find().SetSort(bson.D{{Key: "deletedTime", Value: -1}})
	cursor, err := p.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing deleted %s objects: %w", p.documentType, err)
	}

	result := make([]Deletion[T], 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("error decoding deleted %s objects: %w", p.documentType, err)
	}
	return result, nil
}

func (p *deletionsRepository[T]) prepareDocument(deleted T, meta Metadata) Deletion[T] {
	return Deletion[T]{
		Id:              primitive.NewObjectID(),
		DeletedTime:     time.Now(),
		DeletedByUserId: meta.DeletedByUserId,
		Document:        deleted,
	}
}
