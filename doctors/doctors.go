package doctors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/adherence/errors"
	"github.com/tidepool-org/adherence/store"
)

const CollectionName = "doctors"

var (
	ErrNotFound  = fmt.Errorf("doctor %w", errors.NotFound)
	ErrDuplicate = fmt.Errorf("%w: doctor already exists", errors.Duplicate)
)

type Doctor struct {
	Id             *primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserId         string              `bson:"userId" json:"userId"`
	FullName       string              `bson:"fullName" json:"fullName"`
	Specialization *string             `bson:"specialization,omitempty" json:"specialization,omitempty"`
	Phone          *string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedTime    time.Time           `bson:"createdTime" json:"createdTime"`
	UpdatedTime    time.Time           `bson:"updatedTime" json:"updatedTime"`
}

// DisplayName is the name shown to patients and snapshotted on prescribed therapies
func (d Doctor) DisplayName() string {
	return "Dr. " + d.FullName
}

//go:generate mockgen --build_flags=--mod=mod -source=./doctors.go -destination=./test/mock_doctors.go -package test
type Repository interface {
	Get(ctx context.Context, userId string) (*Doctor, error)
	List(ctx context.Context, pagination store.Pagination) ([]*Doctor, error)
	Create(ctx context.Context, doctor Doctor) (*Doctor, error)
}

type Service interface {
	Get(ctx context.Context, userId string) (*Doctor, error)
	List(ctx context.Context, pagination store.Pagination) ([]*Doctor, error)
	Create(ctx context.Context, doctor Doctor) (*Doctor, error)
}

func (d *Doctor) Normalize() error {
	d.UserId = strings.TrimSpace(d.UserId)
	d.FullName = strings.Join(strings.Fields(d.FullName), " ")
	if d.UserId == "" {
		return fmt.Errorf("%w: user id is required", errors.BadRequest)
	}
	if d.FullName == "" {
		return fmt.Errorf("%w: full name is required", errors.BadRequest)
	}
	return nil
}
