package patients

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/errors"
	"github.com/tidepool-org/adherence/store"
)

const CollectionName = "patients"

var (
	ErrNotFound     = fmt.Errorf("patient %w", errors.NotFound)
	ErrDuplicate    = fmt.Errorf("%w: patient already exists", errors.Duplicate)
	ErrNotFollowing = fmt.Errorf("follow relationship %w", errors.NotFound)
	ErrNotAllowed   = fmt.Errorf("%w: only the doctors following the patient can update the clinical data", errors.Forbidden)
)

// Patient is the directory entry of a patient together with the doctors currently following them.
// PrimaryDoctorId, when set, is always one of Doctors.
type Patient struct {
	Id              *primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserId          string              `bson:"userId" json:"userId"`
	FullName        string              `bson:"fullName" json:"fullName"`
	TaxCode         *string             `bson:"taxCode,omitempty" json:"taxCode,omitempty"`
	BirthDate       *string             `bson:"birthDate,omitempty" json:"birthDate,omitempty"`
	Phone           *string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Doctors         []string            `bson:"doctors" json:"doctors"`
	PrimaryDoctorId *string             `bson:"primaryDoctorId,omitempty" json:"primaryDoctorId,omitempty"`
	ClinicalData    *ClinicalData       `bson:"clinicalData,omitempty" json:"clinicalData,omitempty"`
	CreatedTime     time.Time           `bson:"createdTime" json:"createdTime"`
	UpdatedTime     time.Time           `bson:"updatedTime" json:"updatedTime"`
}

// ClinicalData is the medical history of the patient kept by the doctors following them.
// UpdatedBy is the display name of the doctor who last updated it.
type ClinicalData struct {
	RiskFactors     []string  `bson:"riskFactors" json:"riskFactors"`
	PastPathologies []string  `bson:"pastPathologies" json:"pastPathologies"`
	Comorbidities   []string  `bson:"comorbidities" json:"comorbidities"`
	UpdatedBy       string    `bson:"updatedBy" json:"updatedBy"`
	UpdatedTime     time.Time `bson:"updatedTime" json:"updatedTime"`
}

func (c *ClinicalData) Normalize() {
	c.RiskFactors = normalizeEntries(c.RiskFactors)
	c.PastPathologies = normalizeEntries(c.PastPathologies)
	c.Comorbidities = normalizeEntries(c.Comorbidities)
}

// normalizeEntries collapses whitespace and drops blank and repeated entries
func normalizeEntries(entries []string) []string {
	result := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry = strings.Join(strings.Fields(entry), " ")
		if entry != "" && !slices.Contains(result, entry) {
			result = append(result, entry)
		}
	}
	return result
}

func (p Patient) IsFollowedBy(doctorId string) bool {
	return slices.Contains(p.Doctors, doctorId)
}

type Filter struct {
	DoctorId *string
	Search   *string
}

//go:generate mockgen --build_flags=--mod=mod -source=./patients.go -destination=./test/mock_patients.go -package test
type Repository interface {
	Get(ctx context.Context, userId string) (*Patient, error)
	List(ctx context.Context, filter Filter, pagination store.Pagination) ([]*Patient, error)
	Create(ctx context.Context, patient Patient) (*Patient, error)
	Follow(ctx context.Context, userId string, doctorId string, primary bool) (*Patient, error)
	Unfollow(ctx context.Context, userId string, doctorId string) (*Patient, error)
	UpdateClinicalData(ctx context.Context, userId string, data ClinicalData) (*Patient, error)
}

type Service interface {
	Get(ctx context.Context, userId string) (*Patient, error)
	List(ctx context.Context, filter Filter, pagination store.Pagination) ([]*Patient, error)
	Create(ctx context.Context, patient Patient) (*Patient, error)
	Follow(ctx context.Context, userId string, doctorId string, primary bool) (*Patient, error)
	Unfollow(ctx context.Context, userId string, doctorId string) (*Patient, error)
	UpdateClinicalData(ctx context.Context, userId string, doctorId string, data ClinicalData) (*Patient, error)
}

func (p *Patient) Normalize(clock *calendar.Clock) error {
	p.UserId = strings.TrimSpace(p.UserId)
	p.FullName = strings.Join(strings.Fields(p.FullName), " ")
	if p.UserId == "" {
		return fmt.Errorf("%w: user id is required", errors.BadRequest)
	}
	if p.FullName == "" {
		return fmt.Errorf("%w: full name is required", errors.BadRequest)
	}
	if p.TaxCode != nil {
		taxCode := strings.ToUpper(strings.TrimSpace(*p.TaxCode))
		p.TaxCode = &taxCode
	}
	if p.BirthDate != nil {
		birthDate, err := calendar.Parse(*p.BirthDate)
		if err != nil {
			return fmt.Errorf("%w: invalid birth date", errors.BadRequest)
		}
		if birthDate.After(clock.Today()) {
			return fmt.Errorf("%w: birth date cannot be in the future", errors.BadRequest)
		}
	}

	// Follow relationships and clinical data are managed with their own operations
	p.Doctors = []string{}
	p.PrimaryDoctorId = nil
	p.ClinicalData = nil
	return nil
}
