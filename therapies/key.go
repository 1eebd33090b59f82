package therapies

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/errors"
)

const keySeparator = "|"

// IdentityKey is the natural identity of a therapy. The unique index on the therapies
// collection guarantees that at most one therapy has a given key.
type IdentityKey struct {
	DoctorName string
	PatientId  string
	DrugName   string
	StartDate  time.Time
}

func (k IdentityKey) String() string {
	return strings.Join([]string{k.DoctorName, k.PatientId, k.DrugName, calendar.Format(k.StartDate)}, keySeparator)
}

type KeyParseError struct {
	Key    string
	Reason string
}

func (e *KeyParseError) Error() string {
	return fmt.Sprintf("invalid therapy key %q: %s", e.Key, e.Reason)
}

func (e *KeyParseError) Unwrap() error {
	return errors.BadRequest
}

func ParseKey(value string) (IdentityKey, error) {
	parts := strings.Split(value, keySeparator)
	if len(parts) != 4 {
		return IdentityKey{}, &KeyParseError{Key: value, Reason: fmt.Sprintf("expected 4 fields, got %d", len(parts))}
	}
	for i, name := range []string{"doctor name", "patient id", "drug name", "start date"} {
		if strings.TrimSpace(parts[i]) == "" {
			return IdentityKey{}, &KeyParseError{Key: value, Reason: name + " is empty"}
		}
	}
	startDate, err := calendar.Parse(parts[3])
	if err != nil {
		return IdentityKey{}, &KeyParseError{Key: value, Reason: "start date is not formatted as " + calendar.DateLayout}
	}

	return IdentityKey{
		DoctorName: parts[0],
		PatientId:  parts[1],
		DrugName:   parts[2],
		StartDate:  startDate,
	}, nil
}
