package test

import (
	"strings"
	"time"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/patients"
	"github.com/tidepool-org/adherence/pointer"
	"github.com/tidepool-org/adherence/test"
)

func RandomPatient() patients.Patient {
	birthDate := time.Now().AddDate(-test.Faker.IntBetween(18, 90), 0, -test.Faker.IntBetween(0, 364))
	return patients.Patient{
		UserId:    test.Faker.UUID().V4(),
		FullName:  test.Faker.Person().FirstName() + " " + test.Faker.Person().LastName(),
		TaxCode:   pointer.FromAny(strings.ToUpper(test.Faker.Bothify("??????##?##?###?"))),
		BirthDate: pointer.FromAny(calendar.Format(birthDate)),
		Doctors:   []string{},
	}
}
