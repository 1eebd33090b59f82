package test

import (
	"github.com/tidepool-org/adherence/doctors"
	"github.com/tidepool-org/adherence/pointer"
	"github.com/tidepool-org/adherence/test"
)

var specializations = []string{"Diabetologia", "Endocrinologia", "Medicina generale", "Cardiologia"}

func RandomDoctor() doctors.Doctor {
	return doctors.Doctor{
		UserId:         test.Faker.UUID().V4(),
		FullName:       test.Faker.Person().FirstName() + " " + test.Faker.Person().LastName(),
		Specialization: pointer.FromAny(test.Faker.RandomStringElement(specializations)),
		Phone:          pointer.FromAny(test.Faker.Phone().Number()),
	}
}
