package test

import (
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/onsi/ginkgo/v2"
)

var (
	Faker  = faker.NewWithSeed(Source)
	Rand   = rand.New(Source)
	Source = rand.NewSource(ginkgo.GinkgoRandomSeed())
)

// RecentTime returns a random instant in the last maxMinutes minutes, truncated to the
// precision of the mongo date type
func RecentTime(maxMinutes int) time.Time {
	ago := time.Duration(Faker.IntBetween(1, maxMinutes)) * time.Minute
	return time.Now().Add(-ago).Truncate(time.Millisecond)
}
