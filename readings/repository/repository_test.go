package repository_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/tidepool-org/adherence/readings"
	readingsRepository "github.com/tidepool-org/adherence/readings/repository"
	readingsTest "github.com/tidepool-org/adherence/readings/test"
	"github.com/tidepool-org/adherence/store"
	dbTest "github.com/tidepool-org/adherence/store/test"
	"github.com/tidepool-org/adherence/test"
)

var _ = Describe("Readings Repository", func() {
	var repo readings.Repository
	var collection *mongo.Collection
	var patientId string

	BeforeEach(func() {
		var err error
		database := dbTest.GetTestDatabase()
		collection = database.Collection(readings.CollectionName)
		lifecycle := fxtest.NewLifecycle(GinkgoT())
		repo, err = readingsRepository.NewRepository(database, zap.NewNop().Sugar(), lifecycle)
		Expect(err).ToNot(HaveOccurred())
		lifecycle.RequireStart()

		patientId = test.Faker.UUID().V4()
	})

	AfterEach(func() {
		_, err := collection.DeleteMany(context.Background(), primitive.M{"patientId": patientId})
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("Create", func() {
		It("persists the reading", func() {
			reading := readingsTest.RandomReading(patientId)
			created, err := repo.Create(context.Background(), reading)
			Expect(err).ToNot(HaveOccurred())
			Expect(created.Id).ToNot(BeNil())
			Expect(*created).To(readingsTest.ReadingFieldsMatcher(reading))
			Expect(created.CreatedTime).To(BeTemporally("~", time.Now(), time.Second))
		})

		It("rejects a second reading at the same time", func() {
			reading := readingsTest.RandomReading(patientId)
			_, err := repo.Create(context.Background(), reading)
			Expect(err).ToNot(HaveOccurred())

			_, err = repo.Create(context.Background(), reading)
			Expect(err).To(MatchError(readings.ErrDuplicate))
		})
	})

	Describe("List", func() {
		var all []readings.Reading

		BeforeEach(func() {
			now := time.Now().Truncate(time.Millisecond)
			all = nil
			for i := 0; i < 5; i++ {
				reading := readingsTest.RandomReading(patientId)
				reading.Time = now.Add(-time.Duration(i) * 24 * time.Hour)
				_, err := repo.Create(context.Background(), reading)
				Expect(err).ToNot(HaveOccurred())
				all = append(all, reading)
			}
		})

		It("returns the patient's readings most recent first", func() {
			result, err := repo.List(context.Background(), readings.Filter{PatientId: patientId}, store.DefaultPagination())
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(len(all)))
			for i := range all {
				Expect(*result[i]).To(readingsTest.ReadingFieldsMatcher(all[i]))
			}
		})

		It("filters by time range", func() {
			from := all[2].Time
			to := all[0].Time
			result, err := repo.List(context.Background(), readings.Filter{PatientId: patientId, From: &from, To: &to}, store.DefaultPagination())
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(2))
			Expect(*result[0]).To(readingsTest.ReadingFieldsMatcher(all[1]))
			Expect(*result[1]).To(readingsTest.ReadingFieldsMatcher(all[2]))
		})

		It("returns an empty list for unknown patients", func() {
			result, err := repo.List(context.Background(), readings.Filter{PatientId: test.Faker.UUID().V4()}, store.DefaultPagination())
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(BeEmpty())
		})
	})

	Describe("Delete", func() {
		It("removes the reading and returns it", func() {
			created, err := repo.Create(context.Background(), readingsTest.RandomReading(patientId))
			Expect(err).ToNot(HaveOccurred())

			deleted, err := repo.Delete(context.Background(), created.Id.Hex())
			Expect(err).ToNot(HaveOccurred())
			Expect(deleted.PatientId).To(Equal(patientId))

			_, err = repo.Get(context.Background(), created.Id.Hex())
			Expect(err).To(MatchError(readings.ErrNotFound))
		})

		It("returns not found for unknown ids", func() {
			_, err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
			Expect(err).To(MatchError(readings.ErrNotFound))

			_, err = repo.Delete(context.Background(), "invalid")
			Expect(err).To(MatchError(readings.ErrNotFound))
		})
	})
})
