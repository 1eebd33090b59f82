package repository_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/deletions"
	"github.com/tidepool-org/adherence/pointer"
	"github.com/tidepool-org/adherence/store"
	dbTest "github.com/tidepool-org/adherence/store/test"
	"github.com/tidepool-org/adherence/test"
	"github.com/tidepool-org/adherence/therapies"
	therapiesRepository "github.com/tidepool-org/adherence/therapies/repository"
	therapiesTest "github.com/tidepool-org/adherence/therapies/test"
)

var _ = Describe("Therapies Repository", func() {
	var repo therapies.Repository
	var archive deletions.Repository[therapies.Therapy]
	var database *mongo.Database
	var doctorId string
	var patientId string
	var today time.Time

	BeforeEach(func() {
		var err error
		database = dbTest.GetTestDatabase()
		lifecycle := fxtest.NewLifecycle(GinkgoT())
		repo, err = therapiesRepository.NewRepository(database, zap.NewNop().Sugar(), lifecycle)
		Expect(err).ToNot(HaveOccurred())
		lifecycle.RequireStart()

		archive, err = deletions.NewRepository[therapies.Therapy]("therapy", database, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())

		doctorId = test.Faker.UUID().V4()
		patientId = test.Faker.UUID().V4()
		today = calendar.Date(time.Now())
	})

	AfterEach(func() {
		_, err := database.Collection(therapies.CollectionName).DeleteMany(context.Background(), bson.M{"patientId": patientId})
		Expect(err).ToNot(HaveOccurred())
		_, err = database.Collection("therapy_deletions").DeleteMany(context.Background(), bson.M{"document.patientId": patientId})
		Expect(err).ToNot(HaveOccurred())
	})

	create := func(therapy therapies.Therapy) *therapies.Therapy {
		created, err := repo.Create(context.Background(), therapy)
		Expect(err).ToNot(HaveOccurred())
		return created
	}

	Describe("Create", func() {
		It("persists the therapy", func() {
			therapy := therapiesTest.RandomTherapy(doctorId, patientId)
			created := create(therapy)
			Expect(created.Id).ToNot(BeNil())
			Expect(*created).To(therapiesTest.TherapyFieldsMatcher(therapy))
			Expect(created.UpdatedTime).To(Equal(created.CreatedTime))
		})

		It("rejects a therapy with the same identity", func() {
			therapy := therapiesTest.RandomTherapy(doctorId, patientId)
			create(therapy)

			therapy.Dosage = "1000mg"
			therapy.DailyIntakes = 3
			_, err := repo.Create(context.Background(), therapy)
			Expect(err).To(MatchError(therapies.ErrDuplicate))
		})

		It("accepts the same drug prescribed by another doctor", func() {
			therapy := therapiesTest.RandomTherapy(doctorId, patientId)
			create(therapy)

			therapy.DoctorName = "Dr. " + test.Faker.Person().Name()
			_, err := repo.Create(context.Background(), therapy)
			Expect(err).ToNot(HaveOccurred())
		})

		It("accepts the same drug starting on another day", func() {
			therapy := therapiesTest.RandomTherapy(doctorId, patientId)
			create(therapy)

			therapy.StartDate = calendar.AddDays(therapy.StartDate, -1)
			_, err := repo.Create(context.Background(), therapy)
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("FindByKey", func() {
		It("finds the therapy by its identity ignoring the time of day", func() {
			created := create(therapiesTest.RandomTherapy(doctorId, patientId))

			key := created.Key()
			key.StartDate = key.StartDate.Add(15 * time.Hour)
			found, err := repo.FindByKey(context.Background(), key)
			Expect(err).ToNot(HaveOccurred())
			Expect(found.Id).To(Equal(created.Id))
		})

		It("returns not found when a single field differs", func() {
			created := create(therapiesTest.RandomTherapy(doctorId, patientId))

			key := created.Key()
			key.DrugName = key.DrugName + " retard"
			_, err := repo.FindByKey(context.Background(), key)
			Expect(err).To(MatchError(therapies.ErrNotFound))
		})
	})

	Describe("Update", func() {
		It("clears the optional fields which are not set", func() {
			therapy := therapiesTest.RandomTherapy(doctorId, patientId)
			therapy.EndDate = pointer.FromAny(calendar.AddDays(today, 10))
			created := create(therapy)

			created.EndDate = nil
			created.Notes = nil
			created.ModifiedBy = pointer.FromAny("Dr. Anna Bianchi")
			updated, err := repo.Update(context.Background(), *created)
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.EndDate).To(BeNil())
			Expect(updated.Notes).To(BeNil())
			Expect(updated.ModifiedBy).To(Equal(pointer.FromAny("Dr. Anna Bianchi")))
			Expect(updated.UpdatedTime).To(BeTemporally(">=", created.UpdatedTime))
		})

		It("rejects an update colliding with the identity of another therapy", func() {
			first := create(therapiesTest.RandomTherapy(doctorId, patientId))
			other := therapiesTest.RandomTherapy(doctorId, patientId)
			other.DoctorName = first.DoctorName
			other.DrugName = first.DrugName + " retard"
			second := create(other)

			second.DrugName = first.DrugName
			second.StartDate = first.StartDate
			_, err := repo.Update(context.Background(), *second)
			Expect(err).To(MatchError(therapies.ErrDuplicate))
		})
	})

	Describe("List", func() {
		var ended, endingToday, continuous, future *therapies.Therapy

		BeforeEach(func() {
			drugs := []string{"Ramipril", "Metformina", "Gliclazide", "Atorvastatina"}
			periods := []struct {
				start int
				end   *int
			}{
				{start: -10, end: pointer.FromAny(-1)},
				{start: -5, end: pointer.FromAny(0)},
				{start: -30},
				{start: 1},
			}
			var created []*therapies.Therapy
			for i, period := range periods {
				therapy := therapiesTest.RandomTherapy(doctorId, patientId)
				therapy.DrugName = drugs[i]
				therapy.StartDate = calendar.AddDays(today, period.start)
				if period.end != nil {
					therapy.EndDate = pointer.FromAny(calendar.AddDays(today, *period.end))
				}
				created = append(created, create(therapy))
			}
			ended, endingToday, continuous, future = created[0], created[1], created[2], created[3]
		})

		ids := func(list []*therapies.Therapy) []string {
			result := make([]string, 0, len(list))
			for _, therapy := range list {
				result = append(result, therapy.Id.Hex())
			}
			return result
		}

		It("returns the therapies of the patient most recent start first", func() {
			result, err := repo.List(context.Background(), therapies.Filter{PatientId: &patientId}, store.DefaultPagination())
			Expect(err).ToNot(HaveOccurred())
			Expect(ids(result)).To(Equal([]string{future.Id.Hex(), endingToday.Id.Hex(), ended.Id.Hex(), continuous.Id.Hex()}))
		})

		It("returns the therapies active on a day including the last day", func() {
			result, err := repo.List(context.Background(), therapies.Filter{PatientId: &patientId, ActiveOn: &today}, store.DefaultPagination())
			Expect(err).ToNot(HaveOccurred())
			Expect(ids(result)).To(ConsistOf(endingToday.Id.Hex(), continuous.Id.Hex()))
		})

		It("truncates the active day to the calendar date", func() {
			yesterdayEvening := calendar.AddDays(today, -1).Add(22 * time.Hour)
			result, err := repo.List(context.Background(), therapies.Filter{PatientId: &patientId, ActiveOn: &yesterdayEvening}, store.DefaultPagination())
			Expect(err).ToNot(HaveOccurred())
			Expect(ids(result)).To(ConsistOf(ended.Id.Hex(), endingToday.Id.Hex(), continuous.Id.Hex()))
		})

		It("filters by the prescribing doctor", func() {
			result, err := repo.List(context.Background(), therapies.Filter{PatientId: &patientId, DoctorId: pointer.FromAny(test.Faker.UUID().V4())}, store.DefaultPagination())
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(BeEmpty())

			result, err = repo.List(context.Background(), therapies.Filter{DoctorId: &doctorId}, store.DefaultPagination())
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(4))
		})
	})

	Describe("Delete", func() {
		It("archives and removes the therapy", func() {
			created := create(therapiesTest.RandomTherapy(doctorId, patientId))

			deleted, err := repo.Delete(context.Background(), created.Id.Hex(), deletions.Metadata{DeletedByUserId: &doctorId})
			Expect(err).ToNot(HaveOccurred())
			Expect(deleted.Id).To(Equal(created.Id))

			_, err = repo.Get(context.Background(), created.Id.Hex())
			Expect(err).To(MatchError(therapies.ErrNotFound))

			archived, err := archive.List(context.Background(), bson.M{"_id": created.Id})
			Expect(err).ToNot(HaveOccurred())
			Expect(archived).To(HaveLen(1))
			Expect(archived[0].Document).To(therapiesTest.TherapyFieldsMatcher(*created))
			Expect(archived[0].DeletedByUserId).To(Equal(&doctorId))
			Expect(archived[0].DeletedTime).To(BeTemporally("~", time.Now(), time.Second))
		})

		It("releases the identity of the deleted therapy", func() {
			therapy := therapiesTest.RandomTherapy(doctorId, patientId)
			created := create(therapy)
			_, err := repo.Delete(context.Background(), created.Id.Hex(), deletions.Metadata{})
			Expect(err).ToNot(HaveOccurred())

			_, err = repo.Create(context.Background(), therapy)
			Expect(err).ToNot(HaveOccurred())
		})

		It("doesn't archive a therapy twice", func() {
			created := create(therapiesTest.RandomTherapy(doctorId, patientId))
			_, err := repo.Delete(context.Background(), created.Id.Hex(), deletions.Metadata{})
			Expect(err).ToNot(HaveOccurred())

			_, err = repo.Delete(context.Background(), created.Id.Hex(), deletions.Metadata{})
			Expect(err).To(MatchError(therapies.ErrNotFound))

			archived, err := archive.List(context.Background(), bson.M{"_id": created.Id})
			Expect(err).ToNot(HaveOccurred())
			Expect(archived).To(HaveLen(1))
		})

		It("returns not found for invalid ids", func() {
			_, err := repo.Delete(context.Background(), "invalid", deletions.Metadata{})
			Expect(err).To(MatchError(therapies.ErrNotFound))
		})
	})
})
