package adherence_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/adherence/adherence"
	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/intakes"
	"github.com/tidepool-org/adherence/therapies"
)

var _ = Describe("Evaluator", func() {
	var clock *calendar.Clock
	var evaluator *adherence.Evaluator
	var today time.Time
	var therapy therapies.Therapy
	var byDay map[time.Time][]*intakes.Intake
	var visited []time.Time

	lookup := func(ctx context.Context, day time.Time) ([]*intakes.Intake, error) {
		visited = append(visited, day)
		return byDay[calendar.Date(day)], nil
	}

	BeforeEach(func() {
		rome, err := time.LoadLocation("Europe/Rome")
		Expect(err).ToNot(HaveOccurred())
		clock = calendar.Fixed(rome, time.Date(2024, time.March, 15, 10, 30, 0, 0, rome))
		evaluator = adherence.NewEvaluator(clock)
		today = clock.Today()
		byDay = map[time.Time][]*intakes.Intake{}
		visited = nil
		therapy = therapies.Therapy{
			PatientId:    "patient",
			DrugName:     "Metformina",
			Dosage:       "500mg",
			DailyIntakes: 2,
			StartDate:    calendar.AddDays(today, -10),
		}
	})

	taken := func(day time.Time) {
		byDay[day] = append(byDay[day], &intakes.Intake{DrugName: "metformina", Dosage: "500 mg"})
	}

	Describe("MissingStreak", func() {
		It("reports three missing days of a continuous therapy", func() {
			streak, err := evaluator.MissingStreak(context.Background(), therapy, lookup)
			Expect(err).ToNot(HaveOccurred())
			Expect(streak.Missing).To(Equal(3))
			Expect(streak.Threshold).To(Equal(3))
			Expect(streak.Continuous).To(BeTrue())
			Expect(streak.Alerting()).To(BeTrue())
			Expect(visited).To(HaveLen(3))
		})

		It("uses the planned days as threshold of a two days therapy", func() {
			end := today
			therapy.StartDate = calendar.AddDays(today, -1)
			therapy.EndDate = &end

			streak, err := evaluator.MissingStreak(context.Background(), therapy, lookup)
			Expect(err).ToNot(HaveOccurred())
			Expect(streak.Threshold).To(Equal(2))
			Expect(streak.Missing).To(Equal(2))
			Expect(streak.Continuous).To(BeFalse())
			Expect(streak.Alerting()).To(BeTrue())
		})

		It("uses one day as threshold of a single day therapy", func() {
			end := today
			therapy.StartDate = today
			therapy.EndDate = &end

			streak, err := evaluator.MissingStreak(context.Background(), therapy, lookup)
			Expect(err).ToNot(HaveOccurred())
			Expect(streak.Threshold).To(Equal(1))
			Expect(streak.Missing).To(Equal(1))
			Expect(streak.Alerting()).To(BeTrue())
		})

		It("doesn't visit days before the start of the therapy", func() {
			therapy.StartDate = calendar.AddDays(today, -1)

			streak, err := evaluator.MissingStreak(context.Background(), therapy, lookup)
			Expect(err).ToNot(HaveOccurred())
			Expect(streak.Threshold).To(Equal(3))
			Expect(streak.Missing).To(Equal(2))
			Expect(streak.Alerting()).To(BeFalse())
			Expect(visited).To(ConsistOf(today, calendar.AddDays(today, -1)))
		})

		It("stops at the first day with a matching intake", func() {
			taken(calendar.AddDays(today, -1))

			streak, err := evaluator.MissingStreak(context.Background(), therapy, lookup)
			Expect(err).ToNot(HaveOccurred())
			Expect(streak.Missing).To(Equal(1))
			Expect(streak.Alerting()).To(BeFalse())
			Expect(visited).To(HaveLen(2))
		})

		It("ignores intakes of other drugs", func() {
			byDay[today] = []*intakes.Intake{{DrugName: "aspirina", Dosage: "100mg"}}

			streak, err := evaluator.MissingStreak(context.Background(), therapy, lookup)
			Expect(err).ToNot(HaveOccurred())
			Expect(streak.Missing).To(Equal(3))
		})

		It("returns an empty streak for an ended therapy", func() {
			end := calendar.AddDays(today, -1)
			therapy.EndDate = &end

			streak, err := evaluator.MissingStreak(context.Background(), therapy, lookup)
			Expect(err).ToNot(HaveOccurred())
			Expect(streak).To(Equal(adherence.Streak{}))
			Expect(streak.Alerting()).To(BeFalse())
			Expect(visited).To(BeEmpty())
		})

		It("returns an empty streak for a therapy starting tomorrow", func() {
			therapy.StartDate = calendar.AddDays(today, 1)

			streak, err := evaluator.MissingStreak(context.Background(), therapy, lookup)
			Expect(err).ToNot(HaveOccurred())
			Expect(streak.Alerting()).To(BeFalse())
		})

		It("returns lookup errors", func() {
			failing := func(ctx context.Context, day time.Time) ([]*intakes.Intake, error) {
				return nil, fmt.Errorf("unavailable")
			}
			_, err := evaluator.MissingStreak(context.Background(), therapy, failing)
			Expect(err).To(MatchError(ContainSubstring("unavailable")))
		})
	})

	Describe("DailyCompleteness", func() {
		It("counts the matching intakes of today", func() {
			list := []*intakes.Intake{
				{DrugName: "metformina", Dosage: "500mg"},
				{DrugName: "aspirina", Dosage: "100mg"},
			}
			c := evaluator.DailyCompleteness(therapy, list)
			Expect(c.Done).To(Equal(1))
			Expect(c.Required).To(Equal(2))
			Expect(c.Remaining()).To(Equal(1))
			Expect(c.IsComplete()).To(BeFalse())
		})

		It("is complete when all the doses were taken", func() {
			taken(today)
			taken(today)
			taken(today)
			c := evaluator.DailyCompleteness(therapy, byDay[today])
			Expect(c.Remaining()).To(Equal(0))
			Expect(c.IsComplete()).To(BeTrue())
		})
	})

	Describe("ReminderMessage", func() {
		It("states the full daily instruction when nothing was taken", func() {
			message := adherence.ReminderMessage(therapy, adherence.Completeness{Done: 0, Required: 2})
			Expect(message).To(Equal("Today you have to take 500mg of Metformina 2 times a day"))
		})

		It("states the full daily instruction of a once a day therapy", func() {
			therapy.DailyIntakes = 1
			message := adherence.ReminderMessage(therapy, adherence.Completeness{Done: 0, Required: 1})
			Expect(message).To(Equal("Today you have to take 500mg of Metformina (once a day)"))
		})

		It("states the remaining doses", func() {
			message := adherence.ReminderMessage(therapy, adherence.Completeness{Done: 1, Required: 3})
			Expect(message).To(Equal("You still have 2 doses of Metformina to take today (1/3 taken)"))
		})

		It("is empty when complete", func() {
			Expect(adherence.ReminderMessage(therapy, adherence.Completeness{Done: 2, Required: 2})).To(BeEmpty())
		})
	})

	Describe("CachedDayIntakes", func() {
		It("looks up each day once", func() {
			cached := adherence.CachedDayIntakes(lookup)
			for i := 0; i < 3; i++ {
				_, err := cached(context.Background(), today)
				Expect(err).ToNot(HaveOccurred())
			}
			Expect(visited).To(HaveLen(1))
		})
	})
})
