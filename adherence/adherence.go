// Package adherence evaluates how closely a patient follows the prescribed therapies.
package adherence

import (
	"context"
	"fmt"
	"time"

	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/intakes"
	"github.com/tidepool-org/adherence/therapies"
)

// DefaultStreakThreshold is the number of consecutive days without a matching intake
// after which a therapy lasting more than two days is reported
const DefaultStreakThreshold = 3

// DayIntakes returns the intakes of the patient logged during the calendar day
type DayIntakes func(ctx context.Context, day time.Time) ([]*intakes.Intake, error)

type Streak struct {
	Missing    int
	Threshold  int
	Continuous bool
}

func (s Streak) Alerting() bool {
	return s.Threshold > 0 && s.Missing >= s.Threshold
}

type Completeness struct {
	Done     int
	Required int
}

func (c Completeness) Remaining() int {
	if c.Done >= c.Required {
		return 0
	}
	return c.Required - c.Done
}

func (c Completeness) IsComplete() bool {
	return c.Remaining() == 0
}

type Evaluator struct {
	clock *calendar.Clock
}

func NewEvaluator(clock *calendar.Clock) *Evaluator {
	return &Evaluator{clock: clock}
}

func (e *Evaluator) Clock() *calendar.Clock {
	return e.clock
}

// Threshold returns the streak length which triggers an alert for the therapy
func Threshold(therapy therapies.Therapy) int {
	if planned, ok := therapy.PlannedDays(); ok && (planned == 1 || planned == 2) {
		return planned
	}
	return DefaultStreakThreshold
}

// MissingStreak counts the consecutive days, today included, without an intake matching
// the therapy. The walk never goes before the start of the therapy and stops at the first
// day with a matching intake. Inactive therapies return an empty streak.
func (e *Evaluator) MissingStreak(ctx context.Context, therapy therapies.Therapy, lookup DayIntakes) (Streak, error) {
	today := e.clock.Today()
	if !therapy.IsActive(today) {
		return Streak{}, nil
	}

	streak := Streak{
		Threshold:  Threshold(therapy),
		Continuous: therapy.IsContinuous(),
	}
	start := calendar.Date(therapy.StartDate)
	for i := 0; i < streak.Threshold; i++ {
		day := calendar.AddDays(today, -i)
		if day.Before(start) {
			break
		}
		list, err := lookup(ctx, day)
		if err != nil {
			return Streak{}, fmt.Errorf("unable to get intakes of %s: %w", calendar.Format(day), err)
		}
		if CountMatching(list, therapy) > 0 {
			break
		}
		streak.Missing++
	}

	return streak, nil
}

// DailyCompleteness counts the intakes of today matching the therapy
func (e *Evaluator) DailyCompleteness(therapy therapies.Therapy, today []*intakes.Intake) Completeness {
	return Completeness{
		Done:     CountMatching(today, therapy),
		Required: therapy.DailyIntakes,
	}
}

// ReminderMessage describes the doses of the therapy still to be taken today. It returns
// an empty string if today's doses are complete.
func ReminderMessage(therapy therapies.Therapy, c Completeness) string {
	remaining := c.Remaining()
	if remaining == 0 {
		return ""
	}
	if c.Done == 0 {
		message := fmt.Sprintf("Today you have to take %s of %s", therapy.Dosage, therapy.DrugName)
		if c.Required > 1 {
			return message + fmt.Sprintf(" %d times a day", c.Required)
		}
		return message + " (once a day)"
	}
	doses := "doses"
	if remaining == 1 {
		doses = "dose"
	}
	message := fmt.Sprintf("You still have %d %s of %s to take today", remaining, doses, therapy.DrugName)
	if c.Required > 1 {
		message += fmt.Sprintf(" (%d/%d taken)", c.Done, c.Required)
	}
	return message
}

// CachedDayIntakes memoizes the lookup per calendar day. It isn't safe for concurrent use.
func CachedDayIntakes(lookup DayIntakes) DayIntakes {
	cache := make(map[time.Time][]*intakes.Intake)
	return func(ctx context.Context, day time.Time) ([]*intakes.Intake, error) {
		day = calendar.Date(day)
		if list, ok := cache[day]; ok {
			return list, nil
		}
		list, err := lookup(ctx, day)
		if err != nil {
			return nil, err
		}
		cache[day] = list
		return list, nil
	}
}
