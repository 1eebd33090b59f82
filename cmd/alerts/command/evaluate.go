package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tidepool-org/adherence/alerts"
	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/report"
)

var evaluateParams = struct {
	SubjectId string
}{}

var doctorCmd = &cobra.Command{
	Use:   "doctor <doctorId>",
	Args:  cobra.ExactArgs(1),
	Short: "Evaluate the alerts of a doctor",
	Long:  "The doctor command evaluates the alerts of all the patients followed by a doctor",
	RunE: func(cmd *cobra.Command, args []string) error {
		evaluateParams.SubjectId = args[0]
		return Run(evaluateDoctor)
	},
}

var patientCmd = &cobra.Command{
	Use:   "patient <patientId>",
	Args:  cobra.ExactArgs(1),
	Short: "Evaluate the reminders of a patient",
	Long:  "The patient command evaluates the reminders shown to a patient today",
	RunE: func(cmd *cobra.Command, args []string) error {
		evaluateParams.SubjectId = args[0]
		return Run(evaluatePatient)
	},
}

func evaluateDoctor(engine alerts.Engine, clock *calendar.Clock) error {
	evaluation := engine.EvaluateForDoctor(context.TODO(), evaluateParams.SubjectId)
	return printEvaluation(os.Stdout, evaluation, clock.Location)
}

func evaluatePatient(engine alerts.Engine, clock *calendar.Clock) error {
	evaluation := engine.EvaluateForPatient(context.TODO(), evaluateParams.SubjectId)
	return printEvaluation(os.Stdout, evaluation, clock.Location)
}

func printEvaluation(out io.Writer, evaluation alerts.Evaluation, location *time.Location) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTIER\tPATIENT\tTITLE\tMESSAGE")
	for _, alert := range evaluation.Alerts {
		when := "-"
		if alert.Time != nil {
			when = alert.Time.In(location).Format(report.TimeFormat)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", when, alert.Tier, alert.PatientName, alert.Title, alert.Message)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Indicator %s, %d alerts", evaluation.Color, len(evaluation.Alerts))
	if evaluation.Failures > 0 {
		fmt.Fprintf(out, ", %d unavailable", evaluation.Failures)
	}
	fmt.Fprintln(out)
	return nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(patientCmd)
}
