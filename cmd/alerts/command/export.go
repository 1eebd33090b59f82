package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tidepool-org/adherence/alerts"
	"github.com/tidepool-org/adherence/calendar"
	"github.com/tidepool-org/adherence/doctors"
	"github.com/tidepool-org/adherence/report"
)

var exportParams = struct {
	DoctorId string
	Path     string
}{}

var exportCmd = &cobra.Command{
	Use:   "export <doctorId> <file>",
	Args:  cobra.ExactArgs(2),
	Short: "Export the alerts of a doctor",
	Long:  "The export command writes the alert panel of a doctor to an xlsx file",
	RunE: func(cmd *cobra.Command, args []string) error {
		exportParams.DoctorId = args[0]
		exportParams.Path = args[1]
		return Run(exportAlerts)
	},
}

func exportAlerts(engine alerts.Engine, doctorsService doctors.Service, clock *calendar.Clock) error {
	ctx := context.TODO()
	doctor, err := doctorsService.Get(ctx, exportParams.DoctorId)
	if errors.Is(err, doctors.ErrNotFound) {
		return fmt.Errorf("doctor %s doesn't exist", exportParams.DoctorId)
	} else if err != nil {
		return err
	}

	evaluation := engine.EvaluateForDoctor(ctx, exportParams.DoctorId)
	file, err := report.NewReport(doctor.DisplayName(), evaluation, clock.Location).Generate()
	if err != nil {
		return err
	}
	if err := file.Save(exportParams.Path); err != nil {
		return err
	}

	fmt.Printf("Exported %d alerts to %s\n", len(evaluation.Alerts), exportParams.Path)
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
