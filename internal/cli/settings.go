package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"skillplan/internal/model"
	"skillplan/internal/store"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect or change scheduling settings",
	}
	cmd.AddCommand(newSettingsShowCmd())
	cmd.AddCommand(newSettingsSetCmd())
	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current scheduling settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := store.LoadSettings()
			days := make([]string, 0, len(s.AllowedDays))
			for _, d := range s.AllowedDays {
				days = append(days, string(d))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "max hours per day: %d\n", s.MaxHoursPerDay)
			fmt.Fprintf(cmd.OutOrStdout(), "allowed days:      %s\n", strings.Join(days, ","))
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	var maxHours int
	var daysFlag string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update scheduling settings",
		Example: strings.TrimSpace(`
# Three hours a day, Monday/Wednesday/Friday
skillplan settings set --max-hours 3 --days MO,WE,FR
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := store.LoadSettings()

			if cmd.Flags().Changed("max-hours") {
				if maxHours < 1 {
					return fmt.Errorf("--max-hours must be at least 1")
				}
				s.MaxHoursPerDay = maxHours
			}
			if cmd.Flags().Changed("days") {
				var days []model.Weekday
				for _, part := range strings.Split(daysFlag, ",") {
					d := model.Weekday(strings.ToUpper(strings.TrimSpace(part)))
					if !d.Valid() {
						return fmt.Errorf("unknown day code %q (use MO,TU,WE,TH,FR,SA,SU)", part)
					}
					days = append(days, d)
				}
				if len(days) == 0 {
					return fmt.Errorf("--days needs at least one day code")
				}
				s.AllowedDays = days
			}

			if err := store.SaveSettings(s); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "saved")
			return nil
		},
	}

	cmd.Flags().IntVar(&maxHours, "max-hours", 0, "Maximum scheduled hours per day")
	cmd.Flags().StringVar(&daysFlag, "days", "", "Comma-separated weekday codes (MO..SU)")
	return cmd
}
