package cmd

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/templui/dailybible/internal/app"
	"github.com/templui/dailybible/internal/config"
	"github.com/templui/dailybible/internal/devotion"
	"github.com/templui/dailybible/internal/logger"
)

// withApp builds the full app for commands that work on device data.
func withApp(fn func(a *app.App) error) error {
	cfg := config.Load()
	logger.Init(cfg.AppEnv, "")

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}

func TodayCmd() *cobra.Command {
	var deviceID, date string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show a device's checklist and week without changing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				loc := a.DevotionService.Location(deviceID, a.Cfg.Location())
				now := time.Now().In(loc)
				if date != "" {
					t, err := devotion.ParseDateKey(date, loc)
					if err != nil {
						return fmt.Errorf("invalid date %q: %w", date, err)
					}
					now = t.Add(12 * time.Hour)
				}

				printState(cmd, a.DevotionService.Peek(deviceID, now))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&deviceID, "device", "", "device ID")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today in the device's time zone)")
	_ = cmd.MarkFlagRequired("device")

	return cmd
}

func printState(cmd *cobra.Command, s devotion.State) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  (%s)\n", s.DisplayDate, s.Theme)
	fmt.Fprintf(out, "%s\n%s\n\n", s.Devotion.Verse, s.Devotion.Reference)

	for _, task := range s.Tasks {
		mark := " "
		if task.IsCompleted {
			mark = "x"
		}
		fmt.Fprintf(out, "[%s] %s\n", mark, task.Title)
	}

	var week strings.Builder
	for i, letter := range devotion.WeekdayLetters {
		if slices.Contains(s.CompletedDays, i+1) {
			week.WriteString(letter)
		} else {
			week.WriteString(".")
		}
	}
	fmt.Fprintf(out, "\nweek %d/%d  %s  (%d/%d tasks)\n", s.Year, s.Week, week.String(), s.CompletedCount, devotion.TaskCount)
}

func RemindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Send the daily reminder push to every device with open tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				sent, err := a.ReminderService.SendDailyReminders(cmd.Context(), time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d reminders sent\n", sent)
				return nil
			})
		},
	}
}
