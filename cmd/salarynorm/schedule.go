package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/salarynorm/internal/scheduler"
)

var scheduleFlags struct {
	projectRoot string
	binary      string
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print a monthly crontab entry",
	Long:  "Prints a crontab line that runs `salarynorm all` at 03:00 on the first of every month.",
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleFlags.projectRoot, "project-root", ".", "project root for the cron command")
	scheduleCmd.Flags().StringVar(&scheduleFlags.binary, "binary", "salarynorm", "binary invoked by cron")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	line, err := scheduler.CronLine(scheduleFlags.projectRoot, scheduleFlags.binary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build cron line: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(line)
	return nil
}
