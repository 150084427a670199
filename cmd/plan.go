package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hybridsched/app"
	"hybridsched/config"
	"hybridsched/core/schedule"
)

var planInputPath string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run one planning call over a tasks/calendar/leaves input document",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planInputPath, "input", "i", "-", "input document path, - for stdin")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	in, err := readPlanInput(planInputPath)
	if err != nil {
		return err
	}

	tasks, slots, leaves, startDate, err := in.toDomain()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), fmt.Errorf("invalid input: %w", err))
		os.Exit(3)
	}

	req := schedule.PlanRequest{
		Tasks:         tasks,
		CalendarSlots: slots,
		Leaves:        leaves,
		StartDate:     startDate,
	}

	result, planErr := svc.Plan(context.Background(), req)
	if planErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), planErr)
		os.Exit(exitCodeForError(planErr))
		return nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

func readPlanInput(path string) (planInput, error) {
	if path == "-" {
		return loadPlanInput(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return planInput{}, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()
	return loadPlanInput(f)
}
