package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"clinic-desk/core/logger"
	"clinic-desk/feature/frontdesk"

	"github.com/spf13/cobra"
)

var (
	checkInPCode int64
	checkInDate  string
)

// checkInCmd is the front-desk fallback when the HTTP client is unavailable.
var checkInCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Create or delete a check-in from the command line",
}

var checkInCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Put a patient on the waiting list and open a treatment record",
	Example: `  checkin create --pcode 1 --date 2026-02-11
  checkin create --pcode 1            # today in the clinic time zone`,
	RunE: runCheckInCreate,
}

var checkInDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove a wait entry and the visit's treatment records",
	Example: `  checkin delete --pcode 1 --date 2026-02-11`,
	RunE:    runCheckInDelete,
}

func init() {
	for _, c := range []*cobra.Command{checkInCreateCmd, checkInDeleteCmd} {
		c.Flags().Int64Var(&checkInPCode, "pcode", 0, "Person code")
		c.Flags().StringVar(&checkInDate, "date", "", "Visit date (YYYY-MM-DD or YYYYMMDD), default today")
		_ = c.MarkFlagRequired("pcode")
		checkInCmd.AddCommand(c)
	}
	RootCmd.AddCommand(checkInCmd)
}

func visitDate(cfg frontdesk.Config) string {
	if checkInDate != "" {
		return checkInDate
	}
	return time.Now().In(cfg.Location()).Format("2006-01-02")
}

func runCheckInCreate(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	sync := frontdesk.NewSynchronizer(rt.stores, rt.cfg.FrontDesk, nil, rt.logger)
	checkIn, err := sync.CreateCheckIn(ctx, checkInPCode, visitDate(rt.cfg.FrontDesk))
	if err != nil {
		var partial *frontdesk.PartialCreateError
		if errors.As(err, &partial) {
			rt.logger.Warn("Wait entry kept without treatment record; run reconcile visits --sync to repair",
				logger.Visit(partial.PCode, partial.VisitDate)...)
		}
		return fmt.Errorf("check-in failed: %w", err)
	}
	return printJSON(checkIn)
}

func runCheckInDelete(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	sync := frontdesk.NewSynchronizer(rt.stores, rt.cfg.FrontDesk, nil, rt.logger)
	res, err := sync.DeleteCheckIn(ctx, checkInPCode, visitDate(rt.cfg.FrontDesk))
	if err != nil {
		return fmt.Errorf("check-out failed: %w", err)
	}
	if !res.Cascaded {
		rt.logger.Warn("Treatment records were not removed; run reconcile visits --purge to clean up")
	}
	return printJSON(res)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
