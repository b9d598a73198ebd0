package cmd

import (
	"context"
	"fmt"
	"time"

	"clinic-desk/feature/person"

	"github.com/spf13/cobra"
)

var personCmd = &cobra.Command{
	Use:   "person",
	Short: "Inspect the person store",
}

var personNextCodeCmd = &cobra.Command{
	Use:   "next-code",
	Short: "Show the last allocated person and family codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		codes, err := person.NewRepository(rt.stores).LastCodes(ctx)
		if err != nil {
			return fmt.Errorf("failed to read code counter: %w", err)
		}
		return printJSON(struct {
			Last     *person.Codes `json:"last"`
			NextCode int64         `json:"next_pcode"`
		}{Last: codes, NextCode: codes.PCode + 1})
	},
}

func init() {
	personCmd.AddCommand(personNextCodeCmd)
	RootCmd.AddCommand(personCmd)
}
