package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var errorsLimit int

var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Show recent error log entries",
	Long:  `Lists failures recorded while computing averages and tariffs, newest first.`,
	RunE:  runErrors,
}

func init() {
	errorsCmd.Flags().IntVar(&errorsLimit, "limit", 20, "Number of entries to show")
	rootCmd.AddCommand(errorsCmd)
}

func runErrors(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	logs, err := a.db.ListErrors(context.Background(), errorsLimit)
	if err != nil {
		return fmt.Errorf("listing errors: %w", err)
	}

	if len(logs) == 0 {
		fmt.Println("No errors logged")
		return nil
	}

	for _, l := range logs {
		fmt.Printf("#%d  %-16s  %-14s  %s\n", l.ID, l.Title, humanize.Time(l.Creation), l.Message)
	}
	return nil
}
