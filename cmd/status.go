package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/urban-insight/insight-api/internal/urban"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check store connectivity and collection sizes",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		return err
	}
	fmt.Printf("store: %s ok\n", cfg.Store.Driver)

	stops, err := store.ListTransport(ctx)
	if err != nil {
		return err
	}
	hoods, err := store.ListDemographics(ctx, urban.DemographicFilter{})
	if err != nil {
		return err
	}
	restaurants, err := store.ListRestaurants(ctx)
	if err != nil {
		return err
	}
	vacants, err := store.ListVacants(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("transport:     %d\n", len(stops))
	fmt.Printf("demographics:  %d\n", len(hoods))
	fmt.Printf("restaurants:   %d\n", len(restaurants))
	fmt.Printf("vacant locals: %d\n", len(vacants))
	return nil
}
