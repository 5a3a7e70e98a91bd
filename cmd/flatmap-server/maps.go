package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/dbrnz/flatmap-server/internal/flatmap"
	"github.com/dbrnz/flatmap-server/internal/logging"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List the servable flatmaps under the flatmap root",
	RunE:  runMaps,
}

func runMaps(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	log := logging.New(logging.Console(), cfg.LogLevel)
	maps, err := flatmap.NewCatalog(cfg.FlatmapRoot, log).Maps()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(maps)
}
