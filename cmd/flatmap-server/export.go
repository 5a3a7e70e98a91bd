package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbrnz/flatmap-server/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every stored annotation to stdout as JSON",
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.AnnotationDBPath())
	if err != nil {
		return err
	}
	defer st.Close()

	annotations, err := st.Annotations("", "")
	if err != nil {
		return fmt.Errorf("export annotations: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(annotations)
}
