// Root command for the flatmap-server CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/dbrnz/flatmap-server/internal/paths"
)

// Global flag values.
var (
	flagConfigDir   string
	flagFlatmapRoot string
	flagLogLevel    string
)

var rootCmd = &cobra.Command{
	Use:     "flatmap-server",
	Short:   "A web server for flatmap tile sets and user annotations",
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "",
		"configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagFlatmapRoot, "map-dir", "",
		"top-level directory containing flatmaps (default ./flatmaps)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"log level: debug, info, warn, error (default info)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfigDir returns the configuration directory following the
// precedence chain: --config-dir flag > FLATMAP_CONFIG_DIR env > default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
