package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"humanpanic/pkg/settings"
)

// Version enthält die aktuelle Version von humanpanic
// Wird beim Kompilieren via ldflags gesetzt
var Version = "0.1.0"

// BuildDate wird beim Kompilieren gesetzt (optional, via ldflags)
var BuildDate string = "unknown"

// GitCommit wird beim Kompilieren gesetzt (optional, via ldflags)
var GitCommit string = "unknown"

// versionCmd repräsentiert den version-Befehl
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of humanpanic",
	Long:  `Prints version information including version, build date, git commit and crash log location.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "humanpanic v%s\n", Version)
		if BuildDate != "unknown" {
			fmt.Fprintf(out, "Build date: %s\n", BuildDate)
		}
		if GitCommit != "unknown" {
			fmt.Fprintf(out, "Git commit: %s\n", GitCommit)
		}
		if cfg, _, err := settings.Load(viper.GetViper()); err == nil {
			if path, err := filepath.Abs(cfg.LogPath); err == nil {
				fmt.Fprintf(out, "Crash log: %s\n", path)
			}
		}
	},
	Annotations: map[string]string{noHookAnnotation: ""},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
