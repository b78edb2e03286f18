package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"humanpanic/pkg/crash"
	"humanpanic/pkg/settings"
)

var cfgFile string

// hook ist der beim Start installierte Crash-Handler
var hook *crash.Hook

// rootCmd repräsentiert den Basis-Befehl wenn ohne Unterbefehle aufgerufen
var rootCmd = &cobra.Command{
	Use:   "humanpanic",
	Short: "Crash reports for humans",
	Long: `humanpanic turns panics into a crash log for developers and a short,
friendly message for users.

Behaviour:
- release mode: report is appended to the crash log, the user sees a short message
- debug mode:   the Go panic trace is printed first, then the report is logged
- GOTRACEBACK set: only the default Go output is shown

Try it:
  humanpanic crash --message "oops"
  humanpanic crash --kind index --mode debug`,
	SilenceUsage: true,
}

// noHookAnnotation markiert Befehle, die ohne Crash-Handler laufen und
// keine Log-Datei anlegen
const noHookAnnotation = "humanpanic/no-hook"

// Execute fügt alle Unterbefehle zum Root-Befehl hinzu und setzt Flags entsprechend
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// Shutdown entfernt den Crash-Handler nach einem sauberen Lauf
func Shutdown() {
	if hook == nil {
		return
	}
	if err := hook.Uninstall(); err != nil {
		log.WithError(err).Warn("closing crash log failed")
	}
}

func init() {
	// Im init() gesetzt, da installHook auf rootCmd zugreift (Initialisierungszyklus)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !needsHook(cmd) {
			return nil
		}
		return installHook()
	}

	cobra.OnInitialize(initConfig)

	// Globale Flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.humanpanic.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	rootCmd.PersistentFlags().String("log-file", crash.DefaultLogPath, "crash log file")
	rootCmd.PersistentFlags().String("mode", "", "debug or release (default depends on build tags)")
	rootCmd.PersistentFlags().String("color", string(crash.ColorAuto), "color of the crash message (auto, always, never)")

	// Flags an Viper binden
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag(settings.KeyLogFile, rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag(settings.KeyMode, rootCmd.PersistentFlags().Lookup("mode"))
	viper.BindPFlag(settings.KeyColor, rootCmd.PersistentFlags().Lookup("color"))
}

// initConfig liest Konfig-Datei und ENV-Variablen ein falls gesetzt
func initConfig() {
	settings.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".humanpanic")
	}

	// HUMANPANIC_LOG_FILE, HUMANPANIC_ROTATE_MAX_SIZE_MB, ...
	viper.SetEnvPrefix("humanpanic")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if viper.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// needsHook meldet, ob der Befehl den Crash-Handler braucht
func needsHook(cmd *cobra.Command) bool {
	if cmd.Name() == cobra.ShellCompRequestCmd || cmd.Name() == cobra.ShellCompNoDescRequestCmd {
		return false
	}
	_, skip := cmd.Annotations[noHookAnnotation]
	return !skip
}

// installHook installiert den Crash-Handler. Fehler hier sind
// Konfigurationsfehler und beenden den Befehl.
func installHook() error {
	cfg, meta, err := settings.Load(viper.GetViper())
	if err != nil {
		return err
	}

	if meta.Name == "" {
		meta.Name = rootCmd.Name()
	}
	if meta.Version == "" {
		meta.Version = Version
	}

	hook, err = crash.Install(cfg, meta)
	return err
}
