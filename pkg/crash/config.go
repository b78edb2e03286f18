package crash

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Mode entscheidet, was der Hook bei einem Panic ausgibt
type Mode string

const (
	// ModeDebug ruft zuerst den vorherigen Handler (Go-Trace auf stderr) auf
	// und schreibt danach ins Log
	ModeDebug Mode = "debug"
	// ModeRelease schreibt ins Log und zeigt dem Benutzer eine kurze Meldung
	ModeRelease Mode = "release"
)

// DefaultBacktraceEnv: ist die Variable gesetzt, verhält sich der Hook wie
// der Standard-Handler
const DefaultBacktraceEnv = "GOTRACEBACK"

// DefaultLogPath ist die Crash-Log-Datei im aktuellen Verzeichnis
const DefaultLogPath = "crash.log"

// Config konfiguriert Install
type Config struct {
	LogPath string
	Mode    Mode
	// BacktraceEnv ist der Name der Opt-out-Variable, leer deaktiviert den Opt-out
	BacktraceEnv string
	Color        ColorChoice
	SkipFrames   int
	MaxDepth     int
	Rotation     Rotation
	// CrashOutput leitet auch fatale Runtime-Fehler aus Goroutinen ohne
	// Recover in die Log-Datei (runtime/debug.SetCrashOutput)
	CrashOutput bool

	// Walker ersetzt den RuntimeWalker, z.B. in Tests
	Walker StackWalker
	// Stderr ist das Ziel der Benutzer-Meldung (Standard os.Stderr)
	Stderr io.Writer
	// TerminalReset wird vor jeder Ausgabe aufgerufen, z.B. um eine TUI zu beenden
	TerminalReset func()
}

// DefaultConfig liefert die Standard-Konfiguration
func DefaultConfig() Config {
	return Config{
		LogPath:      DefaultLogPath,
		Mode:         defaultMode,
		BacktraceEnv: DefaultBacktraceEnv,
		Color:        ColorAuto,
		SkipFrames:   DefaultSkipFrames,
		MaxDepth:     defaultMaxDepth,
	}
}

// ParseMode wandelt "debug"/"release" in einen Mode
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeDebug, ModeRelease:
		return m, nil
	case "":
		return defaultMode, nil
	default:
		return "", errors.Wrapf(ErrInvalidMode, "%q", s)
	}
}

// ParseColorChoice wandelt "auto"/"always"/"never" in eine ColorChoice
func ParseColorChoice(s string) (ColorChoice, error) {
	switch c := ColorChoice(strings.ToLower(strings.TrimSpace(s))); c {
	case ColorAuto, ColorAlways, ColorNever:
		return c, nil
	case "":
		return ColorAuto, nil
	default:
		return "", errors.Wrapf(ErrInvalidColor, "%q", s)
	}
}

// Validate prüft die Konfiguration
func (c Config) Validate() error {
	if strings.TrimSpace(c.LogPath) == "" {
		return ErrEmptyLogPath
	}
	if c.Mode != ModeDebug && c.Mode != ModeRelease {
		return errors.Wrapf(ErrInvalidMode, "%q", c.Mode)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Wrapf(ErrInvalidColor, "%q", c.Color)
	}
	return nil
}

// withDefaults füllt leere Felder auf
func (c Config) withDefaults() Config {
	if c.Mode == "" {
		c.Mode = defaultMode
	}
	if c.Color == "" {
		c.Color = ColorAuto
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = defaultMaxDepth
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if c.Walker == nil {
		c.Walker = &RuntimeWalker{Skip: c.SkipFrames, MaxDepth: c.MaxDepth}
	}
	return c
}
