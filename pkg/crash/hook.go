package crash

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var (
	installMu sync.Mutex
	installed *Hook

	now = time.Now
)

// Hook ist der installierte Crash-Handler
type Hook struct {
	cfg      Config
	meta     Metadata
	sink     *Sink
	walker   StackWalker
	stderr   io.Writer
	previous Handler
}

// Install richtet den Crash-Handler ein. Ein zweiter Aufruf liefert den
// bereits installierten Hook unverändert zurück.
func Install(cfg Config, meta Metadata) (*Hook, error) {
	installMu.Lock()
	defer installMu.Unlock()

	if installed != nil {
		log.WithField("log_file", installed.sink.Path()).Debug("crash hook already installed")
		return installed, nil
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// die Meldung an den Benutzer nennt den Pfad unabhängig vom Arbeitsverzeichnis
	logPath, err := filepath.Abs(cfg.LogPath)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve log path %s", cfg.LogPath)
	}
	cfg.LogPath = logPath

	sink, err := OpenSink(cfg.LogPath, cfg.Rotation)
	if err != nil {
		return nil, err
	}

	if cfg.CrashOutput {
		if err := redirectCrashOutput(cfg.LogPath); err != nil {
			_ = sink.Close()
			return nil, err
		}
	}

	h := &Hook{
		cfg:    cfg,
		meta:   meta,
		sink:   sink,
		walker: cfg.Walker,
		stderr: cfg.Stderr,
	}
	h.previous = TakeHandler()
	SetHandler(h.Handle)
	installed = h

	log.WithFields(log.Fields{
		"log_file": cfg.LogPath,
		"mode":     cfg.Mode,
		"opt_out":  cfg.BacktraceEnv,
	}).Debug("crash hook installed")

	return h, nil
}

// redirectCrashOutput schreibt fatale Runtime-Fehler zusätzlich in die
// Log-Datei. SetCrashOutput dupliziert den Deskriptor, f kann geschlossen werden.
func redirectCrashOutput(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "open crash output %s", path)
	}
	defer func() { _ = f.Close() }()

	return errors.Wrap(debug.SetCrashOutput(f, debug.CrashOptions{}), "set crash output")
}

// Uninstall stellt den vorherigen Handler wieder her und schließt die Log-Datei
func (h *Hook) Uninstall() error {
	installMu.Lock()
	defer installMu.Unlock()

	if installed != h {
		return nil
	}
	SetHandler(h.previous)
	installed = nil

	var err error
	if h.cfg.CrashOutput {
		err = multierr.Append(err, debug.SetCrashOutput(nil, debug.CrashOptions{}))
	}
	err = multierr.Append(err, h.sink.Close())

	log.WithField("log_file", h.sink.Path()).Debug("crash hook uninstalled")
	return err
}

// LogPath liefert den Pfad der Crash-Log-Datei
func (h *Hook) LogPath() string {
	return h.sink.Path()
}

// Handle ist der registrierte Handler. Fehler werden nur noch best-effort
// auf stderr gemeldet.
func (h *Hook) Handle(info *PanicInfo) {
	if err := h.Process(info); err != nil {
		_, _ = fmt.Fprintf(h.stderr, "crash: %v\n", err)
	}
}

// Process führt die Schritte für einen Panic aus und liefert alle
// aufgetretenen Fehler zusammen zurück
func (h *Hook) Process(info *PanicInfo) error {
	callPrevious := func() error {
		h.previous(info)
		return nil
	}

	if h.optedOut() {
		return guard("previous handler", callPrevious)
	}

	var err error

	// Terminal zurücksetzen, bevor der Handler selbst etwas ausgibt
	if h.cfg.TerminalReset != nil {
		err = multierr.Append(err, guard("reset terminal", func() error {
			h.cfg.TerminalReset()
			return nil
		}))
	}

	if h.cfg.Mode == ModeDebug {
		err = multierr.Append(err, guard("previous handler", callPrevious))
	}

	// Log-Fehler halten die Meldung an den Benutzer nicht auf
	err = multierr.Append(err, guard("write crash log", func() error {
		return h.sink.Append(h.entry(info))
	}))

	if h.cfg.Mode == ModeRelease {
		err = multierr.Append(err, guard("print crash message", func() error {
			return PrintMessage(h.stderr, h.sink.Path(), h.meta, h.cfg.Color)
		}))
	}

	return err
}

// optedOut meldet, ob die Opt-out-Variable gesetzt ist
func (h *Hook) optedOut() bool {
	if h.cfg.BacktraceEnv == "" {
		return false
	}
	_, ok := os.LookupEnv(h.cfg.BacktraceEnv)
	return ok
}

// entry baut den Log-Eintrag: Tag, optional Goroutine-Name, Report
func (h *Hook) entry(info *PanicInfo) string {
	report := FormatTrace(info.Record, h.walker.Capture())
	if info.Goroutine != "" {
		return fmt.Sprintf("Panic! [%s] :: %s", info.Goroutine, report)
	}
	return PanicTag + report
}
