package crash

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// PanicTag steht vor jedem Report in der Log-Datei
const PanicTag = "Panic! :: "

// Rotation konfiguriert die optionale Größen-Rotation der Log-Datei.
// Mit MaxSizeMB == 0 wird nur angehängt.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Sink hängt Crash-Reports an die Log-Datei an
type Sink struct {
	path      string
	mu        sync.Mutex
	out       io.WriteCloser
	formatter logrus.Formatter
	logger    *logrus.Logger
}

// OpenSink öffnet die Log-Datei zum Anhängen. Ein Fehler hier ist ein
// Konfigurationsfehler und soll beim Start auffallen.
func OpenSink(path string, rotation Rotation) (*Sink, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyLogPath
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open crash log %s", path)
	}

	var out io.WriteCloser = f
	if rotation.MaxSizeMB > 0 {
		// lumberjack öffnet selbst, die Datei diente nur der Prüfung
		_ = f.Close()
		out = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    rotation.MaxSizeMB,
			MaxBackups: rotation.MaxBackups,
			MaxAge:     rotation.MaxAgeDays,
			Compress:   rotation.Compress,
		}
	}

	return &Sink{
		path:      path,
		out:       out,
		formatter: &reportFormatter{},
		logger:    logrus.New(),
	}, nil
}

// Path liefert den Pfad der Log-Datei
func (s *Sink) Path() string {
	return s.path
}

// Append schreibt einen Report als ERROR-Eintrag. Der Eintrag wird selbst
// formatiert und geschrieben, da logger.Error Schreibfehler nur ausgibt und
// nicht zurückliefert.
func (s *Sink) Append(report string) error {
	entry := logrus.NewEntry(s.logger)
	entry.Level = logrus.ErrorLevel
	entry.Message = report
	entry.Time = now()

	line, err := s.formatter.Format(entry)
	if err != nil {
		return errors.Wrap(err, "format crash log entry")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.out == nil {
		return errors.New("crash log is closed")
	}
	if _, err := s.out.Write(line); err != nil {
		return errors.Wrapf(err, "write crash log %s", s.path)
	}
	return nil
}

// Close schließt die Log-Datei
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.out == nil {
		return nil
	}
	err := s.out.Close()
	s.out = nil
	return err
}

// reportFormatter schreibt Einträge wie "2006-01-02 15:04:05 [ERROR] <msg>".
// Der Report bleibt unverändert (keine Quotes), damit man ihn greppen kann.
type reportFormatter struct{}

func (f *reportFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
	b.WriteString(" [")
	b.WriteString(strings.ToUpper(entry.Level.String()))
	b.WriteString("] ")
	b.WriteString(entry.Message)
	b.WriteString("\n")
	return b.Bytes(), nil
}
