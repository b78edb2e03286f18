package crash

import "github.com/pkg/errors"

var (
	// ErrEmptyLogPath: keine Log-Datei konfiguriert
	ErrEmptyLogPath = errors.New("crash log path is empty")
	// ErrInvalidMode: Modus ist weder debug noch release
	ErrInvalidMode = errors.New("invalid build mode")
	// ErrInvalidColor: unbekannte Farbauswahl
	ErrInvalidColor = errors.New("invalid color choice")
)

// guard führt einen Schritt des Handlers aus. Ein Panic im Schritt wird zum
// Fehler, damit er den ursprünglichen Panic nicht überdeckt.
func guard(step string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("%s: panic: %v", step, r)
		}
	}()

	if e := fn(); e != nil {
		return errors.Wrap(e, step)
	}
	return nil
}
