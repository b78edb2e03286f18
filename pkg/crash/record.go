package crash

import (
	"fmt"
	"runtime"
	"strings"
)

// Location ist die Quellposition, an der ein Panic ausgelöst wurde
type Location struct {
	File string
	Line int
}

// Record enthält die aus einem Panic extrahierten Informationen.
// Message ist nur gültig wenn HasMessage gesetzt ist, Location ist nil
// wenn die Position nicht bestimmt werden konnte.
type Record struct {
	Message    string
	HasMessage bool
	Location   *Location
}

// PanicInfo wird an jeden Handler übergeben
type PanicInfo struct {
	// Value ist der an panic() übergebene Wert
	Value any
	Record
	// Stack ist der Goroutine-Trace im Format von runtime/debug.Stack
	Stack []byte
	// Goroutine ist der Name aus Go/Wrap, leer für main
	Goroutine string
}

// NewRecord extrahiert die Nachricht aus einem Panic-Wert.
// Strings, errors und fmt.Stringer gelten als Nachricht, alles andere nicht.
func NewRecord(value any, loc *Location) Record {
	rec := Record{Location: loc}

	switch v := value.(type) {
	case string:
		rec.Message, rec.HasMessage = v, true
	case error:
		rec.Message, rec.HasMessage = v.Error(), true
	case fmt.Stringer:
		rec.Message, rec.HasMessage = v.String(), true
	}

	return rec
}

// PanicLocation sucht auf dem aktuellen Stack die Stelle, an der der laufende
// Panic ausgelöst wurde. Liefert nil außerhalb eines Panics.
func PanicLocation() *Location {
	pcs := make([]uintptr, defaultMaxDepth)
	n := runtime.Callers(2, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	inDispatch := false
	for {
		fr, more := frames.Next()
		switch {
		case isPanicDispatch(fr.Function):
			inDispatch = true
		case inDispatch && !strings.HasPrefix(fr.Function, "runtime."):
			if fr.File == "" {
				return nil
			}
			return &Location{File: fr.File, Line: fr.Line}
		}
		if !more {
			return nil
		}
	}
}

// isPanicDispatch erkennt die Runtime-Frames zwischen dem Hook und dem
// Code, der den Panic ausgelöst hat
func isPanicDispatch(function string) bool {
	if function == "runtime.gopanic" || function == "runtime.sigpanic" ||
		function == "runtime.panicmem" || function == "runtime.panicmemAddr" {
		return true
	}
	return strings.HasPrefix(function, "runtime.goPanic") ||
		strings.HasPrefix(function, "runtime.panic")
}
