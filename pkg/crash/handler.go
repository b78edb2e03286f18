// Package crash fängt Panics ab, schreibt einen Crash-Report in eine
// Log-Datei und zeigt dem Benutzer eine verständliche Meldung.
//
// Verwendung:
//
//	hook, err := crash.Install(crash.DefaultConfig(), meta)
//	...
//	defer crash.Recover()
package crash

import (
	"bytes"
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
)

// ExitCode entspricht dem Exit-Code der Go-Runtime bei einem Panic
const ExitCode = 2

// Handler wird bei jedem abgefangenen Panic aufgerufen
type Handler func(info *PanicInfo)

// active ist der prozessweit aktive Handler. Lock-frei, da der Handler auf
// jeder Goroutine laufen kann.
var active atomic.Pointer[Handler]

// osExit ist in Tests ersetzbar
var osExit = os.Exit

// SetHandler setzt den aktiven Handler; nil setzt DefaultHandler
func SetHandler(h Handler) {
	if h == nil {
		h = DefaultHandler
	}
	active.Store(&h)
}

// TakeHandler entfernt den aktiven Handler, setzt DefaultHandler und liefert
// den bisherigen zurück
func TakeHandler() Handler {
	def := Handler(DefaultHandler)
	prev := active.Swap(&def)
	if prev == nil {
		return DefaultHandler
	}
	return *prev
}

// ActiveHandler liefert den aktuell aktiven Handler
func ActiveHandler() Handler {
	if h := active.Load(); h != nil {
		return *h
	}
	return DefaultHandler
}

// DefaultHandler gibt den Panic so aus wie die Go-Runtime. Der Stack beginnt
// wie bei der Runtime mit dem Aufruf von panic, die Frames von Recover und
// dem Dispatch sind entfernt.
func DefaultHandler(info *PanicInfo) {
	if info.Goroutine != "" {
		_, _ = fmt.Fprintf(os.Stderr, "panic in goroutine %q: %v\n\n%s", info.Goroutine, info.Value, info.Stack)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "panic: %v\n\n%s", info.Value, info.Stack)
}

// Recover ist der globale Crash-Handler, der als defer in main() verwendet wird.
// Nach dem Handler wird der Prozess mit ExitCode beendet.
func Recover() {
	if r := recover(); r != nil {
		dispatch(r, "")
	}
}

// Wrap wickelt eine Goroutine-Funktion mit Panic-Recovery ein
// Verwendung: go crash.Wrap("taskName", func() { ... })()
func Wrap(name string, fn func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				dispatch(r, name)
			}
		}()
		fn()
	}
}

// Go startet eine Goroutine mit automatischem Panic-Recovery
// Verwendung: crash.Go("taskName", func() { ... })
func Go(name string, fn func()) {
	go Wrap(name, fn)()
}

// dispatch sammelt die Panic-Informationen und ruft den aktiven Handler auf.
// Muss direkt aus der Funktion aufgerufen werden, die recover() aufgerufen hat.
func dispatch(value any, goroutine string) {
	info := &PanicInfo{
		Value:     value,
		Record:    NewRecord(value, PanicLocation()),
		Stack:     trimHandlerFrames(debug.Stack()),
		Goroutine: goroutine,
	}

	invoke(ActiveHandler(), info)
	osExit(ExitCode)
}

// invoke ruft den Handler auf. Ein Panic im Handler darf den ursprünglichen
// nicht verschlucken.
func invoke(h Handler, info *PanicInfo) {
	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(os.Stderr, "panic in crash handler: %v\noriginal panic: %v\n\n%s", r, info.Value, info.Stack)
		}
	}()
	h(info)
}

// trimHandlerFrames entfernt aus einem Goroutine-Trace die Frames vor dem
// Aufruf von panic (debug.Stack, dispatch, Recover). Die Kopfzeile bleibt
// erhalten; ohne panic-Frame bleibt der Trace unverändert.
func trimHandlerFrames(stack []byte) []byte {
	header, body, ok := bytes.Cut(stack, []byte("\n"))
	if !ok {
		return stack
	}

	idx := 0
	if !bytes.HasPrefix(body, []byte("panic(")) {
		idx = bytes.Index(body, []byte("\npanic("))
		if idx < 0 {
			return stack
		}
		idx++
	}

	trimmed := make([]byte, 0, len(header)+1+len(body)-idx)
	trimmed = append(trimmed, header...)
	trimmed = append(trimmed, '\n')
	return append(trimmed, body[idx:]...)
}
