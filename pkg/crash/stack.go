package crash

import (
	"math/bits"
	"runtime"
	"strings"
)

const (
	// DefaultSkipFrames ist die Anzahl zusätzlicher Frames, die RuntimeWalker
	// nach seinen eigenen Frames verwirft. Die Hook-Frames (Recover, Handler,
	// Process) liegen innerhalb eines Panics vor runtime.gopanic und werden
	// dort ohnehin abgeschnitten, deshalb 0. Wer Capture aus einer anderen
	// Aufrufkette verwendet, muss den Wert neu bestimmen (Config.SkipFrames).
	DefaultSkipFrames = 0

	// walkerFrames: runtime.Callers, RuntimeWalker.walk und RuntimeWalker.Capture
	walkerFrames = 3

	defaultMaxDepth = 64

	// Obergrenze für den rohen Stack; tiefer reicht auch Omitted nicht
	maxCapturedFrames = 1 << 16
)

// HexWidth ist die Breite einer formatierten Adresse inklusive "0x"
const HexWidth = bits.UintSize/8*2 + 2

// Symbol ist eine aufgelöste Funktion zu einer Adresse. Alle Felder sind
// optional, der Nullwert bedeutet "nicht aufgelöst".
type Symbol struct {
	Name string
	File string
	Line int
}

// HasLocation meldet, ob Datei und Zeile bekannt sind
func (s Symbol) HasLocation() bool {
	return s.File != "" && s.Line > 0
}

// Frame ist ein Eintrag im Stack-Trace. Ohne Debug-Informationen bleibt
// Symbols leer.
type Frame struct {
	Address uintptr
	Symbols []Symbol
}

// Trace ist das Ergebnis eines Stack-Walks. Omitted zählt die Frames, die
// wegen MaxDepth nicht in Frames stehen.
type Trace struct {
	Frames  []Frame
	Omitted int
}

// StackWalker erfasst den aktuellen Call-Stack
type StackWalker interface {
	Capture() Trace
}

// RuntimeWalker erfasst den Stack über runtime.Callers
type RuntimeWalker struct {
	// Skip sind Frames, die nach den eigenen Frames des Walkers verworfen werden
	Skip int
	// MaxDepth begrenzt die Anzahl ausgegebener Frames ab dem auslösenden
	// Code (Standard 64), der Rest landet in Trace.Omitted
	MaxDepth int
}

// NewRuntimeWalker erstellt einen Walker mit Standardwerten
func NewRuntimeWalker() *RuntimeWalker {
	return &RuntimeWalker{Skip: DefaultSkipFrames, MaxDepth: defaultMaxDepth}
}

// Capture liefert die Frames vom innersten (nächst am Fehler) zum äußersten.
// Läuft gerade ein Panic, beginnt das Ergebnis beim auslösenden Code.
func (w *RuntimeWalker) Capture() Trace {
	return w.walk()
}

func (w *RuntimeWalker) walk() Trace {
	depth := w.MaxDepth
	if depth <= 0 {
		depth = defaultMaxDepth
	}
	skip := w.Skip
	if skip < 0 {
		skip = 0
	}

	// den ganzen Stack holen, gekürzt wird erst nach dem Abschneiden der
	// Panic-Auslösung
	var pcs []uintptr
	for size := depth * 2; ; size *= 2 {
		pcs = make([]uintptr, size)
		n := runtime.Callers(walkerFrames+skip, pcs)
		if n < size || size >= maxCapturedFrames {
			pcs = pcs[:n]
			break
		}
	}

	pcs = pcs[panicDispatchEnd(pcs):]

	var trace Trace
	if len(pcs) > depth {
		trace.Omitted = len(pcs) - depth
		pcs = pcs[:depth]
	}

	trace.Frames = make([]Frame, 0, len(pcs))
	for _, pc := range pcs {
		trace.Frames = append(trace.Frames, Frame{Address: pc, Symbols: resolve(pc)})
	}

	return trace
}

// resolve löst eine einzelne Adresse auf. Jede Adresse wird für sich
// aufgelöst, damit die Anzahl der Frames der Anzahl der PCs entspricht.
func resolve(pc uintptr) []Symbol {
	var symbols []Symbol

	it := runtime.CallersFrames([]uintptr{pc})
	for {
		fr, more := it.Next()
		if fr.Function != "" || fr.File != "" {
			symbols = append(symbols, Symbol{Name: fr.Function, File: fr.File, Line: fr.Line})
		}
		if !more {
			break
		}
	}

	return symbols
}

// panicDispatchEnd liefert den Index des ersten Frames nach den
// Runtime-Frames, die den Panic ausgelöst haben. Ohne Panic 0.
func panicDispatchEnd(pcs []uintptr) int {
	for i, pc := range pcs {
		if !isPanicDispatch(functionName(pc)) {
			continue
		}
		// weitere Runtime-Frames gehören noch zur Auslösung
		end := i + 1
		for end < len(pcs) && strings.HasPrefix(functionName(pcs[end]), "runtime.") {
			end++
		}
		return end
	}
	return 0
}

func functionName(pc uintptr) string {
	if symbols := resolve(pc); len(symbols) > 0 {
		return symbols[0].Name
	}
	return ""
}
