package crash

import (
	"fmt"
	"strings"
)

const (
	// Breite von "%4d: "
	indexWidth = 6
	// weitere Symbole einer Adresse beginnen unter dem " - " der ersten Zeile
	symbolPadding = indexWidth + HexWidth
	// "at datei:zeile" steht unter dem Funktionsnamen
	locationPadding = symbolPadding + len(" - ")

	unknownMessage  = "Unknown"
	unknownLocation = "Panic location unknown.\n"
	unknownSymbol   = "<unknown>"
	unresolvedFrame = "<unresolved>"
)

// FormatReport erzeugt den Text-Block für die Crash-Log-Datei
func FormatReport(rec Record, frames []Frame) string {
	return FormatTrace(rec, Trace{Frames: frames})
}

// FormatTrace wie FormatReport, zusätzlich mit einer Schlusszeile für
// abgeschnittene Frames
func FormatTrace(rec Record, trace Trace) string {
	var sb strings.Builder

	if rec.Location != nil {
		fmt.Fprintf(&sb, "Panic occurred in file '%s' at line %d\n", rec.Location.File, rec.Location.Line)
	} else {
		sb.WriteString(unknownLocation)
	}

	cause := unknownMessage
	if rec.HasMessage {
		cause = rec.Message
	}
	sb.WriteString("\n   ")
	sb.WriteString(cause)
	sb.WriteString("\n")

	writeFrames(&sb, trace.Frames)
	if trace.Omitted > 0 {
		fmt.Fprintf(&sb, "\n%s... %d more frames", strings.Repeat(" ", indexWidth), trace.Omitted)
	}

	return sb.String()
}

// FormatAddress gibt eine Adresse mit fester Breite aus, damit die Spalten
// untereinander stehen
func FormatAddress(addr uintptr) string {
	return fmt.Sprintf("0x%0*x", HexWidth-2, addr)
}

func writeFrames(sb *strings.Builder, frames []Frame) {
	for idx, frame := range frames {
		fmt.Fprintf(sb, "\n%4d: %s", idx, FormatAddress(frame.Address))

		if len(frame.Symbols) == 0 {
			sb.WriteString(" - " + unresolvedFrame)
			continue
		}

		for i, sym := range frame.Symbols {
			// inlined: mehrere Symbole pro Adresse, jedes auf eigener Zeile
			if i != 0 {
				sb.WriteString("\n" + strings.Repeat(" ", symbolPadding))
			}

			name := sym.Name
			if name == "" {
				name = unknownSymbol
			}
			sb.WriteString(" - " + name)

			if sym.HasLocation() {
				fmt.Fprintf(sb, "\n%sat %s:%d", strings.Repeat(" ", locationPadding), sym.File, sym.Line)
			}
		}
	}
}
