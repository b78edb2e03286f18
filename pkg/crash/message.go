package crash

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorChoice steuert die Farbausgabe der Benutzer-Meldung
type ColorChoice string

const (
	ColorAuto   ColorChoice = "auto"
	ColorAlways ColorChoice = "always"
	ColorNever  ColorChoice = "never"
)

// PrintMessage gibt die Meldung für den Benutzer aus. Die Meldung wird
// vollständig aufgebaut und in einem Write an w übergeben, der Farb-Reset
// steht immer am Ende des Puffers.
func PrintMessage(w io.Writer, logPath string, meta Metadata, choice ColorChoice) error {
	var body bytes.Buffer
	writeMessage(&body, logPath, meta)

	// Sprint umschließt den Text mit Farbe und Reset oder gibt ihn unverändert zurück
	out := messageColor(w, choice).Sprint(body.String())

	_, err := io.WriteString(w, out)
	return err
}

func writeMessage(buf *bytes.Buffer, logPath string, meta Metadata) {
	name := meta.Name
	fmt.Fprintf(buf, "Well, this is embarrassing.\n\n")
	fmt.Fprintf(buf, "%s had a problem and crashed. To help us diagnose the "+
		"problem you can send us a crash report.\n\n", name)
	fmt.Fprintf(buf, "There is a log file of the crash at \"%s\". Please submit an "+
		"issue or email with the subject of \"%s Crash Report\" and include the "+
		"log as an attachment.\n\n", logPath, name)

	if meta.Homepage != "" {
		fmt.Fprintf(buf, "- Homepage: %s\n", meta.Homepage)
	}
	if meta.Authors != "" {
		fmt.Fprintf(buf, "- Authors: %s\n", meta.Authors)
	}

	fmt.Fprintf(buf, "\nWe take privacy seriously, and do not perform any "+
		"automated error collection. In order to improve the software, we rely on "+
		"people to submit reports.\n\n")
	fmt.Fprintf(buf, "Thank you!\n")
}

// messageColor wählt die Farbe passend zu choice und Ziel aus
func messageColor(w io.Writer, choice ColorChoice) *color.Color {
	c := color.New(color.FgWhite)

	switch choice {
	case ColorAlways:
		c.EnableColor()
	case ColorNever:
		c.DisableColor()
	default:
		if useColor(w) {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return c
}

// useColor: nur auf einem Terminal und wenn NO_COLOR nicht gesetzt ist
func useColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
