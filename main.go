package main

import (
	"humanpanic/cmd"
	"humanpanic/pkg/crash"
)

func main() {
	// Globaler Crash-Handler - fängt alle unbehandelten Panics ab,
	// schreibt den Report ins Crash-Log und zeigt eine kurze Meldung
	defer crash.Recover()

	cmd.Execute()
	cmd.Shutdown()
}
