package crash

import "time"

// SetExitFunc ersetzt os.Exit für Tests und liefert eine Restore-Funktion
func SetExitFunc(f func(int)) func() {
	prev := osExit
	osExit = f
	return func() { osExit = prev }
}

// SetNow ersetzt die Uhr der Log-Einträge
func SetNow(f func() time.Time) func() {
	prev := now
	now = f
	return func() { now = prev }
}

var IsPanicDispatch = isPanicDispatch

var TrimHandlerFrames = trimHandlerFrames
