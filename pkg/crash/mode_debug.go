//go:build debug

package crash

const defaultMode = ModeDebug
