//go:build !debug

package crash

// ohne Build-Tag "debug" verhält sich der Hook wie ein Release-Build
const defaultMode = ModeRelease
