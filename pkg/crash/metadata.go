package crash

import "strings"

// Metadata beschreibt das Programm, das abstürzt. Wird bei Install kopiert
// und danach nur noch gelesen.
type Metadata struct {
	Version  string
	Name     string
	Authors  string
	Homepage string
}

// NormalizeAuthors macht aus einer ':'-getrennten Autorenliste
// ("A <a@x>:B <b@x>") eine lesbare Aufzählung ("A <a@x>, B <b@x>").
func NormalizeAuthors(authors string) string {
	return strings.ReplaceAll(authors, ":", ", ")
}
