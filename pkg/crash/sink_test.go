package crash_test

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"humanpanic/pkg/crash"
)

var _ = Describe("Sink", func() {
	var (
		dir     string
		path    string
		restore func()
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		path = filepath.Join(dir, "crash.log")
		restore = crash.SetNow(func() time.Time {
			return time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
		})
	})

	AfterEach(func() {
		restore()
	})

	It("legt die Datei beim Öffnen an", func() {
		sink, err := crash.OpenSink(path, crash.Rotation{})
		Expect(err).NotTo(HaveOccurred())
		defer sink.Close()

		Expect(path).To(BeAnExistingFile())
		Expect(sink.Path()).To(Equal(path))
	})

	It("hängt Einträge unverändert mit Zeit und Level an", func() {
		Expect(os.WriteFile(path, []byte("previous run\n"), 0644)).To(Succeed())

		sink, err := crash.OpenSink(path, crash.Rotation{})
		Expect(err).NotTo(HaveOccurred())
		Expect(sink.Append(crash.PanicTag + "line one\n   \"quoted\"")).To(Succeed())
		Expect(sink.Close()).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("previous run\n" +
			"2024-03-01 12:30:45 [ERROR] Panic! :: line one\n   \"quoted\"\n"))
	})

	It("schreibt über lumberjack wenn Rotation konfiguriert ist", func() {
		sink, err := crash.OpenSink(path, crash.Rotation{MaxSizeMB: 1, MaxBackups: 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(sink.Append("rotated")).To(Succeed())
		Expect(sink.Close()).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.TrimSpace(string(data))).To(HaveSuffix("[ERROR] rotated"))
	})

	It("meldet Fehler beim Öffnen sofort", func() {
		_, err := crash.OpenSink(filepath.Join(dir, "missing", "crash.log"), crash.Rotation{})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("open crash log"))
	})

	It("lehnt einen leeren Pfad ab", func() {
		_, err := crash.OpenSink("  ", crash.Rotation{})
		Expect(err).To(MatchError(crash.ErrEmptyLogPath))
	})

	It("gibt Schreibfehler an den Aufrufer zurück", func() {
		if _, err := os.Stat("/dev/full"); err != nil {
			Skip("/dev/full not available")
		}

		sink, err := crash.OpenSink("/dev/full", crash.Rotation{})
		Expect(err).NotTo(HaveOccurred())
		defer sink.Close()

		Expect(sink.Append("no space")).To(MatchError(ContainSubstring("write crash log /dev/full")))
	})

	It("liefert einen Fehler nach Close statt zu paniken", func() {
		sink, err := crash.OpenSink(path, crash.Rotation{})
		Expect(err).NotTo(HaveOccurred())
		Expect(sink.Close()).To(Succeed())

		Expect(sink.Append("late")).To(MatchError(ContainSubstring("closed")))
		Expect(sink.Close()).To(Succeed())
	})
})
