package crash_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"humanpanic/pkg/crash"
)

var _ = Describe("Config", func() {
	It("hat brauchbare Standardwerte", func() {
		cfg := crash.DefaultConfig()

		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.LogPath).To(Equal(crash.DefaultLogPath))
		Expect(cfg.BacktraceEnv).To(Equal(crash.DefaultBacktraceEnv))
		Expect(cfg.SkipFrames).To(Equal(crash.DefaultSkipFrames))
		Expect(cfg.Color).To(Equal(crash.ColorAuto))
	})

	It("lehnt einen leeren Log-Pfad ab", func() {
		cfg := crash.DefaultConfig()
		cfg.LogPath = ""
		Expect(cfg.Validate()).To(MatchError(crash.ErrEmptyLogPath))
	})

	It("lehnt unbekannte Farben ab", func() {
		cfg := crash.DefaultConfig()
		cfg.Color = "rainbow"
		Expect(cfg.Validate()).To(MatchError(crash.ErrInvalidColor))
	})

	DescribeTable("ParseMode",
		func(in string, expected crash.Mode) {
			m, err := crash.ParseMode(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(Equal(expected))
		},
		Entry("debug", "debug", crash.ModeDebug),
		Entry("Groß/Klein", " RELEASE ", crash.ModeRelease),
	)

	It("meldet ungültige Modi und Farben", func() {
		_, err := crash.ParseMode("staging")
		Expect(err).To(MatchError(crash.ErrInvalidMode))

		_, err = crash.ParseColorChoice("sometimes")
		Expect(err).To(MatchError(crash.ErrInvalidColor))
	})

	It("liest Farbwerte", func() {
		c, err := crash.ParseColorChoice("Never")
		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(crash.ColorNever))
	})
})
