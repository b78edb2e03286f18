package crash_test

import (
	"regexp"
	"strconv"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"humanpanic/pkg/crash"
)

var frameLine = regexp.MustCompile(`(?m)^\s*(\d+): 0x[0-9a-f]+ - `)

var _ = Describe("FormatReport", func() {
	var frames []crash.Frame

	BeforeEach(func() {
		frames = []crash.Frame{
			{Address: 0x401000, Symbols: []crash.Symbol{{Name: "main.run", File: "/src/app/run.go", Line: 42}}},
			{Address: 0x402000},
			{Address: 0x403000, Symbols: []crash.Symbol{
				{Name: "main.inlined", File: "/src/app/inline.go", Line: 7},
				{Name: "main.outer", File: "/src/app/outer.go", Line: 9},
			}},
			{Address: 0x404000, Symbols: []crash.Symbol{{}}},
		}
	})

	Context("mit Nachricht und Position", func() {
		It("enthält Nachricht und Position genau einmal", func() {
			rec := crash.Record{
				Message:    "index out of range",
				HasMessage: true,
				Location:   &crash.Location{File: "/src/app/main.go", Line: 17},
			}

			report := crash.FormatReport(rec, frames)

			Expect(strings.Count(report, "index out of range")).To(Equal(1))
			Expect(strings.Count(report, "Panic occurred in file '/src/app/main.go' at line 17\n")).To(Equal(1))
			Expect(strings.Count(report, "/src/app/run.go:42")).To(Equal(1))
			Expect(report).To(HavePrefix("Panic occurred in file '/src/app/main.go' at line 17\n\n   index out of range\n"))
		})
	})

	Context("ohne Nachricht und Position", func() {
		It("setzt Platzhalter ein", func() {
			report := crash.FormatReport(crash.Record{}, nil)

			Expect(report).To(Equal("Panic location unknown.\n\n   Unknown\n"))
		})
	})

	Describe("Frames", func() {
		It("gibt jeden Frame mit aufsteigendem Index aus", func() {
			report := crash.FormatReport(crash.Record{}, frames)

			matches := frameLine.FindAllStringSubmatch(report, -1)
			Expect(matches).To(HaveLen(len(frames)))
			for i, m := range matches {
				Expect(m[1]).To(Equal(strconv.Itoa(i)))
			}
		})

		It("markiert Frames ohne Symbole als unresolved", func() {
			report := crash.FormatReport(crash.Record{}, frames[1:2])

			Expect(report).To(HaveSuffix("\n   0: " + crash.FormatAddress(0x402000) + " - <unresolved>"))
			Expect(report).NotTo(ContainSubstring("<unknown>"))
			Expect(report).NotTo(ContainSubstring(" at "))
		})

		It("gibt unbekannte Symbolnamen als <unknown> aus", func() {
			report := crash.FormatReport(crash.Record{}, frames[3:])

			Expect(report).To(HaveSuffix(" - <unknown>"))
		})

		It("richtet weitere Symbole und Positionen unter dem Namen aus", func() {
			report := crash.FormatReport(crash.Record{}, frames[2:3])
			lines := strings.Split(report, "\n")
			block := lines[len(lines)-4:]

			nameCol := strings.Index(block[0], "main.inlined")
			Expect(strings.Index(block[1], "at /src/app/inline.go:7")).To(Equal(nameCol))
			Expect(strings.Index(block[2], "main.outer")).To(Equal(nameCol))
			Expect(strings.Index(block[3], "at /src/app/outer.go:9")).To(Equal(nameCol))
		})
	})

	Describe("FormatTrace", func() {
		It("schließt mit der Anzahl abgeschnittener Frames", func() {
			report := crash.FormatTrace(crash.Record{}, crash.Trace{Frames: frames[:1], Omitted: 36})

			Expect(report).To(HaveSuffix("\n      ... 36 more frames"))
			Expect(frameLine.FindAllString(report, -1)).To(HaveLen(1))
		})

		It("entspricht FormatReport ohne abgeschnittene Frames", func() {
			Expect(crash.FormatTrace(crash.Record{}, crash.Trace{Frames: frames})).
				To(Equal(crash.FormatReport(crash.Record{}, frames)))
			Expect(crash.FormatReport(crash.Record{}, frames)).NotTo(ContainSubstring("more frames"))
		})
	})

	It("ist deterministisch", func() {
		rec := crash.Record{Message: "boom", HasMessage: true}
		Expect(crash.FormatReport(rec, frames)).To(Equal(crash.FormatReport(rec, frames)))
	})
})

var _ = Describe("FormatAddress", func() {
	It("hat immer die gleiche Breite", func() {
		Expect(crash.FormatAddress(0x1)).To(HaveLen(crash.HexWidth))
		Expect(crash.FormatAddress(^uintptr(0))).To(HaveLen(crash.HexWidth))
		Expect(crash.FormatAddress(0xabc)).To(HavePrefix("0x"))
		Expect(crash.FormatAddress(0xabc)).To(HaveSuffix("abc"))
	})
})
