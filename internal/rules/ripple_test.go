package rules_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gridsim/internal/rules"
	"github.com/san-kum/gridsim/internal/stencil"
)

var _ = Describe("Ripple", func() {
	var p *rules.Ripple

	BeforeEach(func() {
		p = rules.NewRipple()
		Expect(p.Bind(4, 4)).To(Succeed())
	})

	It("refuses an empty field", func() {
		Expect(rules.NewRipple().Bind(0, 3)).NotTo(Succeed())
	})

	It("refuses to be shared between engines", func() {
		Expect(p.Bind(4, 4)).NotTo(Succeed())

		shared := rules.NewRipple()
		_, err := stencil.New(5, 5, shared)
		Expect(err).NotTo(HaveOccurred())
		_, err = stencil.New(5, 5, shared)
		Expect(err).To(MatchError(stencil.ErrConfig))
	})

	It("takes the last nonzero neighbor in scan order", func() {
		s := &stencil.Site{Row: 1, Col: 1, Ortho: [4]float64{3, 0, 7, 0}}
		Expect(p.Next(s)).To(Equal(7.0))
		Expect(p.Fired(1, 1)).To(BeTrue())
	})

	It("lets a diagonal neighbor override the orthogonal scan", func() {
		s := &stencil.Site{Row: 1, Col: 2, Ortho: [4]float64{3, 0, 0, 0}, Diag: [4]float64{0, 9, 0, 0}, HasDiag: true}
		Expect(p.Next(s)).To(Equal(9.0))
	})

	It("ignores diagonals when they are not requested", func() {
		s := &stencil.Site{Row: 2, Col: 2, Ortho: [4]float64{3, 0, 0, 0}, Diag: [4]float64{0, 9, 0, 0}}
		Expect(p.Next(s)).To(Equal(3.0))
	})

	It("extinguishes a fired cell on its next visit", func() {
		s := &stencil.Site{Row: 1, Col: 1, Ortho: [4]float64{5, 5, 5, 5}}
		Expect(p.Next(s)).To(Equal(5.0))
		Expect(p.Next(s)).To(Equal(0.0))
		Expect(p.Fired(1, 1)).To(BeFalse())
		Expect(p.Next(s)).To(Equal(5.0))
	})

	It("stays quiet with no active neighbors", func() {
		s := &stencil.Site{Row: 3, Col: 3}
		Expect(p.Next(s)).To(Equal(0.0))
		Expect(p.Active()).To(Equal(0))
	})

	It("treats seeded cells as fired", func() {
		p.Seed(2, 1, 4)
		p.Seed(0, 0, 0)
		p.Seed(9, 9, 1)
		Expect(p.Active()).To(Equal(1))
		Expect(p.Next(&stencil.Site{Row: 2, Col: 1, Center: 4})).To(Equal(0.0))
	})

	It("propagates a pulse one ring per step through the engine", func() {
		e, err := stencil.New(7, 7, rules.NewRipple())
		Expect(err).NotTo(HaveOccurred())
		Expect(e.SetValue(3, 3, 2)).To(Succeed())

		e.Step(true, false)
		snap := e.Snapshot()
		for r := 2; r <= 4; r++ {
			for c := 2; c <= 4; c++ {
				if r == 3 && c == 3 {
					Expect(snap[r][c]).To(BeZero())
					continue
				}
				Expect(snap[r][c]).To(Equal(2.0), "cell (%d,%d)", r, c)
			}
		}

		e.Step(true, false)
		snap = e.Snapshot()
		Expect(snap[1][1]).To(Equal(2.0))
		Expect(snap[5][3]).To(Equal(2.0))
		Expect(snap[2][2]).To(BeZero())
	})
})

var _ = Describe("Average", func() {
	It("has no padding and a stable name", func() {
		a := rules.NewAverage()
		Expect(a.Padding()).To(Equal(0))
		Expect(a.Name()).To(Equal("average"))
	})

	It("sums plain in-bounds neighbors", func() {
		g, err := stencil.NewGrid(2, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Set(0, 1, 10)).To(Succeed())
		Expect(g.Set(1, 1, 20)).To(Succeed())

		s := &stencil.Site{Row: 0, Col: 0, Center: 9, Field: g}
		Expect(rules.NewAverage().Next(s)).To(BeNumerically("~", 1+3, 1e-12))
	})
})
