package rules_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gridsim/internal/rules"
	"github.com/san-kum/gridsim/internal/stencil"
)

var _ = Describe("Heat", func() {
	Describe("construction", func() {
		It("accepts a time step at the stability limit", func() {
			h, err := rules.NewHeat(1.0, 0.25)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Params()).To(Equal(map[string]float64{"diffusivity": 1.0, "dt": 0.25}))
		})

		DescribeTable("rejects unstable or invalid parameters",
			func(d, dt float64) {
				h, err := rules.NewHeat(d, dt)
				Expect(h).To(BeNil())
				Expect(err).To(MatchError(stencil.ErrConfig))
			},
			Entry("dt above 1/(4D)", 1.0, 2.0),
			Entry("barely unstable", 0.2, 1.26),
			Entry("zero diffusivity", 0.0, 0.1),
			Entry("negative diffusivity", -1.0, 0.1),
			Entry("zero time step", 0.5, 0.0),
			Entry("NaN diffusivity", math.NaN(), 0.1),
			Entry("NaN time step", 0.2, math.NaN()),
			Entry("infinite diffusivity", math.Inf(1), 0.1),
			Entry("infinite time step", 0.2, math.Inf(1)),
		)

		It("reports the stability limit", func() {
			Expect(rules.StabilityLimit(0.2)).To(BeNumerically("~", 1.25, 1e-12))
		})
	})

	Describe("Next", func() {
		var h *rules.Heat

		BeforeEach(func() {
			var err error
			h, err = rules.NewHeat(0.2, 1.0)
			Expect(err).NotTo(HaveOccurred())
		})

		It("applies the 5-point Laplacian without diagonals", func() {
			s := &stencil.Site{Center: 10, Ortho: [4]float64{1, 2, 3, 4}}
			Expect(rules.Laplacian(s)).To(BeNumerically("~", -30, 1e-12))
			Expect(h.Next(s)).To(BeNumerically("~", 10+0.2*-30, 1e-12))
		})

		It("applies the 9-point Laplacian with diagonals", func() {
			s := &stencil.Site{
				Center:  6,
				Ortho:   [4]float64{6, 6, 6, 12},
				Diag:    [4]float64{6, 6, 6, 0},
				HasDiag: true,
			}
			// (4*30 + 18 - 120) / 6 = 3
			Expect(rules.Laplacian(s)).To(BeNumerically("~", 3, 1e-12))
			Expect(h.Next(s)).To(BeNumerically("~", 6.6, 1e-12))
		})

		It("leaves a uniform field unchanged", func() {
			s := &stencil.Site{Center: 7, Ortho: [4]float64{7, 7, 7, 7}, Diag: [4]float64{7, 7, 7, 7}, HasDiag: true}
			Expect(h.Next(s)).To(Equal(7.0))
		})
	})

	It("conserves total heat on a periodic domain", func() {
		h, _ := rules.NewHeat(0.2, 1.0)
		e, err := stencil.New(5, 5, h)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.SetValue(2, 2, 100)).To(Succeed())

		for i := 0; i < 25; i++ {
			e.Step(i%2 == 1, true)
		}
		Expect(e.Metric()).To(BeNumerically("~", 100, 1e-9))
	})
})
