package models_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/draftbench/takeoff/pkg/models"
)

var _ = Describe("Measurement models", func() {
	Context("MeasurementType", func() {
		DescribeTable("minimum point counts",
			func(t models.MeasurementType, min int) {
				Expect(t.MinPoints()).To(Equal(min))
			},
			Entry("linear needs two", models.TypeLinear, 2),
			Entry("area needs three", models.TypeArea, 3),
			Entry("volume needs three", models.TypeVolume, 3),
			Entry("count needs one", models.TypeCount, 1),
		)
	})

	Context("Measurement", func() {
		It("reports the gross value without cutouts", func() {
			m := models.Measurement{CalculatedValue: 100}
			Expect(m.Net()).To(Equal(100.0))
		})

		It("reports the net value once cutouts exist", func() {
			m := models.Measurement{
				CalculatedValue:    100,
				NetCalculatedValue: 70,
				HasNet:             true,
				Cutouts: []models.Cutout{
					{ID: "c1", CalculatedValue: 20},
					{ID: "c2", CalculatedValue: 10},
				},
			}
			Expect(m.Net()).To(Equal(70.0))
		})
	})
})
