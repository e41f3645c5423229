package calibration_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/draftbench/takeoff/internal/calibration"
	"github.com/draftbench/takeoff/pkg/logger"
	"github.com/draftbench/takeoff/pkg/models"
)

func calibrationTestLogger() *logger.Logger {
	log := logger.New(
		logger.WithOutput(GinkgoWriter),
		logger.WithPrefix("[calibration-test] "),
		logger.WithFlags(0),
	)
	log.SetVerbose(true)
	return log
}

var _ = Describe("Calibration engine", func() {
	var engine *calibration.Engine

	// 1000x800 base page; rotated base swaps the dimensions.
	baseViewport := func(rotation int) models.ViewportDescriptor {
		if rotation == 90 || rotation == 270 {
			return models.ViewportDescriptor{Width: 800, Height: 1000, Scale: 1, Rotation: rotation}
		}
		return models.ViewportDescriptor{Width: 1000, Height: 800, Scale: 1, Rotation: rotation}
	}

	BeforeEach(func() {
		engine = calibration.NewEngine(baseViewport, calibrationTestLogger())
	})

	It("walks Idle -> AwaitingSecondPoint -> Complete", func() {
		Expect(engine.Begin(10, "ft", models.ScopePage)).To(Succeed())
		Expect(engine.State()).To(Equal(calibration.Idle))

		record, warnings, err := engine.AddPoint(models.DocumentPoint{X: 0.1, Y: 0.5}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(record).To(BeNil())
		Expect(engine.State()).To(Equal(calibration.AwaitingSecondPoint))

		// 0.1 of 1000px base width = 100px apart
		record, warnings, err = engine.AddPoint(models.DocumentPoint{X: 0.2, Y: 0.5}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(record).NotTo(BeNil())
		Expect(engine.State()).To(Equal(calibration.Complete))
		Expect(warnings).To(BeEmpty())

		Expect(record.ScaleFactor).To(BeNumerically("~", 0.1, 1e-12))
		Expect(record.Unit).To(Equal("ft"))
		Expect(record.BaseWidth).To(Equal(1000.0))
		Expect(record.BaseHeight).To(Equal(800.0))
		Expect(record.RotationAtCalibration).To(Equal(0))
		Expect(record.Scope).To(Equal(models.ScopePage))

		// re-derived distance within 1% of the known distance
		Expect(100 * record.ScaleFactor).To(BeNumerically("~", 10, 0.1))
	})

	It("uses the rotated base dimensions when calibrated on a rotated page", func() {
		Expect(engine.Begin(10, "ft", models.ScopeDocument)).To(Succeed())
		_, _, err := engine.AddPoint(models.DocumentPoint{X: 0.5, Y: 0.1}, 90)
		Expect(err).NotTo(HaveOccurred())
		record, _, err := engine.AddPoint(models.DocumentPoint{X: 0.5, Y: 0.2}, 90)
		Expect(err).NotTo(HaveOccurred())

		Expect(record.BaseWidth).To(Equal(800.0))
		Expect(record.BaseHeight).To(Equal(1000.0))
		Expect(record.RotationAtCalibration).To(Equal(90))
		// 0.1 of 1000px base height = 100px
		Expect(record.ScaleFactor).To(BeNumerically("~", 0.1, 1e-12))
	})

	It("normalizes the rotation it records", func() {
		Expect(engine.Begin(5, "m", models.ScopeDocument)).To(Succeed())
		_, _, err := engine.AddPoint(models.DocumentPoint{X: 0.1, Y: 0.1}, -90)
		Expect(err).NotTo(HaveOccurred())
		record, _, err := engine.AddPoint(models.DocumentPoint{X: 0.1, Y: 0.2}, -90)
		Expect(err).NotTo(HaveOccurred())
		Expect(record.RotationAtCalibration).To(Equal(270))
	})

	It("rejects coincident points and resets to Idle", func() {
		Expect(engine.Begin(10, "ft", models.ScopePage)).To(Succeed())
		p := models.DocumentPoint{X: 0.3, Y: 0.3}
		_, _, err := engine.AddPoint(p, 0)
		Expect(err).NotTo(HaveOccurred())

		_, _, err = engine.AddPoint(p, 0)
		Expect(err).To(MatchError(calibration.ErrCoincidentPoints))
		Expect(engine.State()).To(Equal(calibration.Idle))
		Expect(engine.Record()).To(BeNil())
	})

	It("rejects an absurdly large scale factor", func() {
		// points ~0.14px apart with a 10000-unit known distance
		Expect(engine.Begin(10000, "ft", models.ScopePage)).To(Succeed())
		_, _, err := engine.AddPoint(models.DocumentPoint{X: 0.5, Y: 0.5}, 0)
		Expect(err).NotTo(HaveOccurred())
		_, _, err = engine.AddPoint(models.DocumentPoint{X: 0.5001, Y: 0.5}, 0)

		var rangeErr *calibration.RangeError
		Expect(err).To(HaveOccurred())
		Expect(errors.As(err, &rangeErr)).To(BeTrue())
		Expect(rangeErr.ScaleFactor).To(BeNumerically(">", calibration.MaxScaleFactor))
		Expect(engine.State()).To(Equal(calibration.Idle))
	})

	It("rejects an absurdly small scale factor", func() {
		Expect(engine.Begin(0.01, "mm", models.ScopePage)).To(Succeed())
		_, _, err := engine.AddPoint(models.DocumentPoint{X: 0, Y: 0}, 0)
		Expect(err).NotTo(HaveOccurred())
		_, _, err = engine.AddPoint(models.DocumentPoint{X: 1, Y: 0}, 0)

		var rangeErr *calibration.RangeError
		Expect(errors.As(err, &rangeErr)).To(BeTrue())
		Expect(rangeErr.ScaleFactor).To(BeNumerically("<", calibration.MinScaleFactor))
	})

	It("warns when the scale factor is outside the typical drawing range", func() {
		Expect(engine.Begin(500, "ft", models.ScopePage)).To(Succeed())
		_, _, err := engine.AddPoint(models.DocumentPoint{X: 0, Y: 0.5}, 0)
		Expect(err).NotTo(HaveOccurred())
		// 1000px apart, scale factor 0.5 > typical max 0.2
		record, warnings, err := engine.AddPoint(models.DocumentPoint{X: 1, Y: 0.5}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(record).NotTo(BeNil())
		Expect(warnings).To(HaveLen(1))
		Expect(string(warnings[0])).To(ContainSubstring("typical range"))
	})

	It("honors a custom typical range", func() {
		engine = calibration.NewEngine(baseViewport, calibrationTestLogger(),
			calibration.WithTypicalRange(0.4, 0.6))
		Expect(engine.Begin(500, "ft", models.ScopePage)).To(Succeed())
		_, _, err := engine.AddPoint(models.DocumentPoint{X: 0, Y: 0.5}, 0)
		Expect(err).NotTo(HaveOccurred())
		_, warnings, err := engine.AddPoint(models.DocumentPoint{X: 1, Y: 0.5}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(warnings).To(BeEmpty())
	})

	It("refuses points before Begin", func() {
		_, _, err := engine.AddPoint(models.DocumentPoint{X: 0.5, Y: 0.5}, 0)
		Expect(err).To(MatchError(calibration.ErrNotCalibrating))
	})

	It("rejects a non-positive known distance", func() {
		Expect(engine.Begin(0, "ft", models.ScopePage)).NotTo(Succeed())
		Expect(engine.Begin(-3, "ft", models.ScopePage)).NotTo(Succeed())
	})

	It("discards stale points when Begin is called again", func() {
		Expect(engine.Begin(10, "ft", models.ScopePage)).To(Succeed())
		_, _, err := engine.AddPoint(models.DocumentPoint{X: 0.1, Y: 0.1}, 0)
		Expect(err).NotTo(HaveOccurred())

		Expect(engine.Begin(20, "m", models.ScopeDocument)).To(Succeed())
		Expect(engine.State()).To(Equal(calibration.Idle))

		_, _, err = engine.AddPoint(models.DocumentPoint{X: 0.2, Y: 0.5}, 0)
		Expect(err).NotTo(HaveOccurred())
		record, _, err := engine.AddPoint(models.DocumentPoint{X: 0.4, Y: 0.5}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(record.Unit).To(Equal("m"))
		Expect(record.ScaleFactor).To(BeNumerically("~", 0.1, 1e-12))
	})
})

var _ = Describe("Scope resolution", func() {
	It("prefers the page record over the document fallback", func() {
		page := &models.CalibrationRecord{ScaleFactor: 0.1, Scope: models.ScopePage}
		doc := &models.CalibrationRecord{ScaleFactor: 0.2, Scope: models.ScopeDocument}

		Expect(calibration.Resolve(page, doc)).To(Equal(page))
		Expect(calibration.Resolve(nil, doc)).To(Equal(doc))
	})
})
