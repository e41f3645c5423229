package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/draftbench/takeoff/internal/calibration"
	"github.com/draftbench/takeoff/internal/session"
	"github.com/draftbench/takeoff/internal/sheet"
	"github.com/draftbench/takeoff/internal/store"
	"github.com/draftbench/takeoff/internal/takeoff"
	"github.com/draftbench/takeoff/pkg/logger"
	"github.com/draftbench/takeoff/pkg/models"
	"github.com/draftbench/takeoff/pkg/units"
)

var (
	measureType     string
	measurePage     int
	measurePoints   string
	calibratePoints string
	knownDistance   float64
	measureUnit     string
	measureDepth    float64
	withPerimeter   bool
	cutoutPoints    []string
	feetInches      bool
)

var measureCmd = &cobra.Command{
	Use:   "measure [file]",
	Short: "Run a scripted takeoff on a PDF page",
	Long: `Calibrate from two document-space points and a known distance, then measure
a point set on the same page. Points are document-space coordinates in [0,1],
relative to the unrotated page.`,
	Args: cobra.ExactArgs(1),
	Run:  runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)

	measureCmd.Flags().StringVar(&measureType, "type", "linear", "measurement type: linear, area, volume or count")
	measureCmd.Flags().IntVar(&measurePage, "page", 1, "page number (from 1)")
	measureCmd.Flags().StringVar(&measurePoints, "points", "", "measurement points as x,y;x,y;...")
	measureCmd.Flags().StringVar(&calibratePoints, "calibrate", "", "two calibration points as x,y;x,y")
	measureCmd.Flags().Float64Var(&knownDistance, "known-distance", 0, "real-world distance between the calibration points")
	measureCmd.Flags().StringVar(&measureUnit, "unit", "", "real-world unit (defaults from config)")
	measureCmd.Flags().Float64Var(&measureDepth, "depth", 0, "extrusion depth for volume measurements")
	measureCmd.Flags().BoolVar(&withPerimeter, "perimeter", false, "also report the perimeter for areas")
	measureCmd.Flags().StringArrayVar(&cutoutPoints, "cutout", nil, "cutout polygon as x,y;x,y;x,y (repeatable)")
	measureCmd.Flags().BoolVar(&feetInches, "feet-inches", false, "display lengths as feet and inches")

	measureCmd.MarkFlagRequired("points")
	measureCmd.MarkFlagRequired("calibrate")
	measureCmd.MarkFlagRequired("known-distance")
}

func runMeasure(cmd *cobra.Command, args []string) {
	log := newLogger()
	cfg := loadConfig(log)

	if measureUnit == "" {
		measureUnit = cfg.DefaultUnit
	}

	sizes, err := sheet.LoadPageSizes(args[0])
	if err != nil {
		log.Fatal("Error reading %s: %v", args[0], err)
	}
	provider := sheet.NewProvider(sizes)

	calib := calibrate(provider, log, cfg.TypicalScale.Min, cfg.TypicalScale.Max)

	var opts []takeoff.Option
	if cfg.ClampNetAtZero {
		opts = append(opts, takeoff.WithClampedNet())
	}
	svc := takeoff.NewService(store.NewMemoryStore(), log, opts...)

	m := run(svc, calib, log)
	report(m, svc, calib, log)
}

func calibrate(provider *sheet.Provider, log *logger.Logger, typicalMin, typicalMax float64) models.CalibrationRecord {
	points, err := parsePoints(calibratePoints)
	if err != nil {
		log.Fatal("Error parsing calibration points: %v", err)
	}
	if len(points) != 2 {
		log.Fatal("Calibration needs exactly 2 points, got %d", len(points))
	}

	engine := calibration.NewEngine(provider.BaseViewport(measurePage), log,
		calibration.WithTypicalRange(typicalMin, typicalMax))
	if err := engine.Begin(knownDistance, measureUnit, models.ScopePage); err != nil {
		log.Fatal("Error starting calibration: %v", err)
	}

	var record *models.CalibrationRecord
	for _, p := range points {
		record, _, err = engine.AddPoint(p, 0)
		if err != nil {
			log.Fatal("Calibration failed: %v", err)
		}
	}

	log.Info("Calibrated: %g %s/px on a %gx%g base", record.ScaleFactor, record.Unit, record.BaseWidth, record.BaseHeight)
	return *record
}

func run(svc *takeoff.Service, calib models.CalibrationRecord, log *logger.Logger) *models.Measurement {
	points, err := parsePoints(measurePoints)
	if err != nil {
		log.Fatal("Error parsing points: %v", err)
	}

	typ := models.MeasurementType(measureType)
	sessionOpts := []session.Option{session.WithPage(measurePage)}
	if typ == models.TypeVolume {
		sessionOpts = append(sessionOpts, session.WithDepth(measureDepth))
	}
	if withPerimeter {
		sessionOpts = append(sessionOpts, session.WithPerimeter())
	}

	sess := session.New(typ, calib, log, sessionOpts...)
	for _, p := range points {
		if m, err := sess.Click(p); err != nil {
			log.Fatal("Error capturing point: %v", err)
		} else if m != nil {
			// count measurements complete on the first click
			return m
		}
	}

	m, err := svc.CompleteSession(sess)
	if err != nil {
		log.Fatal("Error completing measurement: %v", err)
	}
	return m
}

func report(m *models.Measurement, svc *takeoff.Service, calib models.CalibrationRecord, log *logger.Logger) {
	for _, raw := range cutoutPoints {
		points, err := parsePoints(raw)
		if err != nil {
			log.Fatal("Error parsing cutout: %v", err)
		}
		updated, err := svc.AttachCutout(m.ID, points, calib)
		if err != nil {
			log.Fatal("Error attaching cutout: %v", err)
		}
		*m = updated
	}

	fmt.Printf("\n%s measurement on page %d (%d points)\n", m.Type, m.PageNum, len(m.Points))
	fmt.Printf("  Value: %s\n", formatValue(m.Type, m.CalculatedValue, m.Unit))
	if m.HasPerimeter {
		fmt.Printf("  Perimeter: %s\n", formatLength(m.PerimeterValue, m.Unit))
	}
	if m.HasNet {
		fmt.Printf("  Cutouts: %d\n", len(m.Cutouts))
		fmt.Printf("  Net: %s\n", formatValue(m.Type, m.NetCalculatedValue, m.Unit))
	}
	if m.Degenerate {
		fmt.Printf("  Warning: geometry is degenerate (collinear or coincident points)\n")
	}
}

func formatValue(typ models.MeasurementType, value float64, unit string) string {
	switch typ {
	case models.TypeArea:
		return units.FormatArea(value, unit)
	case models.TypeVolume:
		return units.FormatVolume(value, unit)
	case models.TypeCount:
		return units.FormatCount(value)
	default:
		return formatLength(value, unit)
	}
}

func formatLength(value float64, unit string) string {
	if feetInches && unit == "ft" {
		return units.FormatFeetInches(value)
	}
	return units.Format(value, unit)
}
