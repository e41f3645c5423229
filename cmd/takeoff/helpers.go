package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/draftbench/takeoff/internal/config"
	"github.com/draftbench/takeoff/pkg/logger"
	"github.com/draftbench/takeoff/pkg/models"
)

func newLogger() *logger.Logger {
	log := logger.New(logger.WithPrefix("[takeoff] "))
	log.SetVerbose(verbose)
	return log
}

func loadConfig(log *logger.Logger) *config.Config {
	if configPath == "" {
		return config.Default()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("Error loading config: %v", err)
	}
	return cfg
}

// parsePoints reads a "x,y;x,y;..." list of document-space coordinates.
func parsePoints(raw string) ([]models.DocumentPoint, error) {
	var points []models.DocumentPoint
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid point %q, want x,y", pair)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid x in %q: %w", pair, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid y in %q: %w", pair, err)
		}
		if x < 0 || x > 1 || y < 0 || y > 1 {
			return nil, fmt.Errorf("point %q outside [0,1] document space", pair)
		}
		points = append(points, models.DocumentPoint{X: x, Y: y})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no points in %q", raw)
	}
	return points, nil
}
