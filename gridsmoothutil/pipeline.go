/*
Copyright © 2026 the GridSmooth authors.
This file is part of GridSmooth.

GridSmooth is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GridSmooth is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GridSmooth.  If not, see <http://www.gnu.org/licenses/>.
*/

package gridsmoothutil

import (
	"github.com/gridsmooth/gridsmooth"
	"github.com/lnashier/viper"
	log "github.com/sirupsen/logrus"
)

// PipelineConfig describes one smoothing run: which neighbourhood
// statistic to compute and whether to chain the recursive filter after
// it.
type PipelineConfig struct {
	Shape         gridsmooth.Shape
	Radii         []float64
	LeadTimes     []float64
	EnsFactor     float64
	Weighted      bool
	Percentiles   []float64
	SumOrFraction gridsmooth.SumOrFraction
	ReMask        bool

	RecursiveFilter bool
	AlphaX, AlphaY  float64
	Iterations      int
}

// PipelineConfigFromCfg decodes a PipelineConfig from configuration.
func PipelineConfigFromCfg(cfg *viper.Viper) (*PipelineConfig, error) {
	radii, err := toFloat64s(cfg.GetStringSlice("radii"))
	if err != nil {
		return nil, err
	}
	leadTimes, err := toFloat64s(cfg.GetStringSlice("leadTimes"))
	if err != nil {
		return nil, err
	}
	percentiles, err := toFloat64s(cfg.GetStringSlice("percentiles"))
	if err != nil {
		return nil, err
	}
	return &PipelineConfig{
		Shape:           gridsmooth.Shape(cfg.GetString("shape")),
		Radii:           radii,
		LeadTimes:       leadTimes,
		EnsFactor:       cfg.GetFloat64("ensFactor"),
		Weighted:        cfg.GetBool("weighted"),
		Percentiles:     percentiles,
		SumOrFraction:   gridsmooth.SumOrFraction(cfg.GetString("sumOrFraction")),
		ReMask:          cfg.GetBool("reMask"),
		RecursiveFilter: cfg.GetBool("recursiveFilter"),
		AlphaX:          cfg.GetFloat64("alphaX"),
		AlphaY:          cfg.GetFloat64("alphaY"),
		Iterations:      cfg.GetInt("iterations"),
	}, nil
}

// radiusSpec builds the lead-time radius lookup from the configured
// radii and lead times.
func (c *PipelineConfig) radiusSpec() (gridsmooth.RadiusSpec, error) {
	if len(c.Radii) == 1 && len(c.LeadTimes) == 0 {
		return gridsmooth.ScalarRadius(c.Radii[0]), nil
	}
	return gridsmooth.RadiusTable(c.Radii, c.LeadTimes)
}

// Validate rejects semantically invalid option combinations before any
// numeric work starts.
func (c *PipelineConfig) Validate() error {
	if c.Shape != gridsmooth.Square && c.Shape != gridsmooth.Circular {
		return gridsmooth.NewConfigurationError("gridsmooth: unknown neighbourhood shape %q", c.Shape)
	}
	if len(c.Percentiles) > 0 && c.Shape == gridsmooth.Square {
		return gridsmooth.NewConfigurationError("gridsmooth: percentiles are only defined for circular neighbourhoods")
	}
	if len(c.Percentiles) > 0 && c.Weighted {
		return gridsmooth.NewConfigurationError("gridsmooth: percentiles are not defined for weighted neighbourhoods")
	}
	if c.Weighted && c.Shape == gridsmooth.Square {
		return gridsmooth.NewConfigurationError("gridsmooth: weighted mode is only defined for circular neighbourhoods")
	}
	if c.SumOrFraction != gridsmooth.Fraction && c.SumOrFraction != gridsmooth.Sum {
		return gridsmooth.NewConfigurationError("gridsmooth: sumOrFraction must be 'sum' or 'fraction'; got %q", c.SumOrFraction)
	}
	if c.RecursiveFilter && c.Shape == gridsmooth.Circular {
		return gridsmooth.NewConfigurationError("gridsmooth: the recursive filter is only defined after square neighbourhood output")
	}
	if _, err := c.radiusSpec(); err != nil {
		return err
	}
	if c.RecursiveFilter && c.Iterations > 5 {
		log.WithField("iterations", c.Iterations).Warn(
			"unusually many recursive filter iterations; runtime grows with little accuracy gain")
	}
	return nil
}

// Result holds the output of one pipeline run: Field for probability
// aggregation, Percentiles for percentile aggregation. Exactly one of
// the two is set.
type Result struct {
	Field       *gridsmooth.Grid
	Percentiles map[float64]*gridsmooth.Grid
}

// Run smooths one grid at the given forecast lead time: it resolves
// the neighbourhood radius, builds the kernel, aggregates, and then,
// when configured, chains the recursive filter as a final stage.
func (c *PipelineConfig) Run(g *gridsmooth.Grid, leadTimeHours float64) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	spec, err := c.radiusSpec()
	if err != nil {
		return nil, err
	}
	if g.Dx != g.Dy {
		return nil, gridsmooth.NewConfigurationError(
			"gridsmooth: kernel construction requires equal x and y cell spacing; got %g and %g", g.Dx, g.Dy)
	}
	radius := spec.Resolve(leadTimeHours)
	log.WithFields(log.Fields{
		"shape":    c.Shape,
		"radius":   radius,
		"leadTime": leadTimeHours,
	}).Info("smoothing grid")

	kernel, err := gridsmooth.BuildKernel(c.Shape, radius, g.Dx, c.Weighted, c.EnsFactor)
	if err != nil {
		return nil, err
	}

	if len(c.Percentiles) > 0 {
		percs, err := gridsmooth.AggregatePercentiles(g, kernel, c.Percentiles, c.ReMask)
		if err != nil {
			return nil, err
		}
		return &Result{Percentiles: percs}, nil
	}

	field, err := gridsmooth.AggregateProbabilities(g, kernel, c.SumOrFraction, c.ReMask)
	if err != nil {
		return nil, err
	}
	if c.RecursiveFilter {
		filter := &gridsmooth.RecursiveFilter{
			AlphaX:     gridsmooth.ScalarAlpha(c.AlphaX),
			AlphaY:     gridsmooth.ScalarAlpha(c.AlphaY),
			Iterations: c.Iterations,
			ReMask:     c.ReMask,
		}
		field, err = filter.Apply(field)
		if err != nil {
			return nil, err
		}
	}
	return &Result{Field: field}, nil
}
