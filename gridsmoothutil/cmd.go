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

// Package gridsmoothutil holds the configuration and orchestration glue
// around the gridsmooth numeric core: the command-line interface, the
// option table, option-combination validation, and the pipeline that
// composes neighbourhood aggregation with recursive filtering. Reading
// and writing gridded data is the caller's business; this package only
// decides what to run and runs it.
package gridsmoothutil

import (
	"fmt"
	"strings"

	"github.com/gridsmooth/gridsmooth"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to GridSmooth.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "shape",
			usage: `
              shape specifies the neighbourhood footprint geometry,
              either 'square' or 'circular'.`,
			defaultVal: "square",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "radii",
			usage: `
              radii specifies the neighbourhood radii in the physical
              length units of the grid spacing. A single value is used
              for all lead times; multiple values form a lookup table
              together with leadTimes.`,
			defaultVal: []string{"10000"},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "leadTimes",
			usage: `
              leadTimes specifies the forecast lead times in hours
              corresponding to the entries of radii. Leave empty when
              radii holds a single value.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "ensFactor",
			usage: `
              ensFactor scales the neighbourhood footprint to account
              for multiple ensemble realizations contributing to the
              same smoothing power.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "weighted",
			usage: `
              weighted makes circular neighbourhood weights decay from
              center to edge instead of being flat.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "percentiles",
			usage: `
              percentiles requests percentile output fields instead of
              the weighted-mean probability field. Only defined for
              unweighted circular neighbourhoods.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "sumOrFraction",
			usage: `
              sumOrFraction selects whether probability aggregation
              returns the fraction (weighted mean) or the unnormalized
              weighted sum.`,
			defaultVal: "fraction",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "reMask",
			usage: `
              reMask restores cells that are invalid in the input mask
              to invalid in the output after aggregation.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "recursiveFilter",
			usage: `
              recursiveFilter chains a recursive Gaussian-approximating
              filter after square-neighbourhood aggregation.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "alphaX",
			usage: `
              alphaX is the recursive filter decay coefficient for the
              x-direction passes, in the open interval (0, 1).`,
			defaultVal: 0.5,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "alphaY",
			usage: `
              alphaY is the recursive filter decay coefficient for the
              y-direction passes, in the open interval (0, 1).`,
			defaultVal: 0.5,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "iterations",
			usage: `
              iterations is the number of x-then-y recursive filter
              pass pairs. Values above 5 are allowed but unusual.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "spacing",
			usage: `
              spacing is the physical grid cell spacing used when
              rendering a kernel footprint.`,
			defaultVal: 2000.0,
			flagsets:   []*pflag.FlagSet{kernelCmd.Flags()},
		},
		{
			name: "radius",
			usage: `
              radius is the neighbourhood radius used when rendering a
              kernel footprint.`,
			defaultVal: 10000.0,
			flagsets:   []*pflag.FlagSet{kernelCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GRIDSMOOTH")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(checkCmd)
	Root.AddCommand(kernelCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("gridsmooth: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "gridsmooth",
	Short: "Spatial smoothing for gridded forecast fields.",
	Long: `GridSmooth smooths gridded forecast fields by neighbourhood aggregation,
optionally followed by a recursive Gaussian-approximating filter.
Use the subcommands specified below to inspect and validate smoothing
configurations.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GRIDSMOOTH_var' where
'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of GridSmooth.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("GridSmooth v%s\n", gridsmooth.Version)
	},
	DisableAutoGenTag: true,
}

// checkCmd validates the configured option combination without running
// any numeric work, so that callers can fail fast on usage errors.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the smoothing configuration",
	Long: `check builds the smoothing pipeline from the current configuration and
reports the first invalid option combination it finds, if any.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := PipelineConfigFromCfg(Cfg)
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cmd.Println("configuration ok")
		return nil
	},
	DisableAutoGenTag: true,
}

// kernelCmd renders the neighbourhood footprint a configuration would
// aggregate with, for inspection.
var kernelCmd = &cobra.Command{
	Use:   "kernel",
	Short: "Render the neighbourhood footprint",
	Long: `kernel builds the neighbourhood kernel for the configured shape, radius,
cell spacing, weighting, and ensemble factor, and prints its weights.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := gridsmooth.BuildKernel(
			gridsmooth.Shape(Cfg.GetString("shape")),
			Cfg.GetFloat64("radius"),
			Cfg.GetFloat64("spacing"),
			Cfg.GetBool("weighted"),
			Cfg.GetFloat64("ensFactor"),
		)
		if err != nil {
			return err
		}
		cmd.Print(renderKernel(k))
		return nil
	},
	DisableAutoGenTag: true,
}

// renderKernel formats a kernel's weights as one aligned row per line.
func renderKernel(k *gridsmooth.Kernel) string {
	n := 2*k.R + 1
	var b strings.Builder
	for iy := 0; iy < n; iy++ {
		for ix := 0; ix < n; ix++ {
			if ix > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%4.2f", k.Weights.Get(iy, ix))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// toFloat64s converts the string values of a slice-valued option.
func toFloat64s(ss []string) ([]float64, error) {
	out := make([]float64, len(ss))
	for i, s := range ss {
		v, err := cast.ToFloat64E(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("gridsmooth: parsing %q as a number: %v", s, err)
		}
		out[i] = v
	}
	return out, nil
}
