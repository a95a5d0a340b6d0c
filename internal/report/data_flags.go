// Package report writes the data products of a run as CSV files.
package report

import (
	"flag"
	"path/filepath"
)

const (
	Rate         = "rate"
	MeanFreePath = "mfp"
	CDF          = "cdf"
	Stats        = "stats"
	Sophia       = "sophia"
)

type DataItem struct {
	saveFlag   *bool
	fileSuffix string
}

type DataFlags struct {
	all        *bool
	items      map[string]DataItem
	outputPath string
	makeDir    *bool
}

func NewDataFlags(fs *flag.FlagSet) DataFlags {
	return DataFlags{
		all:     fs.Bool("all", false, "save every available data product"),
		makeDir: fs.Bool("dir", false, "save each data product into its own directory"),
		items: map[string]DataItem{
			Rate: {
				saveFlag:   fs.Bool("rate", false, "save interaction rate tables"),
				fileSuffix: "rate",
			},
			MeanFreePath: {
				saveFlag:   fs.Bool("mfp", false, "save mean free path tables"),
				fileSuffix: "mfp",
			},
			CDF: {
				saveFlag:   fs.Bool("cdf", false, "save quantiles of the cumulative distributions"),
				fileSuffix: "cdf",
			},
			Stats: {
				saveFlag:   fs.Bool("stats", true, "save single-step interaction statistics"),
				fileSuffix: "stats",
			},
			Sophia: {
				saveFlag:   fs.Bool("sophia", false, "save background photon energy histograms of the SOPHIA sampler"),
				fileSuffix: "sophia",
			},
		},
	}
}

// Enabled reports whether the item is requested directly or via -all.
func (df *DataFlags) Enabled(item string) bool {
	it, ok := df.items[item]
	if !ok {
		return false
	}
	return *it.saveFlag || *df.all
}

func (df *DataFlags) SetOutputPath(path string) {
	df.outputPath = filepath.Clean(path)
}

func (df *DataFlags) GetOutputPath() string {
	return df.outputPath
}
