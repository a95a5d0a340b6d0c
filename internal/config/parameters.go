// Package config loads run configurations from TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"runtime"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/wildstyl3r/emcascade/internal/constants"
	"github.com/wildstyl3r/emcascade/internal/utils"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	OutputDir   string
	DataDir     string
	Threads     int
	Seed        int64
	InputUnits  []string
	OutputUnits []string

	Grid     GridParameters
	Fields   map[string]FieldParameters
	Modules  map[string]ModuleParameters
	Sampling *SamplingParameters

	// top-level module keys apply to every module
	ModuleParameters `yaml:",inline"`
}

// GridParameters sets the resolution of analytically built tables.
type GridParameters struct {
	EnergyMin   float64 // [J]
	EnergyMax   float64 // [J]
	NumEnergies int
	NumS        int
	NumEps      int
}

type FieldParameters struct {
	Type string // blackbody, powerlaw or tabular

	Temperature float64 // [K]

	EnergyMin float64 // [J]
	EnergyMax float64 // [J]
	Index     float64
	Norm      float64 // [m^-3]

	// Name selects the tabulated files, the field key by default.
	Name              string
	RedshiftDependent bool
}

type ModuleParameters struct {
	Type   string // ics, dpp or synchrotron
	Field  string
	Tables string // analytic or file

	Secondaries  bool
	Thinning     float64
	ThinningMode string
	Limit        float64
	Tag          string

	// single-step experiment
	Redshift    float64
	Step        float64 // [m]
	Trials      int
	EnergyMin   float64 // [J]
	EnergyMax   float64 // [J]
	NumEnergies int

	// synchrotron
	Brms           float64   // [T]
	B              []float64 // [T]
	BottleD        float64   // [m]
	BottleM        float64   // [A m^2]
	BottleScale    float64
	Threshold      float64 // [J]
	MaximumSamples int
}

type SamplingParameters struct {
	Background    string // CMB or tabular
	Spectrum      string // eps [eV], dn/deps [1/(eV cm^3)]
	Nucleon       string // proton or neutron
	Energies      []float64
	Redshift      float64
	Trials        int
	Bins          int
	MaxIterations int
}

var moduleTypes = []string{"ics", "dpp", "synchrotron"}

var defaultValues = map[string]any{ // in SI
	"Tables":         "analytic",
	"Secondaries":    true,
	"Thinning":       0.,
	"ThinningMode":   "uniform",
	"Limit":          0.1,
	"Redshift":       0.,
	"Step":           1e3 * constants.Parsec,
	"Trials":         1000,
	"EnergyMin":      utils.EV2J(1e15),
	"EnergyMax":      utils.EV2J(1e20),
	"NumEnergies":    6,
	"Threshold":      utils.EV2J(1e6),
	"MaximumSamples": 0,
	"BottleScale":    1.,
}

var fieldsXor = map[string][]string{
	"Brms":    {"B", "BottleD"},
	"B":       {"Brms", "BottleD"},
	"BottleD": {"Brms", "B"},
}

var fieldsAnd = map[string][]string{
	"BottleD": {"BottleM"},
}

var valueUnits = map[string][]UnitElement{
	"Step":      {{Class: Length, Power: 1}},
	"EnergyMin": {{Class: Energy, Power: 1}},
	"EnergyMax": {{Class: Energy, Power: 1}},
	"Threshold": {{Class: Energy, Power: 1}},
	"Brms":      {{Class: MagneticField, Power: 1}},
	"B":         {{Class: MagneticField, Power: 1}},
	"BottleD":   {{Class: Length, Power: 1}},
	"Energies":  {{Class: Energy, Power: 1}},
}

// Environment overrides, applied after the file.
type Environment struct {
	Threads   int    `env:"EMCASCADE_THREADS"`
	Seed      int64  `env:"EMCASCADE_SEED"`
	OutputDir string `env:"EMCASCADE_OUTPUT_DIR"`
	DataDir   string `env:"EMCASCADE_DATA_DIR"`
}

// LoadConfig reads configFileName, with or without the .toml suffix.
func LoadConfig(configFileName string) (Config, error) {
	configFileName = strings.TrimSuffix(configFileName, ".toml")
	data, err := os.ReadFile(configFileName + ".toml")
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes a TOML document and resolves defaults, units, environment
// overrides and per-module settings.
func Parse(data string) (Config, error) {
	var config Config
	meta, err := toml.Decode(data, &config)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var unitsConflict []string
	config.InputUnits, unitsConflict = checkUnits(config.InputUnits)
	if len(unitsConflict) > 0 {
		return Config{}, fmt.Errorf("%w: input unit conflict %v", ErrInvalidConfig, unitsConflict)
	}
	if len(config.OutputUnits) == 0 {
		config.OutputUnits = config.InputUnits
	}
	config.OutputUnits, unitsConflict = checkUnits(config.OutputUnits)
	if len(unitsConflict) > 0 {
		return Config{}, fmt.Errorf("%w: output unit conflict %v", ErrInvalidConfig, unitsConflict)
	}

	config.checkDefaults(&meta)
	if err := config.applyEnvironment(); err != nil {
		return Config{}, err
	}
	if err := config.unifyGrid(&meta); err != nil {
		return Config{}, err
	}
	if err := config.unifyFields(&meta); err != nil {
		return Config{}, err
	}
	if len(config.Modules) == 0 && config.Sampling == nil {
		return Config{}, fmt.Errorf("%w: no modules provided", ErrInvalidConfig)
	}
	for _, name := range config.ModuleNames() {
		mp := config.Modules[name]
		if err := mp.CheckAndUnify(name, &config, &meta); err != nil {
			return Config{}, err
		}
		config.Modules[name] = mp
	}
	if err := config.unifySampling(&meta); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c *Config) checkDefaults(meta *toml.MetaData) {
	if !meta.IsDefined("OutputDir") {
		c.OutputDir = "."
	}
	if !meta.IsDefined("DataDir") {
		c.DataDir = "data"
	}
	if !meta.IsDefined("Seed") {
		c.Seed = 1
	}
	if c.Threads <= 0 {
		c.Threads = runtime.NumCPU()
	}
}

func (c *Config) applyEnvironment() error {
	e := Environment{Threads: c.Threads, Seed: c.Seed, OutputDir: c.OutputDir, DataDir: c.DataDir}
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if e.Threads <= 0 {
		return fmt.Errorf("%w: thread count must be positive, got %d", ErrInvalidConfig, e.Threads)
	}
	c.Threads, c.Seed, c.OutputDir, c.DataDir = e.Threads, e.Seed, e.OutputDir, e.DataDir
	return nil
}

func (c *Config) unifyGrid(meta *toml.MetaData) error {
	defaults := GridParameters{
		EnergyMin:   utils.EV2J(1e9),
		EnergyMax:   utils.EV2J(1e23),
		NumEnergies: 281,
		NumS:        1000,
		NumEps:      1000,
	}
	var defined []string
	fillUndefined(&c.Grid, &defaults, func(name string) bool {
		if meta.IsDefined("Grid", name) {
			defined = append(defined, name)
			return true
		}
		return false
	})
	toSI(&c.Grid, defined, c.InputUnits)
	g := c.Grid
	if !(g.EnergyMin > 0) || !(g.EnergyMax > g.EnergyMin) || g.NumEnergies < 2 || g.NumS < 2 || g.NumEps < 2 {
		return fmt.Errorf("%w: invalid table grid %+v", ErrInvalidConfig, g)
	}
	return nil
}

func (c *Config) unifyFields(meta *toml.MetaData) error {
	for _, name := range c.FieldNames() {
		fp := c.Fields[name]
		var defined []string
		for _, key := range meta.Keys() {
			if len(key) == 3 && key[0] == "Fields" && key[1] == name {
				defined = append(defined, key[2])
			}
		}
		toSI(&fp, defined, c.InputUnits)
		if fp.Name == "" {
			fp.Name = name
		}
		switch fp.Type {
		case "blackbody", "powerlaw", "tabular":
		default:
			return fmt.Errorf("%w: field %s has unknown type %q", ErrInvalidConfig, name, fp.Type)
		}
		c.Fields[name] = fp
	}
	return nil
}

func (c *Config) unifySampling(meta *toml.MetaData) error {
	s := c.Sampling
	if s == nil {
		return nil
	}
	if s.Background == "" {
		s.Background = "CMB"
	}
	if s.Nucleon == "" {
		s.Nucleon = "proton"
	}
	if !meta.IsDefined("Sampling", "Trials") {
		s.Trials = 1000
	}
	if !meta.IsDefined("Sampling", "Bins") {
		s.Bins = 50
	}
	if !meta.IsDefined("Sampling", "MaxIterations") {
		s.MaxIterations = 100000
	}
	if meta.IsDefined("Sampling", "Energies") {
		toSI(s, []string{"Energies"}, c.InputUnits)
	} else {
		s.Energies = []float64{utils.EV2J(1e19), utils.EV2J(1e20), utils.EV2J(1e21)}
	}
	if s.Background != "CMB" && s.Background != "tabular" {
		return fmt.Errorf("%w: unknown sampling background %q", ErrInvalidConfig, s.Background)
	}
	if s.Background == "tabular" && s.Spectrum == "" {
		return fmt.Errorf("%w: tabular sampling background needs a Spectrum file", ErrInvalidConfig)
	}
	if s.Nucleon != "proton" && s.Nucleon != "neutron" {
		return fmt.Errorf("%w: unknown nucleon %q", ErrInvalidConfig, s.Nucleon)
	}
	if s.Trials <= 0 || s.Bins <= 0 {
		return fmt.Errorf("%w: sampling needs positive Trials and Bins", ErrInvalidConfig)
	}
	return nil
}

/*
field value priority:
1. module
2. global
3. default
Alternatives of a field defined in the module are not taken from the
global section or the defaults.
*/

func (mp *ModuleParameters) CheckAndUnify(name string, config *Config, meta *toml.MetaData) error {
	var local, global []string
	exclude := map[string]struct{}{}
	rv := reflect.ValueOf(mp).Elem()
	rt := rv.Type()
	for i := range rt.NumField() {
		field := rt.Field(i).Name
		if meta.IsDefined("Modules", name, field) {
			local = append(local, field)
			for _, x := range fieldsXor[field] {
				exclude[x] = struct{}{}
			}
		}
	}

	gv := reflect.ValueOf(&config.ModuleParameters).Elem()
	for i := range rt.NumField() {
		field := rt.Field(i).Name
		if slices.Contains(local, field) {
			continue
		}
		if _, x := exclude[field]; x {
			continue
		}
		if meta.IsDefined(field) {
			rv.Field(i).Set(gv.Field(i))
			global = append(global, field)
			for _, x := range fieldsXor[field] {
				exclude[x] = struct{}{}
			}
		}
	}
	discovered := append(local, global...)
	toSI(mp, discovered, config.InputUnits)

	for field, value := range defaultValues {
		if _, x := exclude[field]; x || slices.Contains(discovered, field) {
			continue
		}
		rv.FieldByName(field).Set(reflect.ValueOf(value))
	}

	for _, field := range discovered {
		for _, conflict := range fieldsXor[field] {
			if slices.Contains(discovered, conflict) {
				return fmt.Errorf("%w: module %s sets both %s and %s", ErrInvalidConfig, name, field, conflict)
			}
		}
		for _, requirement := range fieldsAnd[field] {
			if !slices.Contains(discovered, requirement) {
				return fmt.Errorf("%w: module %s: %s requires %s", ErrInvalidConfig, name, field, requirement)
			}
		}
	}
	return mp.validate(name, config)
}

func (mp *ModuleParameters) validate(name string, config *Config) error {
	if !slices.Contains(moduleTypes, mp.Type) {
		return fmt.Errorf("%w: module %s has unknown type %q, want one of %v", ErrInvalidConfig, name, mp.Type, moduleTypes)
	}
	if mp.Type != "synchrotron" {
		if _, ok := config.Fields[mp.Field]; !ok {
			return fmt.Errorf("%w: module %s uses undefined field %q", ErrInvalidConfig, name, mp.Field)
		}
		if mp.Tables != "analytic" && mp.Tables != "file" {
			return fmt.Errorf("%w: module %s: Tables must be analytic or file, got %q", ErrInvalidConfig, name, mp.Tables)
		}
	}
	if len(mp.B) != 0 && len(mp.B) != 3 {
		return fmt.Errorf("%w: module %s: B needs three components", ErrInvalidConfig, name)
	}
	if mp.Trials <= 0 || mp.NumEnergies < 1 || !(mp.Step > 0) {
		return fmt.Errorf("%w: module %s needs positive Trials, NumEnergies and Step", ErrInvalidConfig, name)
	}
	if !(mp.EnergyMin > 0) || mp.EnergyMax < mp.EnergyMin {
		return fmt.Errorf("%w: module %s: invalid energy range [%v, %v]", ErrInvalidConfig, name, mp.EnergyMin, mp.EnergyMax)
	}
	return nil
}

// ModuleNames returns the module keys in sorted order.
func (c *Config) ModuleNames() []string {
	names := make([]string, 0, len(c.Modules))
	for name := range c.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) FieldNames() []string {
	names := make([]string, 0, len(c.Fields))
	for name := range c.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteYAML writes the resolved configuration.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// toSI converts the named float and []float64 fields of target in place.
func toSI(target any, names, units []string) {
	rv := reflect.ValueOf(target).Elem()
	for _, name := range names {
		field := rv.FieldByName(name)
		classes, ok := valueUnits[name]
		if !ok || !field.IsValid() {
			continue
		}
		switch {
		case field.CanFloat():
			field.SetFloat(SI(field.Float(), classes, units, true))
		case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.Float64:
			for i := range field.Len() {
				field.Index(i).SetFloat(SI(field.Index(i).Float(), classes, units, true))
			}
		}
	}
}

// fillUndefined copies fields from defaults into target where defined
// reports false.
func fillUndefined[T any](target, defaults *T, defined func(string) bool) {
	tv := reflect.ValueOf(target).Elem()
	dv := reflect.ValueOf(defaults).Elem()
	for i := range tv.NumField() {
		if !defined(tv.Type().Field(i).Name) {
			tv.Field(i).Set(dv.Field(i))
		}
	}
}
