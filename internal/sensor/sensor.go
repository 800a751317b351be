package sensor

import (
	"path/filepath"
	"strings"
)

// Kind is the storage kind a sensor column is declared with.
type Kind int

const (
	KindReal Kind = iota
	KindInteger
	KindText
)

// Column is a single named column of a sensor export file.
type Column struct {
	Name string
	Kind Kind
}

// Definition describes one sensor table: the export file stem it is loaded
// from, its ordered columns and the data dictionary metadata describing it.
type Definition struct {
	// Name is both the export file stem (without extension) and the
	// destination table name, e.g. "ear_acc_left".
	Name string

	// Columns are the source file columns, in file order.
	Columns []Column

	// Data dictionary metadata.
	Description  string
	Units        string
	SamplingRate string
	SensorType   string
}

// ColumnNames returns the column names in file order.
func (d Definition) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// integerColumns are column names that carry discrete values in the
// FatigueSet exports: electrode contact quality codes and status flags.
var integerColumns = map[string]struct{}{
	"TP9":             {},
	"AF7":             {},
	"AF8":             {},
	"TP10":            {},
	"worn_confidence": {},
}

// Columns builds a column list from names, assigning storage kinds the way
// the FatigueSet exports use them: "is_*" flags and electrode/status
// columns are integers, every other measurement is a float.
func Columns(names ...string) []Column {
	cols := make([]Column, len(names))
	for i, name := range names {
		kind := KindReal
		if _, ok := integerColumns[name]; ok || strings.HasPrefix(name, "is_") {
			kind = KindInteger
		}
		cols[i] = Column{Name: name, Kind: kind}
	}
	return cols
}

// Device describes a wearable device family and the sensor exports it
// produces. Implementations declare their definitions statically; the
// extractor never needs to know about a concrete device.
type Device interface {
	// Device returns the device family name, e.g. "esense"
	Device() string

	// Sensors returns every sensor definition this device exports
	Sensors() []Definition

	// Match selects the definition for a file name, reporting whether
	// the file belongs to this device
	Match(filename string) (Definition, bool)
}

// supportedExts are the export file extensions the pipeline understands.
// Anything else is silently ignored during the folder walk.
var supportedExts = map[string]struct{}{
	".csv":  {},
	".txt":  {},
	".xlsx": {},
}

// SupportedExt reports whether the file extension is a recognized
// export format.
func SupportedExt(filename string) bool {
	_, ok := supportedExts[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// MatchByStem is the standard matcher: a file belongs to a definition when
// its stem equals the definition name and its extension is supported.
func MatchByStem(defs []Definition, filename string) (Definition, bool) {
	if !SupportedExt(filename) {
		return Definition{}, false
	}

	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	for _, d := range defs {
		if d.Name == stem {
			return d, true
		}
	}
	return Definition{}, false
}
