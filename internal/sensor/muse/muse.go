// Package muse provides sensor definitions for the Muse S EEG headband:
// forehead EEG band power, raw EEG, motion, and device state exports.
package muse

import "github.com/naluwei/fatigueset-catalog/internal/sensor"

const deviceName = "muse"

type device struct{}

// New returns the Muse S headband device.
func New() sensor.Device { return device{} }

func (device) Device() string { return deviceName }

func (device) Sensors() []sensor.Definition { return sensors }

func (device) Match(filename string) (sensor.Definition, bool) {
	return sensor.MatchByStem(sensors, filename)
}

var sensors = []sensor.Definition{
	{
		Name:         "forehead_acc",
		Columns:      sensor.Columns("timestamp", "ax", "ay", "az"),
		Description:  "Forehead accelerometer data",
		Units:        "g (range -2 to +2)",
		SamplingRate: "52 Hz",
		SensorType:   "Forehead accelerometer",
	},
	{
		Name:         "forehead_eeg_alpha_abs",
		Columns:      sensor.Columns("timestamp", "TP9", "AF7", "AF8", "TP10"),
		Description:  "Forehead EEG alpha band absolute power",
		Units:        "Bels",
		SamplingRate: "10 Hz",
		SensorType:   "Forehead EEG",
	},
	{
		Name:         "forehead_eeg_beta_abs",
		Columns:      sensor.Columns("timestamp", "TP9", "AF7", "AF8", "TP10"),
		Description:  "Forehead EEG beta band absolute power",
		Units:        "Bels",
		SamplingRate: "10 Hz",
		SensorType:   "Forehead EEG",
	},
	{
		Name:         "forehead_eeg_delta_abs",
		Columns:      sensor.Columns("timestamp", "TP9", "AF7", "AF8", "TP10"),
		Description:  "Forehead EEG delta band absolute power",
		Units:        "Bels",
		SamplingRate: "10 Hz",
		SensorType:   "Forehead EEG",
	},
	{
		Name:         "forehead_eeg_gamma_abs",
		Columns:      sensor.Columns("timestamp", "TP9", "AF7", "AF8", "TP10"),
		Description:  "Forehead EEG gamma band absolute power",
		Units:        "Bels",
		SamplingRate: "10 Hz",
		SensorType:   "Forehead EEG",
	},
	{
		Name:         "forehead_eeg_theta_abs",
		Columns:      sensor.Columns("timestamp", "TP9", "AF7", "AF8", "TP10"),
		Description:  "Forehead EEG theta band absolute power",
		Units:        "Bels",
		SamplingRate: "10 Hz",
		SensorType:   "Forehead EEG",
	},
	{
		Name:         "forehead_eeg_raw",
		Columns:      sensor.Columns("timestamp", "TP9", "AF7", "AF8", "TP10"),
		Description:  "Forehead raw EEG waveform",
		Units:        "uV (range 0.0 to 1682.815)",
		SamplingRate: "256 Hz",
		SensorType:   "Forehead EEG",
	},
	{
		Name:         "forehead_gyro",
		Columns:      sensor.Columns("timestamp", "gx", "gy", "gz"),
		Description:  "Forehead gyroscope data",
		Units:        "deg/s (range -245 to +245)",
		SamplingRate: "52 Hz",
		SensorType:   "Forehead gyroscope",
	},
	{
		Name:         "muse_blinks",
		Columns:      sensor.Columns("timestamp", "is_blink"),
		Description:  "Eye blink event detection",
		Units:        "1=blink, 0=no blink",
		SamplingRate: "10 Hz (when a blink is detected)",
		SensorType:   "Blink detection",
	},
	{
		Name:         "muse_jaw_clenches",
		Columns:      sensor.Columns("timestamp", "is_clench"),
		Description:  "Jaw clench event detection",
		Units:        "1=clench, 0=no clench",
		SamplingRate: "10 Hz (when a clench is detected)",
		SensorType:   "Jaw clench detection",
	},
	{
		Name: "muse_device_battery",
		Columns: sensor.Columns("timestamp", "battery_level_muse",
			"battery_voltage_muse", "adc_voltage_muse", "temperature_muse"),
		Description:  "Muse device battery and temperature state",
		Units:        "percent, mV, {-1=unavailable}, degC",
		SamplingRate: "0.1 Hz",
		SensorType:   "Device state monitoring",
	},
	{
		Name:         "muse_device_fit",
		Columns:      sensor.Columns("timestamp", "TP9", "AF7", "AF8", "TP10"),
		Description:  "Muse per-electrode contact quality",
		Units:        "1=good, 2=medium, 4=bad",
		SamplingRate: "10 Hz",
		SensorType:   "Device fit detection",
	},
	{
		Name:         "muse_device_touch",
		Columns:      sensor.Columns("timestamp", "is_touching"),
		Description:  "Forehead contact detection",
		Units:        "1=touching, 0=not touching",
		SamplingRate: "10 Hz",
		SensorType:   "Contact detection",
	},
}
