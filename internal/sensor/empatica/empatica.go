// Package empatica provides sensor definitions for the Empatica E4
// wristband: accelerometer, BVP, EDA, heart rate, IBI and skin temperature.
package empatica

import "github.com/naluwei/fatigueset-catalog/internal/sensor"

const deviceName = "empatica"

type device struct{}

// New returns the Empatica E4 wristband device.
func New() sensor.Device { return device{} }

func (device) Device() string { return deviceName }

func (device) Sensors() []sensor.Definition { return sensors }

func (device) Match(filename string) (sensor.Definition, bool) {
	return sensor.MatchByStem(sensors, filename)
}

var sensors = []sensor.Definition{
	{
		Name:         "wrist_acc",
		Columns:      sensor.Columns("timestamp", "ax", "ay", "az"),
		Description:  "Wrist accelerometer data",
		Units:        "g (range -2 to +2)",
		SamplingRate: "32 Hz",
		SensorType:   "Wrist accelerometer",
	},
	{
		Name:         "wrist_bvp",
		Columns:      sensor.Columns("timestamp", "bvp"),
		Description:  "Wrist blood volume pulse",
		Units:        "unitless (combined from two light reflection measurements)",
		SamplingRate: "64 Hz",
		SensorType:   "Wrist PPG sensor",
	},
	{
		Name:         "wrist_eda",
		Columns:      sensor.Columns("timestamp", "eda"),
		Description:  "Wrist electrodermal activity",
		Units:        "microsiemens (uS)",
		SamplingRate: "4 Hz",
		SensorType:   "Electrodermal sensor",
	},
	{
		Name:         "wrist_hr",
		Columns:      sensor.Columns("timestamp", "hr"),
		Description:  "Wrist heart rate (10 second trailing average)",
		Units:        "bpm",
		SamplingRate: "1 Hz",
		SensorType:   "Heart rate sensor",
	},
	{
		Name:         "wrist_ibi",
		Columns:      sensor.Columns("timestamp", "duration"),
		Description:  "Inter-beat interval",
		Units:        "ms",
		SamplingRate: "per detected heartbeat",
		SensorType:   "Heartbeat detection",
	},
	{
		Name:         "wrist_skin_temperature",
		Columns:      sensor.Columns("timestamp", "temp"),
		Description:  "Wrist skin temperature",
		Units:        "degC",
		SamplingRate: "4 Hz",
		SensorType:   "Temperature sensor",
	},
}
