// Package esense provides sensor definitions for the Nokia Bell Labs
// eSense earable: left/right accelerometer, gyroscope and PPG exports.
package esense

import "github.com/naluwei/fatigueset-catalog/internal/sensor"

const deviceName = "esense"

type device struct{}

// New returns the eSense earable device.
func New() sensor.Device { return device{} }

func (device) Device() string { return deviceName }

func (device) Sensors() []sensor.Definition { return sensors }

func (device) Match(filename string) (sensor.Definition, bool) {
	return sensor.MatchByStem(sensors, filename)
}

var sensors = []sensor.Definition{
	{
		Name:         "ear_acc_left",
		Columns:      sensor.Columns("timestamp", "ax", "ay", "az"),
		Description:  "Left ear accelerometer data",
		Units:        "g (range -2 to +2)",
		SamplingRate: "100 Hz",
		SensorType:   "Earable accelerometer",
	},
	{
		Name:         "ear_acc_right",
		Columns:      sensor.Columns("timestamp", "ax", "ay", "az"),
		Description:  "Right ear accelerometer data",
		Units:        "g (range -2 to +2)",
		SamplingRate: "100 Hz",
		SensorType:   "Earable accelerometer",
	},
	{
		Name:         "ear_gyro_left",
		Columns:      sensor.Columns("timestamp", "gx", "gy", "gz"),
		Description:  "Left ear gyroscope data",
		Units:        "deg/s (range -500 to +500)",
		SamplingRate: "100 Hz",
		SensorType:   "Earable gyroscope",
	},
	{
		Name:         "ear_gyro_right",
		Columns:      sensor.Columns("timestamp", "gx", "gy", "gz"),
		Description:  "Right ear gyroscope data",
		Units:        "deg/s (range -500 to +500)",
		SamplingRate: "100 Hz",
		SensorType:   "Earable gyroscope",
	},
	{
		Name:         "ear_ppg_left",
		Columns:      sensor.Columns("timestamp", "green", "ir", "red"),
		Description:  "Left ear photoplethysmography (PPG) data",
		Units:        "unitless (light intensity)",
		SamplingRate: "100 Hz",
		SensorType:   "Earable PPG sensor",
	},
	{
		Name:         "ear_ppg_right",
		Columns:      sensor.Columns("timestamp", "green", "ir", "red"),
		Description:  "Right ear photoplethysmography (PPG) data",
		Units:        "unitless (light intensity)",
		SamplingRate: "100 Hz",
		SensorType:   "Earable PPG sensor",
	},
}
