// Package zephyr provides sensor definitions for the Zephyr BioHarness 3.0
// chest monitor: ECG, breathing, accelerometry and device state exports.
package zephyr

import "github.com/naluwei/fatigueset-catalog/internal/sensor"

const deviceName = "zephyr"

type device struct{}

// New returns the Zephyr BioHarness chest monitor device.
func New() sensor.Device { return device{} }

func (device) Device() string { return deviceName }

func (device) Sensors() []sensor.Definition { return sensors }

func (device) Match(filename string) (sensor.Definition, bool) {
	return sensor.MatchByStem(sensors, filename)
}

var sensors = []sensor.Definition{
	{
		Name:         "chest_raw_acc",
		Columns:      sensor.Columns("timestamp", "vertical", "lateral", "sagittal"),
		Description:  "Chest raw accelerometer data",
		Units:        "12-bit raw (center 2048, 1g = 83 counts)",
		SamplingRate: "100 Hz",
		SensorType:   "Chest accelerometer",
	},
	{
		Name:         "chest_bb_interval",
		Columns:      sensor.Columns("timestamp", "duration"),
		Description:  "Breath-to-breath interval",
		Units:        "ms",
		SamplingRate: "per detected breath",
		SensorType:   "Breathing detection",
	},
	{
		Name: "chest_physiology_summary",
		Columns: sensor.Columns("timestamp", "hr", "br", "posture",
			"hr_confidence", "hrv", "is_hr_unreliable", "is_br_unreliable",
			"is_hrv_unreliable"),
		Description:  "Chest physiology summary",
		Units:        "bpm {25:240}, breaths/min {4:70}, deg {-180:180}, percent, ms, 1=unreliable",
		SamplingRate: "1 Hz",
		SensorType:   "Physiology monitoring",
	},
	{
		Name:         "chest_raw_breathing",
		Columns:      sensor.Columns("timestamp", "breathing_waveform"),
		Description:  "Chest raw breathing waveform",
		Units:        "24-bit raw",
		SamplingRate: "25 Hz",
		SensorType:   "Breathing sensor",
	},
	{
		Name:         "chest_raw_ecg",
		Columns:      sensor.Columns("timestamp", "ecg_waveform"),
		Description:  "Chest raw electrocardiogram",
		Units:        "12-bit (1 count = 0.0067025 mV)",
		SamplingRate: "250 Hz",
		SensorType:   "Electrocardiogram (ECG)",
	},
	{
		Name:         "chest_rr_interval",
		Columns:      sensor.Columns("timestamp", "duration"),
		Description:  "R-to-R wave interval",
		Units:        "ms",
		SamplingRate: "per detected R wave",
		SensorType:   "ECG R wave detection",
	},
	{
		Name: "chest_sensor_summary",
		Columns: sensor.Columns("timestamp", "acc_magnitude", "acc_peak",
			"acc_peak_vertical_angle", "acc_peak_horizontal_angle",
			"ecg_amp_uncalibrated", "ecg_noise_uncalibrated"),
		Description:  "Chest sensor summary data",
		Units:        "VMU {0:16}, g {0:16}, deg {0:180}, deg {-180:180}, V {0:0.05}, V {0:0.05}",
		SamplingRate: "1 Hz",
		SensorType:   "Sensor summary",
	},
	{
		Name: "zephyr_activity_summary",
		Columns: sensor.Columns("timestamp", "cumulative_impulse_load",
			"walking_step_count", "running_step_count", "bound_count",
			"jump_count", "minor_impact_count", "major_impact_count",
			"avg_force_dev_rate", "avg_step_impulse", "avg_step_period",
			"last_jump_flight_time"),
		Description:  "Zephyr activity summary statistics",
		Units:        "newtons, steps, steps, jumps, impacts, impact force, gait parameters",
		SamplingRate: "1 Hz",
		SensorType:   "Activity monitoring",
	},
	{
		Name: "zephyr_device_status",
		Columns: sensor.Columns("timestamp", "battery_voltage", "battery_level",
			"device_temperature", "bluetooth_link_quality", "bluetooth_rssi",
			"bluetooth_tx_power", "worn_confidence", "is_button_press",
			"is_not_fitted_to_garment"),
		Description:  "Zephyr device status",
		Units:        "V, percent, degC, link quality, dB, dBm, worn confidence, button state, fit state",
		SamplingRate: "1 Hz",
		SensorType:   "Device status",
	},
}
