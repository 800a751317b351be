package sensor

// Registry holds the enabled devices and routes export files to their
// sensor definitions. Adding a new device family means implementing Device
// and registering it here; the folder walking logic never changes.
type Registry struct {
	devices []Device
}

// NewRegistry creates a Registry over the given devices.
func NewRegistry(devices ...Device) *Registry {
	return &Registry{devices: devices}
}

// Register adds a device to the registry.
func (r *Registry) Register(d Device) {
	r.devices = append(r.devices, d)
}

// Devices returns the registered devices.
func (r *Registry) Devices() []Device {
	return r.devices
}

// Definitions returns every sensor definition across all registered
// devices, in registration order.
func (r *Registry) Definitions() []Definition {
	var defs []Definition
	for _, d := range r.devices {
		defs = append(defs, d.Sensors()...)
	}
	return defs
}

// Match selects the device and definition for an export file name.
func (r *Registry) Match(filename string) (Device, Definition, bool) {
	for _, dev := range r.devices {
		if def, ok := dev.Match(filename); ok {
			return dev, def, true
		}
	}
	return nil, Definition{}, false
}
