// ABOUTME: Output device catalog built once at startup
// ABOUTME: Read-only mapping from device display name to backend device id
package catalog

import (
	"fmt"
	"log"
	"sort"

	"github.com/Sendspin/soundboard/pkg/audio/output"
)

// Lister is the part of an output backend the catalog needs
type Lister interface {
	Devices() ([]output.Device, error)
}

// Catalog maps device names to ids. It is immutable after Build.
type Catalog struct {
	byName  map[string]int
	byID    map[int]string
	devices []output.Device
}

// Build enumerates output devices once. Duplicate names get an id suffix.
func Build(backend Lister) (*Catalog, error) {
	devices, err := backend.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate output devices: %w", err)
	}

	c := &Catalog{
		byName: make(map[string]int, len(devices)),
		byID:   make(map[int]string, len(devices)),
	}

	for _, d := range devices {
		if d.ID < 0 {
			log.Printf("Skipping device %q with negative id %d", d.Name, d.ID)
			continue
		}
		if _, dup := c.byID[d.ID]; dup {
			log.Printf("Skipping device %q: id %d already listed", d.Name, d.ID)
			continue
		}

		d.Name = c.freeName(d)

		c.byName[d.Name] = d.ID
		c.byID[d.ID] = d.Name
		c.devices = append(c.devices, d)
	}

	sort.Slice(c.devices, func(i, j int) bool { return c.devices[i].ID < c.devices[j].ID })
	return c, nil
}

// freeName picks a display name no earlier device holds. A suffixed name can
// itself be a real device name, so keep counting until one is free.
func (c *Catalog) freeName(d output.Device) string {
	name := d.Name
	for n := 1; ; n++ {
		if _, taken := c.byName[name]; !taken {
			return name
		}
		if n == 1 {
			name = fmt.Sprintf("%s (#%d)", d.Name, d.ID)
		} else {
			name = fmt.Sprintf("%s (#%d-%d)", d.Name, d.ID, n)
		}
	}
}

// Names returns the device names sorted alphabetically
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the id for a device name
func (c *Catalog) Lookup(name string) (int, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// NameOf returns the display name for a device id
func (c *Catalog) NameOf(id int) (string, bool) {
	name, ok := c.byID[id]
	return name, ok
}

// Devices returns the devices ordered by id
func (c *Catalog) Devices() []output.Device {
	return append([]output.Device(nil), c.devices...)
}

// Len returns the number of devices
func (c *Catalog) Len() int {
	return len(c.devices)
}

// Default returns the id of the device the backend marks as default
func (c *Catalog) Default() (int, bool) {
	for _, d := range c.devices {
		if d.IsDefault {
			return d.ID, true
		}
	}
	return 0, false
}
