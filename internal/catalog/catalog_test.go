// ABOUTME: Tests for the output device catalog
// ABOUTME: Tests name/id mapping, duplicate names and enumeration failures
package catalog

import (
	"errors"
	"testing"

	"github.com/Sendspin/soundboard/pkg/audio/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLister struct {
	devices []output.Device
	err     error
}

func (s staticLister) Devices() ([]output.Device, error) {
	return s.devices, s.err
}

func TestBuild(t *testing.T) {
	c, err := Build(staticLister{devices: []output.Device{
		{ID: 3, Name: "USB Headset"},
		{ID: 0, Name: "Built-in Output", IsDefault: true},
		{ID: 5, Name: "Virtual Cable"},
	}})
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"Built-in Output", "USB Headset", "Virtual Cable"}, c.Names())

	id, ok := c.Lookup("Virtual Cable")
	assert.True(t, ok)
	assert.Equal(t, 5, id)

	name, ok := c.NameOf(3)
	assert.True(t, ok)
	assert.Equal(t, "USB Headset", name)

	_, ok = c.Lookup("Nope")
	assert.False(t, ok)

	def, ok := c.Default()
	assert.True(t, ok)
	assert.Equal(t, 0, def)

	devices := c.Devices()
	require.Len(t, devices, 3)
	assert.Equal(t, 0, devices[0].ID)
	assert.Equal(t, 5, devices[2].ID)
}

func TestBuildDuplicateNames(t *testing.T) {
	c, err := Build(staticLister{devices: []output.Device{
		{ID: 1, Name: "Speakers"},
		{ID: 2, Name: "Speakers"},
	}})
	require.NoError(t, err)

	first, ok := c.Lookup("Speakers")
	assert.True(t, ok)
	assert.Equal(t, 1, first)

	second, ok := c.Lookup("Speakers (#2)")
	assert.True(t, ok)
	assert.Equal(t, 2, second)
}

func TestBuildSuffixCollidesWithRealName(t *testing.T) {
	c, err := Build(staticLister{devices: []output.Device{
		{ID: 0, Name: "A (#5)"},
		{ID: 3, Name: "A"},
		{ID: 5, Name: "A"},
	}})
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Len(t, c.Names(), 3, "every device needs its own name")

	for _, id := range []int{0, 3, 5} {
		name, ok := c.NameOf(id)
		require.True(t, ok)
		got, ok := c.Lookup(name)
		require.True(t, ok, "name %q should resolve", name)
		assert.Equal(t, id, got)
	}

	name, _ := c.NameOf(0)
	assert.Equal(t, "A (#5)", name)
	name, _ = c.NameOf(5)
	assert.Equal(t, "A (#5-2)", name)
}

func TestBuildSkipsInvalidIDs(t *testing.T) {
	c, err := Build(staticLister{devices: []output.Device{
		{ID: -1, Name: "Broken"},
		{ID: 4, Name: "Speakers"},
		{ID: 4, Name: "Speakers again"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	_, ok := c.Lookup("Broken")
	assert.False(t, ok)
}

func TestBuildEnumerationError(t *testing.T) {
	_, err := Build(staticLister{err: errors.New("no audio subsystem")})
	assert.Error(t, err)
}

func TestDevicesReturnsCopy(t *testing.T) {
	c, err := Build(staticLister{devices: []output.Device{{ID: 0, Name: "Speakers"}}})
	require.NoError(t, err)

	devices := c.Devices()
	devices[0].Name = "mutated"
	assert.Equal(t, "Speakers", c.Devices()[0].Name)
}

func TestBuildFromNullBackend(t *testing.T) {
	c, err := Build(output.NewNull(false))
	require.NoError(t, err)
	_, ok := c.Lookup("Null Output")
	assert.True(t, ok)
}
