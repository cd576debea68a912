// ABOUTME: Tests for version constants
// ABOUTME: Ensures version information is properly defined
package version

import (
	"strings"
	"testing"
)

func TestVersionDefined(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if len(Version) > 100 {
		t.Error("Version string is unreasonably long")
	}
}

func TestProductDefined(t *testing.T) {
	if Product == "" {
		t.Error("Product should not be empty")
	}
	if len(Product) > 100 {
		t.Error("Product name is unreasonably long")
	}
}

func TestManufacturerDefined(t *testing.T) {
	if Manufacturer == "" {
		t.Error("Manufacturer should not be empty")
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, Product) {
		t.Errorf("expected %q to start with %q", s, Product)
	}
	if !strings.HasSuffix(s, Version) {
		t.Errorf("expected %q to end with %q", s, Version)
	}
}

func TestBanner(t *testing.T) {
	b := Banner()
	if !strings.HasPrefix(b, String()) {
		t.Errorf("expected %q to start with %q", b, String())
	}
	if !strings.HasSuffix(b, Manufacturer) {
		t.Errorf("expected %q to end with %q", b, Manufacturer)
	}
}
