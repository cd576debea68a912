// ABOUTME: Product and version constants
// ABOUTME: Shown in the TUI header, the startup log and by --version
package version

// Version is overridden at build time with -ldflags "-X .../version.Version=..."
var Version = "0.1.0"

const (
	// Product is the display name
	Product = "Soundboard"

	// Manufacturer follows the product name in the startup banner
	Manufacturer = "Sendspin"
)

// String returns "Product Version"
func String() string {
	return Product + " " + Version
}

// Banner returns "Product Version by Manufacturer"
func Banner() string {
	return String() + " by " + Manufacturer
}
