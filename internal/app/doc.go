// Package app wires the soundboard together: output backend, device
// catalog, sound registry, clip player and the terminal UI.
package app
