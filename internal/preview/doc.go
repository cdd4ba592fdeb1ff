// Package preview shows atlases for debugging: in a terminal with tcell,
// and as a color-coded image that marks every lookup entry.
package preview
