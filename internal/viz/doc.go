// Package viz renders analysis results for the terminal.
//
//   - [Plot]: asciigraph line plot of a stress series
//   - [RenderReport]: lipgloss panel with the modulus, peak and run list
//   - [SpreadLine]: spread relative to the mean along the curve
//
// Nothing here writes files; output is returned as strings so the CLI
// decides where it goes.
package viz
