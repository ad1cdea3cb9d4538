// Package viz turns rendered frames into terminal output.
//
//   - [Presenter]: downsamples a raster frame onto a colored Braille [Canvas]
//   - [CaptionView], [StatusLine], [ProgressBar]: lipgloss text around the frame
//   - [PopulationGraph]: asciigraph plot of recent population
//   - Themes for the surrounding text, cycled with [NextTheme]
package viz
