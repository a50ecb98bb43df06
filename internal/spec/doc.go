// Package spec implements the textual mini-language for plot option and
// compositor specifications.
//
// An options line names one or more element paths, each optionally followed
// by normalization, plot and style keyword groups in any order:
//
//	Image (interpolation=None) plot[show_title=False] Curve style(color='r')
//
// specifies interpolation=None as a style option and show_title=False as a
// plot option for Image, and color='r' as a style option for Curve. The
// three groups may be written with the long spellings norm{...}, plot[...]
// and style(...) or the short spellings {...}, [...] and (...).
//
// A compositor line defines derived elements:
//
//	data max (A * B) C [alpha=0.5]
//
// Both parsers consume their entire input line or fail; errors and warnings
// are reported as hcl.Diagnostics with ranges into the line.
package spec
