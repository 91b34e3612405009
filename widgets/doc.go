// Package widgets provides concrete render.Widget implementations: bordered
// blocks, text paragraphs, gauges, sparklines, lists and area clearing.
//
// Widgets are plain value structs configured by field; zero values are usable
// and render with default styles. Rendering never writes outside the area
// it is given.
package widgets
