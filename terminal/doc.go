// Package terminal provides the cell value types and the backends that put
// them on a character grid.
//
// Features:
//   - Color, Attr, Style and Cell value types shared with the buffer package
//   - Backend capability interface consumed by the render package
//   - ANSIBackend: direct escape-sequence output to any io.Writer with cursor
//     tracking and SGR coalescing, true color and 256-color palettes
//   - TcellBackend: adapter over a tcell.Screen
//   - TestBackend: in-memory grid with failure injection for tests
//   - Raw mode, SIGWINCH resize detection and panic-safe terminal restoration
//
// The ANSI path bypasses terminfo/termcap entirely and targets
// xterm-compatible terminals on Linux, macOS and the BSDs.
package terminal
