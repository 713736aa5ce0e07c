// Package viz is the interactive terminal front end. [Model] is a Bubble Tea
// program that steps the ball once per tick and draws it on a braille
// [Canvas], so each character cell carries 2x4 dots.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N / . - Single frame while paused
//	R     - Reset to the initial state
//	T     - Cycle color themes
//	?     - Show help
//	Q     - Quit
package viz
