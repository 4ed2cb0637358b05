// Package lessons runs word-typing exercises.
//
// A Lesson shows one word at a time from the selected level. Letters typed
// while a lesson is active go to the lesson instead of the text buffer; the
// word completes on its own once every letter matches, or the child presses
// Enter to check it. Every fifth correct word is a milestone.
//
// Levels come from a Pack. The built-in pack has beginner, intermediate and
// advanced words; more can be loaded from TOML files and merged in.
package lessons
