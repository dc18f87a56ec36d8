// Package sequence works out what a stockshot selection is: a single video
// clip, an explicit set of frames, or one frame whose numbered siblings
// should be pulled in from the same directory.
package sequence
