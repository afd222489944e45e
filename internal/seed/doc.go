// Package seed resets the emulator and repopulates it with demo data.
//
// Two sources exist: the built-in Baseline covering every collection the
// demo UI reads, and CUE seed files for custom data sets. CUE files declare
// a top-level "collection" struct mapping collection names to row lists;
// validation errors carry file positions.
package seed
