// Package kernel is the pixel-processing library of the engine. Every kernel
// is a pure function from one imagedata.ImageData (plus scalar parameters)
// to a newly allocated one; inputs are never written to, and explicit seeds
// are the only source of randomness. Alpha passes through every kernel
// untouched.
package kernel
