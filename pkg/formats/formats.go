// Package formats provides readers and writers for the interchange formats
// used by the ivy generator.
package formats

// Note: Wavefront OBJ geometry and MTL material libraries are in obj.go
