// Package formats reads and writes the Ragnarok Online ground mesh (GND) and
// ground altitude table (GAT) files.
package formats
