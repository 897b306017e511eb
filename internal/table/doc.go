// Package table holds the in-memory translation table: ordered entries,
// each mapping language codes to text, and the language column order
// that the loader seeds from the first entry of a file.
package table
