// Package symblob reads length-prefixed records linked into executables.
//
// A record is a data symbol holding an 8-byte length field, in the byte order of the
// target machine, followed by that many bytes of payload. Records are generated with
// "symblob gen" and resolved by symbol name, e.g. main.fileContent, through the
// symbol table of an ELF or Mach-O executable.
//
// Lookup resolves records within the running executable, which therefore has to keep
// its symbol table. "go build" keeps it. Binaries produced by "go run" and "go test",
// or linked with -ldflags=-s, carry none; their lookups fail with "no symbol table".
package symblob
