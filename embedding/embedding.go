package embedding

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"os"
	"sort"

	"github.com/maja42/symblob/internal"
)

// PrintlnFunc is used for logging the embedding progress.
type PrintlnFunc func(format string, args ...interface{})

// ParseByteOrder returns the byte order with the given name ("native", "little" or "big").
// Record length fields must be written in the byte order of the machine the executable is built for.
func ParseByteOrder(name string) (binary.ByteOrder, error) {
	switch name {
	case "", "native":
		return binary.NativeEndian, nil
	case "little":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("unknown byte order %q", name)
}

// SymbolName returns the name under which the linker stores a package-level variable.
// Variables of main packages use "main" as their import path.
func SymbolName(importPath, varName string) string {
	return importPath + "." + varName
}

// WriteRecord writes the payload as record (length field followed by the payload) to out.
// The length field is written in the given byte order.
//
// The payload is seeked to its start before usage.
func WriteRecord(out io.Writer, payload io.ReadSeeker, order binary.ByteOrder) error {
	size, err := getSize(payload)
	if err != nil {
		return fmt.Errorf("payload: %w", err)
	}
	if err := internal.WriteHeader(out, order, uint64(size)); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := io.CopyN(out, payload, size); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

// EmbedSource writes Go source code declaring one record per variable.
//
// out receives the formatted source file.
//
// pkg is the name of the package the source file belongs to.
//
// vars is a map of variable names to the corresponding readers for the content.
// Every variable becomes a byte array holding a complete record,
// resolvable at runtime under the symbol "<import path>.<variable name>".
// The generated file references all arrays, so that the linker keeps them in the executable.
//
// logger (optional) is used to report the progress during embedding.
//
// Note that all ReadSeekers are seeked to their start before usage,
// meaning the entirety of readable content is embedded. Use io.SectionReader to avoid this.
func EmbedSource(out io.Writer, pkg string, vars map[string]io.ReadSeeker, order binary.ByteOrder, logger PrintlnFunc) error {
	if logger == nil {
		logger = func(string, ...interface{}) {}
	}
	if !token.IsIdentifier(pkg) {
		return fmt.Errorf("invalid package name %q", pkg)
	}
	if len(vars) == 0 {
		return errors.New("no records to embed")
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		if !token.IsIdentifier(name) || name == "_" {
			return fmt.Errorf("invalid variable name %q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	src := source{Package: pkg}
	for _, name := range names {
		var rec bytes.Buffer
		if err := WriteRecord(&rec, vars[name], order); err != nil {
			return fmt.Errorf("record %q: %w", name, err)
		}
		logger("Adding %q (%d bytes)", name, rec.Len()-internal.HeaderSize)
		src.Records = append(src.Records, sourceRecord{
			Name:  name,
			Size:  rec.Len(),
			Lines: hexLines(rec.Bytes()),
		})
	}

	var buf bytes.Buffer
	if err := sourceTemplate.Execute(&buf, src); err != nil {
		return fmt.Errorf("generate source: %w", err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format source: %w", err)
	}

	logger("Writing source (%d bytes)", len(formatted))
	if _, err := out.Write(formatted); err != nil {
		return fmt.Errorf("write source: %w", err)
	}
	return nil
}

// EmbedFiles embeds the given files as records into Go source code.
//
// files is a map of variable names to the respective file's filepath.
//
// See EmbedSource for more information.
func EmbedFiles(out io.Writer, pkg string, files map[string]string, order binary.ByteOrder, logger PrintlnFunc) error {
	reader := make(map[string]io.ReadSeeker, len(files))

	for name, path := range files {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open record %q (%q): %w", name, path, err)
		}
		//goland:noinspection ALL
		defer file.Close()
		reader[name] = file
	}
	return EmbedSource(out, pkg, reader, order, logger)
}

// getSize returns the size of the readable content.
// The reader is seeked to the beginning afterwards.
func getSize(r io.ReadSeeker) (int64, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return size, nil
}
