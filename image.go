package symblob

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/maja42/symblob/internal"
)

// Image represents an opened executable and the data symbols defined within.
// Lookups may be called concurrently; Close must not race with them.
type Image struct {
	path    string
	order   binary.ByteOrder
	data    []byte
	release func() error
	symbols map[string]location
	noSyms  bool // executable carries no symbol table
	closed  bool
}

// location describes where the bytes of a symbol are stored within the executable file.
type location struct {
	offset int64 // file offset
	size   int64 // bytes available to the symbol
	zero   bool  // symbol lives in a zero-filled section (bss) without file contents
}

// Open returns a new image of the running executable.
// The caller is responsible for closing it.
func Open() (*Image, error) {
	path, err := os.Executable()
	if err != nil {
		return nil, err
	}
	if p, err := filepath.EvalSymlinks(path); err == nil {
		// EvalSymlinks fails on Windows if the executable is located in the
		// remote SYSVOL volume from the domain controller.
		// It is therefore optional, any errors are ignored.
		path = p
	}
	return OpenExe(path)
}

var self struct {
	once sync.Once
	img  *Image
	err  error
}

// Self returns the image of the running executable.
// The image is opened on first use and stays open for the lifetime of the process.
// It must not be closed.
func Self() (*Image, error) {
	self.once.Do(func() {
		self.img, self.err = Open()
	})
	return self.img, self.err
}

// Lookup returns the record stored under the given symbol in the running executable.
func Lookup(name string) (*Record, error) {
	img, err := Self()
	if err != nil {
		return nil, &SymbolErr{Symbol: name, Reason: "cannot open executable image: " + err.Error()}
	}
	return img.Lookup(name)
}

// OpenExe returns the image of an arbitrary executable.
// ELF and Mach-O executables are supported.
func OpenExe(exePath string) (*Image, error) {
	exe, err := os.Open(exePath)
	if err != nil {
		return nil, err
	}
	defer exe.Close()

	info, err := exe.Stat()
	if err != nil {
		return nil, err
	}

	img := &Image{path: exePath}
	if err := img.resolveSymbols(exe); err != nil {
		return nil, err
	}

	data, release, err := mapFile(exe, info.Size())
	if err != nil {
		return nil, err
	}
	img.data = data
	img.release = release

	// Drop symbols whose contents are not within the file (e.g. file was truncated)
	for name, loc := range img.symbols {
		if !loc.zero && loc.offset+loc.size > int64(len(data)) {
			delete(img.symbols, name)
		}
	}
	return img, nil
}

func (img *Image) resolveSymbols(exe io.ReaderAt) error {
	var magic [4]byte
	if _, err := exe.ReadAt(magic[:], 0); err != nil {
		if err == io.EOF {
			return newImageErr("unsupported executable format")
		}
		return err
	}

	switch {
	case isELF(magic):
		return img.resolveELF(exe)
	case isMachO(magic):
		return img.resolveMachO(exe)
	default:
		return newImageErr("unsupported executable format")
	}
}

// Close releases the image.
// Records obtained from the image must not be used afterwards.
// Close will return an error if it has already been called.
func (img *Image) Close() error {
	if img.closed {
		return os.ErrClosed
	}
	img.closed = true
	img.symbols = nil
	img.data = nil
	return img.release()
}

// Lookup returns the record stored under the given symbol.
func (img *Image) Lookup(name string) (*Record, error) {
	if img.closed {
		return nil, &SymbolErr{Symbol: name, Reason: "image closed"}
	}
	loc, ok := img.symbols[name]
	if !ok {
		if img.noSyms {
			return nil, &SymbolErr{Symbol: name, Reason: "no symbol table"}
		}
		return nil, &SymbolErr{Symbol: name, Reason: "undefined symbol"}
	}
	if loc.zero {
		// Zero-filled: the length field reads as zero as long as it fits.
		if loc.size < internal.HeaderSize {
			return splitRecord(name, nil, img.order)
		}
		return &Record{name: name, payload: []byte{}}, nil
	}
	return splitRecord(name, img.data[loc.offset:loc.offset+loc.size], img.order)
}

// Symbols returns the sorted names of all data symbols.
func (img *Image) Symbols() []string {
	if len(img.symbols) == 0 {
		return nil
	}
	l := make([]string, 0, len(img.symbols))
	for name := range img.symbols {
		l = append(l, name)
	}
	sort.Strings(l)
	return l
}

// Count returns the number of data symbols.
func (img *Image) Count() int {
	return len(img.symbols)
}

// Path returns the path of the executable.
func (img *Image) Path() string {
	return img.path
}

// ByteOrder returns the byte order of the executable's target machine.
// Record length fields are interpreted in this order.
func (img *Image) ByteOrder() binary.ByteOrder {
	return img.order
}
