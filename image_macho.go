package symblob

import (
	"debug/macho"
	"encoding/binary"
	"io"
	"sort"
	"strings"
)

// nlist type bits, see <mach-o/nlist.h>
const (
	machoStab = 0xe0
	machoType = 0x0e
	machoSect = 0x0e
)

// section types without file contents, see <mach-o/loader.h>
const (
	machoZerofill        = 0x1
	machoGBZerofill      = 0xc
	machoThreadZerofill  = 0x12
	machoSectionTypeMask = 0xff
)

func isMachO(magic [4]byte) bool {
	switch binary.BigEndian.Uint32(magic[:]) {
	case macho.Magic32, macho.Magic64:
		return true
	}
	switch binary.LittleEndian.Uint32(magic[:]) {
	case macho.Magic32, macho.Magic64:
		return true
	}
	return false
}

// resolveMachO collects the section-defined symbols of a thin Mach-O executable.
// Mach-O symbols carry no size, so a symbol extends to the next symbol within its section.
func (img *Image) resolveMachO(exe io.ReaderAt) error {
	f, err := macho.NewFile(exe)
	if err != nil {
		return newImageErr("invalid Mach-O executable (%s)", err)
	}
	img.order = f.ByteOrder
	img.symbols = make(map[string]location)

	if f.Symtab == nil {
		img.noSyms = true
		return nil
	}

	var syms []macho.Symbol
	for _, s := range f.Symtab.Syms {
		if s.Type&machoStab != 0 || s.Type&machoType != machoSect {
			continue
		}
		if s.Sect == 0 || int(s.Sect) > len(f.Sections) || s.Name == "" {
			continue
		}
		syms = append(syms, s)
	}
	sort.SliceStable(syms, func(i, j int) bool {
		return syms[i].Value < syms[j].Value
	})

	for i, s := range syms {
		sect := f.Sections[s.Sect-1]
		if s.Value < sect.Addr || s.Value-sect.Addr > sect.Size {
			continue
		}
		rel := s.Value - sect.Addr
		size := sect.Size - rel
		for _, next := range syms[i+1:] {
			if next.Sect == s.Sect && next.Value > s.Value {
				size = next.Value - s.Value
				break
			}
		}

		loc := location{size: int64(size)}
		switch sect.Flags & machoSectionTypeMask {
		case machoZerofill, machoGBZerofill, machoThreadZerofill:
			loc.zero = true
		default:
			loc.offset = int64(uint64(sect.Offset) + rel)
		}
		// C and Go symbols are prefixed with an underscore by the toolchains
		img.symbols[strings.TrimPrefix(s.Name, "_")] = loc
	}
	return nil
}
