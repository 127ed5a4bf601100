package symblob

import (
	"debug/elf"
	"errors"
	"io"
)

func isELF(magic [4]byte) bool {
	return string(magic[:]) == elf.ELFMAG
}

// resolveELF collects the data objects of the ELF symbol table.
func (img *Image) resolveELF(exe io.ReaderAt) error {
	f, err := elf.NewFile(exe)
	if err != nil {
		return newImageErr("invalid ELF executable (%s)", err)
	}
	img.order = f.ByteOrder

	syms, err := f.Symbols()
	if errors.Is(err, elf.ErrNoSymbols) { // stripped
		img.noSyms = true
		img.symbols = map[string]location{}
		return nil
	}
	if err != nil {
		return newImageErr("invalid ELF symbol table (%s)", err)
	}

	img.symbols = make(map[string]location)
	for _, s := range syms {
		if elf.ST_TYPE(s.Info) != elf.STT_OBJECT || s.Name == "" {
			continue
		}
		if s.Section == elf.SHN_UNDEF || s.Section >= elf.SHN_LORESERVE || int(s.Section) >= len(f.Sections) {
			continue
		}
		sect := f.Sections[s.Section]
		if s.Value < sect.Addr || s.Value-sect.Addr > sect.Size {
			continue
		}
		rel := s.Value - sect.Addr
		size := sect.Size - rel // bytes until the end of section
		if s.Size != 0 && s.Size < size {
			size = s.Size
		}

		loc := location{size: int64(size)}
		if sect.Type == elf.SHT_NOBITS {
			loc.zero = true
		} else {
			loc.offset = int64(sect.Offset + rel)
		}
		img.symbols[s.Name] = loc
	}
	return nil
}
