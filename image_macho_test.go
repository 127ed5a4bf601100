package symblob

import (
	"bytes"
	"debug/macho"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/maja42/symblob/internal/exetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// machoFixture describes a minimal 64-bit Mach-O executable with a __data and a zerofill __bss section.
//
//	0x1000  _main.helloRecord      5 bytes payload, padded to 16 bytes
//	0x1010  _fileContent           2 bytes payload, padded to 16 bytes
//	0x1020  _main.truncatedRecord  length 9, followed by 2 bytes and the next symbol
//	0x102a  _main.tailRecord       1 byte payload until the end of the section
//	0x2000  _main.zeroRecord       16 bytes in __bss
type machoFixture struct {
	order  binary.ByteOrder
	symtab bool
}

const (
	machoDataAddr = 0x1000
	machoBssAddr  = 0x2000
	machoBssSize  = 16
)

func (fx machoFixture) record(length uint64, payload string, size int) []byte {
	b := make([]byte, size)
	fx.order.PutUint64(b, length)
	copy(b[8:], payload)
	return b
}

func (fx machoFixture) data() []byte {
	var data []byte
	data = append(data, fx.record(5, "hello", 16)...)
	data = append(data, fx.record(2, "hi", 16)...)
	data = append(data, fx.record(9, "ab", 10)...)
	data = append(data, fx.record(1, "z", 9)...)
	return data
}

func (fx machoFixture) write(t *testing.T) string {
	const headerSize = 32
	const segmentSize = 72 + 2*80
	const symtabSize = 24
	const nlistSize = 16

	type symbol struct {
		name  string
		typ   uint8
		sect  uint8
		value uint64
	}
	symbols := []symbol{
		{"_main.helloRecord", 0x0f, 1, machoDataAddr},
		{"_fileContent", 0x0f, 1, machoDataAddr + 0x10},
		{"_main.truncatedRecord", 0x0e, 1, machoDataAddr + 0x20},
		{"_main.tailRecord", 0x0e, 1, machoDataAddr + 0x2a},
		{"_main.zeroRecord", 0x0f, 2, machoBssAddr},
		{"_main.debugEntry", 0x24, 1, machoDataAddr}, // N_FUN stab
		{"_undefinedRecord", 0x01, 0, 0},
	}

	data := fx.data()
	ncmd, cmdsz := uint32(1), uint32(segmentSize)
	if fx.symtab {
		ncmd, cmdsz = 2, segmentSize+symtabSize
	}
	dataOff := uint32(headerSize) + cmdsz
	symOff := (dataOff + uint32(len(data)) + 7) &^ 7
	strOff := symOff + uint32(len(symbols)*nlistSize)

	strtab := []byte{0}
	nlists := make([]macho.Nlist64, len(symbols))
	for i, s := range symbols {
		nlists[i] = macho.Nlist64{Name: uint32(len(strtab)), Type: s.typ, Sect: s.sect, Value: s.value}
		strtab = append(append(strtab, s.name...), 0)
	}

	name16 := func(s string) (b [16]byte) {
		copy(b[:], s)
		return b
	}

	buf := new(bytes.Buffer)
	write := func(v interface{}) {
		require.NoError(t, binary.Write(buf, fx.order, v))
	}
	write(macho.FileHeader{
		Magic: macho.Magic64,
		Cpu:   macho.CpuArm64,
		Type:  macho.TypeExec,
		Ncmd:  ncmd,
		Cmdsz: cmdsz,
	})
	write(uint32(0)) // reserved
	write(macho.Segment64{
		Cmd:     macho.LoadCmdSegment64,
		Len:     segmentSize,
		Name:    name16("__DATA"),
		Addr:    machoDataAddr,
		Memsz:   machoBssAddr + machoBssSize - machoDataAddr,
		Offset:  uint64(dataOff),
		Filesz:  uint64(len(data)),
		Maxprot: 3,
		Prot:    3,
		Nsect:   2,
	})
	write(macho.Section64{
		Name:   name16("__data"),
		Seg:    name16("__DATA"),
		Addr:   machoDataAddr,
		Size:   uint64(len(data)),
		Offset: dataOff,
		Align:  3,
	})
	write(macho.Section64{
		Name:  name16("__bss"),
		Seg:   name16("__DATA"),
		Addr:  machoBssAddr,
		Size:  machoBssSize,
		Align: 3,
		Flags: machoZerofill,
	})
	if fx.symtab {
		write(macho.SymtabCmd{
			Cmd:     macho.LoadCmdSymtab,
			Len:     symtabSize,
			Symoff:  symOff,
			Nsyms:   uint32(len(symbols)),
			Stroff:  strOff,
			Strsize: uint32(len(strtab)),
		})
	}
	require.Equal(t, int(dataOff), buf.Len())
	buf.Write(data)
	if fx.symtab {
		buf.Write(make([]byte, int(symOff)-buf.Len()))
		write(nlists)
		buf.Write(strtab)
	}

	path := filepath.Join(t.TempDir(), "records.macho")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestOpenExe_MachO(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			img, err := OpenExe(machoFixture{order: order, symtab: true}.write(t))
			require.NoError(t, err)
			defer img.Close()
			assert.Equal(t, order, img.ByteOrder())

			assert.Equal(t, []string{
				"fileContent",
				"main.helloRecord",
				"main.tailRecord",
				"main.truncatedRecord",
				"main.zeroRecord",
			}, img.Symbols())

			rec, err := img.Lookup("main.helloRecord")
			require.NoError(t, err)
			assert.Equal(t, []byte("hello"), rec.Bytes())

			// C symbols lose their leading underscore as well
			rec, err = img.Lookup("fileContent")
			require.NoError(t, err)
			assert.Equal(t, []byte("hi"), rec.Bytes())

			// bounded by the next symbol, not by the end of the section
			_, err = img.Lookup("main.truncatedRecord")
			assert.EqualError(t, err, `corrupt record "main.truncatedRecord" (length exceeds data)`)

			rec, err = img.Lookup("main.tailRecord")
			require.NoError(t, err)
			assert.Equal(t, []byte("z"), rec.Bytes())

			rec, err = img.Lookup("main.zeroRecord")
			require.NoError(t, err)
			assert.Zero(t, rec.Len())

			for _, name := range []string{"main.debugEntry", "undefinedRecord", "_fileContent", "_main.helloRecord"} {
				_, err = img.Lookup(name)
				assert.EqualError(t, err, name+": undefined symbol")
			}
		})
	}
}

func TestOpenExe_MachONoSymbolTable(t *testing.T) {
	img, err := OpenExe(machoFixture{order: binary.LittleEndian}.write(t))
	require.NoError(t, err)
	defer img.Close()

	assert.Nil(t, img.Symbols())
	_, err = img.Lookup("main.helloRecord")
	assert.EqualError(t, err, "main.helloRecord: no symbol table")
}

func TestOpenExe_MachOTruncated(t *testing.T) {
	path := machoFixture{order: binary.LittleEndian, symtab: true}.write(t)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:40], 0o644))

	img, err := OpenExe(path)
	assert.ErrorContains(t, err, "invalid Mach-O executable")
	var imgErr *ImageErr
	assert.True(t, errors.As(err, &imgErr))
	assert.Nil(t, img)
}

// TestOpenExe_DarwinBuild reads the records of testdata/records linked by the Go toolchain for macOS.
func TestOpenExe_DarwinBuild(t *testing.T) {
	exe := exetest.Target{GOOS: "darwin", GOARCH: "arm64"}.Build(t, recordsDir, ".")

	img, err := OpenExe(exe)
	require.NoError(t, err)
	defer img.Close()
	assert.Equal(t, binary.LittleEndian, img.ByteOrder())

	rec, err := img.Lookup("main.helloRecord")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), rec.Bytes())

	rec, err = img.Lookup("main.binaryRecord")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0xff, 0}, rec.Bytes())

	rec, err = img.Lookup("main.emptyRecord")
	require.NoError(t, err)
	assert.Zero(t, rec.Len())

	_, err = img.Lookup("main.fileContent")
	assert.EqualError(t, err, "main.fileContent: undefined symbol")
}
