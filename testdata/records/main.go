// Command records links a fixed set of records and writes the payload of the
// record stored under the symbol given as its only argument to stdout.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/maja42/symblob"
)

// The length fields are little endian.
var (
	helloRecord     = [13]byte{5, 0, 0, 0, 0, 0, 0, 0, 'h', 'e', 'l', 'l', 'o'}
	binaryRecord    = [12]byte{3, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0, 0xaa}
	emptyRecord     = [8]byte{0, 0, 0, 0, 0, 0, 0, 0}
	truncatedRecord = [10]byte{9, 0, 0, 0, 0, 0, 0, 0, 'a', 'b'}
	tinyRecord      = [4]byte{1, 2, 3, 4}
	zeroRecord      [16]byte
)

func init() {
	// keep the records linked
	if time.Now().Nanosecond() == -42 {
		fmt.Print(&helloRecord, &binaryRecord, &emptyRecord, &truncatedRecord, &tinyRecord, &zeroRecord)
	}
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: records SYMBOL")
		os.Exit(2)
	}
	rec, err := symblob.Lookup(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if _, err := rec.WriteTo(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
