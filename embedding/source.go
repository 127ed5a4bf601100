package embedding

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/maja42/symblob/internal"
)

type source struct {
	Package string
	Records []sourceRecord
}

type sourceRecord struct {
	Name  string
	Size  int // record size, including the length field
	Lines []string
}

func (r sourceRecord) PayloadSize() int {
	return r.Size - internal.HeaderSize
}

// The init function contains dead code that uses every record and is not eliminated by the compiler.
// Without it, the linker would drop the unreferenced arrays.
var sourceTemplate = template.Must(template.New("source").Parse(`// Code generated by symblob gen. DO NOT EDIT.

package {{.Package}}

import (
	"fmt"
	"time"
)
{{range .Records}}
// {{.Name}} holds a length-prefixed record with {{.PayloadSize}} bytes of payload.
var {{.Name}} = [{{.Size}}]byte{
{{range .Lines}}	{{.}}
{{end}}}
{{end}}
func init() {
	if time.Now().Nanosecond() == -42 {
		fmt.Print({{range $i, $r := .Records}}{{if $i}}, {{end}}&{{$r.Name}}{{end}})
	}
}
`))

const bytesPerLine = 12

// hexLines formats data as lines of comma separated hex literals.
func hexLines(data []byte) []string {
	var lines []string
	for len(data) > 0 {
		n := bytesPerLine
		if len(data) < n {
			n = len(data)
		}
		var sb strings.Builder
		for i, b := range data[:n] {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "0x%02x,", b)
		}
		lines = append(lines, sb.String())
		data = data[n:]
	}
	return lines
}
