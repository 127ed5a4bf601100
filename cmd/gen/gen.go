package gen

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/maja42/symblob/embedding"
	"github.com/maja42/symblob/internal/log"

	"github.com/urfave/cli/v3"
)

const categoryGen = "gen"

const outFlag = "out"
const packageFlag = "package"
const formatFlag = "format"
const byteOrderFlag = "byte-order"
const attachmentsFlag = "attachments"
const forceFlag = "force"

const formatGo = "go"
const formatRaw = "raw"

// Config describes a single generator run.
type Config struct {
	Out       string            // output path, "-" for stdout
	Package   string            // package of the generated source
	Format    string            // formatGo or formatRaw
	ByteOrder string            // byte order of the length fields
	Records   map[string]string // variable name -> file path
	Force     bool              // overwrite an existing output file
}

// GetCommand returns the gen command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "gen",
		Usage:     "Generate records from files",
		ArgsUsage: "NAME=PATH...",
		Description: strings.Join([]string{
			"The go format writes a Go source file with one byte array per record.",
			"Once linked, a record is available under the symbol <import path>.<NAME>, e.g. main.fileContent.",
			"The raw format writes a single record, suitable for go:embed.",
		}, "\n"),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			records, err := parseRecordArgs(cmd.Args().Slice())
			if err != nil {
				return err
			}
			if path := cmd.String(attachmentsFlag); path != "" {
				list, err := loadAttachmentList(path)
				if err != nil {
					return err
				}
				for name, file := range list {
					if _, ok := records[name]; ok {
						return fmt.Errorf("record %q specified twice", name)
					}
					records[name] = file
				}
			}

			cfg := Config{
				Out:       cmd.String(outFlag),
				Package:   cmd.String(packageFlag),
				Format:    cmd.String(formatFlag),
				ByteOrder: cmd.String(byteOrderFlag),
				Records:   records,
				Force:     cmd.Bool(forceFlag),
			}
			return Run(cfg)
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     outFlag,
				Aliases:  []string{"o"},
				Usage:    "Output file, must not exist yet unless --force is given (- for stdout)",
				Category: categoryGen,
				Value:    "-",
			},
			&cli.StringFlag{
				Name:     packageFlag,
				Aliases:  []string{"p"},
				Usage:    "Package name of the generated source",
				Category: categoryGen,
				Value:    "main",
			},
			&cli.StringFlag{
				Name:     formatFlag,
				Aliases:  []string{"f"},
				Usage:    "Output format (go|raw)",
				Category: categoryGen,
				Value:    formatGo,
			},
			&cli.StringFlag{
				Name:     byteOrderFlag,
				Usage:    "Byte order of the target machine (native|little|big)",
				Category: categoryGen,
				Value:    "native",
			},
			&cli.StringFlag{
				Name:     attachmentsFlag,
				Aliases:  []string{"a"},
				Usage:    "Path to JSON file mapping record names to file paths",
				Category: categoryGen,
			},
			&cli.BoolFlag{
				Name:     forceFlag,
				Usage:    "Overwrite the output file if it exists",
				Category: categoryGen,
			},
		},
	}
}

// Run generates the configured records.
func Run(cfg Config) error {
	order, err := embedding.ParseByteOrder(cfg.ByteOrder)
	if err != nil {
		return err
	}
	if len(cfg.Records) == 0 {
		return errors.New("no records specified")
	}
	if cfg.Format != formatGo && cfg.Format != formatRaw {
		return fmt.Errorf("unknown format %q", cfg.Format)
	}
	if cfg.Format == formatRaw && len(cfg.Records) != 1 {
		return fmt.Errorf("raw format requires exactly one record, got %d", len(cfg.Records))
	}

	out, finish, err := openOutput(cfg.Out, cfg.Force)
	if err != nil {
		return err
	}

	if cfg.Format == formatRaw {
		err = writeRaw(out, cfg.Records, order)
	} else {
		err = embedding.EmbedFiles(out, cfg.Package, cfg.Records, order, log.Progress)
	}
	if closeErr := finish(err == nil); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	if cfg.Format == formatGo {
		importPath := cfg.Package
		if importPath != "main" {
			importPath = "<import path>"
		}
		for _, name := range sortedNames(cfg.Records) {
			log.InfoMsg("Record %q resolvable as symbol %q\n", name, embedding.SymbolName(importPath, name))
		}
	}
	return nil
}

func writeRaw(out io.Writer, records map[string]string, order binary.ByteOrder) error {
	for name, path := range records {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open record %q (%q): %w", name, path, err)
		}
		defer file.Close()

		log.Progress("Writing %q", name)
		if err := embedding.WriteRecord(out, file, order); err != nil {
			return fmt.Errorf("record %q: %w", name, err)
		}
	}
	return nil
}

// openOutput opens the output for writing.
// finish must be called after writing; unsuccessful output files are removed.
func openOutput(path string, force bool) (io.Writer, func(success bool) error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func(bool) error { return nil }, nil
	}
	flags := os.O_CREATE | os.O_EXCL | os.O_WRONLY
	if force {
		flags = os.O_CREATE | os.O_TRUNC | os.O_WRONLY
	}
	out, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open output file: %w", err)
	}
	finish := func(success bool) error {
		err := out.Close()
		if !success {
			_ = os.Remove(path)
			return nil
		}
		return err
	}
	return out, finish, nil
}

// parseRecordArgs parses NAME=PATH arguments.
func parseRecordArgs(args []string) (map[string]string, error) {
	records := make(map[string]string, len(args))
	for _, arg := range args {
		name, path, ok := strings.Cut(arg, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid record %q, expected NAME=PATH", arg)
		}
		if _, ok := records[name]; ok {
			return nil, fmt.Errorf("record %q specified twice", name)
		}
		records[name] = path
	}
	return records, nil
}

// loadAttachmentList reads a JSON object mapping record names to file paths.
func loadAttachmentList(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open attachment list: %w", err)
	}
	var list map[string]string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("read attachment list %q: %w", path, err)
	}
	return list, nil
}

func sortedNames(records map[string]string) []string {
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
