package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/KilimcininKorOglu/lber/internal/ber"
	"github.com/KilimcininKorOglu/lber/internal/config"
	"github.com/KilimcininKorOglu/lber/internal/ldap"
)

var (
	errNoInput      = errors.New("no input: pass a file or pipe data to stdin")
	errOddHexDigits = errors.New("hex input has an odd number of digits")
)

// dumpOptions controls how writeDump renders data.
type dumpOptions struct {
	format string
	ldap   bool
	codec  ber.Options
}

// dumpCmd handles the dump command.
func dumpCmd(args []string) int {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	configFile := fs.String("config", "", "Path to configuration file")
	format := fs.String("format", "text", "Output format: text, json, yaml, msgpack")
	input := fs.String("input", "auto", "Input encoding: auto, hex, binary")
	asLDAP := fs.Bool("ldap", false, "Decode the data as an LDAPMessage envelope")
	trace := fs.Bool("trace", false, "Log every decoded unit")
	help := fs.Bool("h", false, "Show help message")
	helpLong := fs.Bool("help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *help || *helpLong {
		printDumpUsage(os.Stdout)
		return 0
	}

	*format = strings.ToLower(*format)
	switch *format {
	case "text", "json", "yaml", "msgpack":
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown output format %q\n", *format)
		return 1
	}

	cfg, err := loadDumpConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if *trace {
		cfg.Codec.Trace = true
	}
	if errs := config.ValidateConfig(cfg); len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Configuration errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		return 1
	}

	log := cfg.Logger()
	codec, err := cfg.Options(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	raw, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	data, err := decodeInput(raw, *input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log.Debug("dump input", "bytes", len(data), "format", *format, "ldap", *asLDAP)

	opts := dumpOptions{format: *format, ldap: *asLDAP, codec: codec}
	if err := writeDump(os.Stdout, data, opts); err != nil {
		if *asLDAP {
			result := ldap.ResultForError(err)
			fmt.Fprintf(os.Stderr, "Error: %v (%s)\n", err, result.ResultCode)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// loadDumpConfig loads path, or the defaults with environment overrides
// when path is empty.
func loadDumpConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.ParseConfig(nil, config.FormatYAML)
	}
	return config.LoadConfig(path)
}

// readInput reads path, or stdin when path is empty or "-". An interactive
// stdin is refused.
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errNoInput
		}
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// decodeInput converts raw input to BER octets according to encoding.
func decodeInput(raw []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "binary":
		return raw, nil
	case "hex":
		return decodeHex(raw)
	case "", "auto":
		if looksHex(raw) {
			return decodeHex(raw)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("unknown input encoding %q", encoding)
	}
}

// looksHex reports whether raw holds an even number of hex digits with only
// whitespace or colons between them.
func looksHex(raw []byte) bool {
	digits := 0
	for _, b := range raw {
		switch {
		case isHexDigit(b):
			digits++
		case isHexSeparator(b):
		default:
			return false
		}
	}
	return digits > 0 && digits%2 == 0
}

// decodeHex decodes hex digits, ignoring separators.
func decodeHex(raw []byte) ([]byte, error) {
	digits := make([]byte, 0, len(raw))
	for _, b := range raw {
		if isHexSeparator(b) {
			continue
		}
		digits = append(digits, b)
	}
	if len(digits)%2 != 0 {
		return nil, errOddHexDigits
	}
	out := make([]byte, hex.DecodedLen(len(digits)))
	if _, err := hex.Decode(out, digits); err != nil {
		return nil, err
	}
	return out, nil
}

func isHexDigit(b byte) bool {
	return ('0' <= b && b <= '9') || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F')
}

func isHexSeparator(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == ':'
}

// writeDump renders data as an element tree, or as an LDAP message summary
// when opts.ldap is set.
func writeDump(w io.Writer, data []byte, opts dumpOptions) error {
	if opts.ldap {
		summary, err := summarizeMessage(data, opts.codec)
		if err != nil {
			return err
		}
		if opts.format == "text" {
			return writeMessageText(w, summary)
		}
		return encodeValue(w, summary, opts.format)
	}

	elems, err := ber.ParseElements(data, opts.codec)
	if opts.format == "text" {
		if werr := ber.WriteTree(w, elems); werr != nil {
			return werr
		}
		return err
	}
	if err != nil {
		return err
	}
	return encodeValue(w, elems, opts.format)
}

// encodeValue writes v in one of the structured output formats.
func encodeValue(w io.Writer, v interface{}, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "msgpack":
		return msgpack.NewEncoder(w).Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
