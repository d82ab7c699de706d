package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage information to the given writer.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `berdump - BER element inspector

Usage:
  berdump <command> [options]

Commands:
  dump        Print the element tree of BER data
  oid         Encode or decode object identifiers
  config      Configuration management
  version     Show version information

Use "berdump <command> -h" for more information about a command.
`)
}

// printDumpUsage prints the dump command usage.
func printDumpUsage(w io.Writer) {
	fmt.Fprint(w, `Print the element tree of BER data

Usage:
  berdump dump [options] [file]

Reads from stdin when no file is given.

Options:
  -config string
        Path to configuration file
  -format string
        Output format: text, json, yaml, msgpack (default "text")
  -input string
        Input encoding: auto, hex, binary (default "auto")
  -ldap
        Decode the data as an LDAPMessage envelope
  -trace
        Log every decoded unit (overrides config)
  -h, -help
        Show this help message

Environment Variables:
  LBER_CODEC_MODE                Override codec mode
  LBER_CODEC_TRACE               Override trace output
  LBER_CODEC_MAX_CONTENT_LENGTH  Override the content length limit
  LBER_LOGGING_LEVEL             Override log level
`)
}

// printOIDUsage prints the oid command usage.
func printOIDUsage(w io.Writer) {
	fmt.Fprint(w, `Encode or decode object identifiers

Usage:
  berdump oid <subcommand> <value>

Subcommands:
  encode      Print the content octets of a dotted OID in hex
  decode      Print the dotted form of hex content octets

Examples:
  berdump oid encode 1.2.840.113549
  berdump oid decode 2a864886f70d
`)
}

// printConfigUsage prints the config command usage.
func printConfigUsage(w io.Writer) {
	fmt.Fprint(w, `Configuration management

Usage:
  berdump config <subcommand> [options]

Subcommands:
  validate    Validate configuration file
  init        Generate default configuration
  show        Show effective configuration

Use "berdump config <subcommand> -h" for more information.
`)
}

// printVersionUsage prints the version command usage.
func printVersionUsage(w io.Writer) {
	fmt.Fprint(w, `Show version information

Usage:
  berdump version [options]

Options:
  -short
        Show only version number
  -h, -help
        Show this help message
`)
}
