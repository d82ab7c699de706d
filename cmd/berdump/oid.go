package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/KilimcininKorOglu/lber/internal/ber"
)

// oidCmd handles the oid command.
func oidCmd(args []string) int {
	if len(args) == 0 {
		printOIDUsage(os.Stdout)
		return 0
	}

	// Check for help flags
	if args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printOIDUsage(os.Stdout)
		return 0
	}

	var convert func(string) (string, error)
	switch args[0] {
	case "encode":
		convert = encodeOID
	case "decode":
		convert = decodeOID
	default:
		fmt.Fprintf(os.Stderr, "Unknown oid subcommand: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'berdump oid help' for usage.")
		return 1
	}

	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "Error: oid %s takes exactly one value\n", args[0])
		return 1
	}
	out, err := convert(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(out)
	return 0
}

// encodeOID returns the hex content octets of a dotted OID.
func encodeOID(dotted string) (string, error) {
	der, err := ber.EncodeOID(dotted)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(der), nil
}

// decodeOID returns the dotted form of hex content octets.
func decodeOID(s string) (string, error) {
	der, err := decodeHex([]byte(s))
	if err != nil {
		return "", err
	}
	return ber.DecodeOID(der)
}
