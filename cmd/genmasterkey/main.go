// Command genmasterkey writes a random 32 byte signing key for devbackend as
// hex.
package main

import (
	"flag"
	"fmt"
	"os"

	"skinanalyze/internal/crypto"
	"skinanalyze/internal/files"
)

func main() {
	out := flag.String("out", "master.key", "key file to create")
	flag.Parse()

	key, err := crypto.RandomBytes(crypto.KeySize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating random key: %v\n", err)
		os.Exit(1)
	}
	if err := files.WriteHexKey(*out, key); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Master key written to %s\n", *out)
}
