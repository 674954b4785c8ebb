// derive_vector prints the Octra derivation chain for a BIP39 mnemonic for testing.
//
// Usage:
//
//	go run ./scripts/derive_vector "your 12 word seed phrase here"
//
// Or with stdin:
//
//	echo "your 12 word seed phrase" | go run ./scripts/derive_vector
//
// Every intermediate value is printed so the chain can be cross-checked
// field by field against the official web client's export for the same
// phrase: entropy, BIP39 seed, chain code, keys, and the oct address.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/complex-gh/octwallet"
)

func main() {
	var mnemonic string

	if len(os.Args) > 1 {
		mnemonic = strings.Join(os.Args[1:], " ")
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			mnemonic = strings.TrimSpace(scanner.Text())
		}
	}

	if mnemonic == "" {
		fmt.Fprintln(os.Stderr, "Usage: derive_vector \"12 word seed phrase\"")
		fmt.Fprintln(os.Stderr, "   or: echo \"seed phrase\" | derive_vector")
		os.Exit(1)
	}

	w, err := octwallet.WalletFromMnemonic(mnemonic)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer w.Zeroize()

	fmt.Printf("entropy     %s\n", w.EntropyHex())
	fmt.Printf("bip39 seed  %s\n", w.SeedHex())
	fmt.Printf("chain code  %s\n", w.ChainCodeHex())
	fmt.Printf("public hex  %s\n", w.PublicKeyHex())
	fmt.Printf("private b64 %s\n", w.PrivateKeyB64())
	fmt.Printf("public b64  %s\n", w.PublicKeyB64())
	fmt.Printf("address     %s\n", w.Address())
}
