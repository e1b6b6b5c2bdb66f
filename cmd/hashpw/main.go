// Command hashpw prints the Argon2id hash of a password, for use as
// SUBSIDY_ADMIN_PASSWORD_HASH.
package main

import (
	"fmt"
	"os"

	"subsidy-ledger/internal/service"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpw <password>")
		os.Exit(2)
	}

	hash, err := service.NewArgon2HashService().Hash(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashing failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
