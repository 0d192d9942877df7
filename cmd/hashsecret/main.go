// Command hashsecret prints the bcrypt hash to put in AUTH_CLIENT_SECRET_HASH.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/supportdesk/reactivation-service/internal/auth"
)

func main() {
	cost := flag.Int("cost", 12, "bcrypt cost")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hashsecret [-cost N] <secret>")
		os.Exit(2)
	}

	hash, err := auth.HashSecret(flag.Arg(0), *cost)
	if err != nil {
		log.Fatalf("hash secret: %v", err)
	}
	fmt.Println(hash)
}
