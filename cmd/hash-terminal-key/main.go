package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/hash-terminal-key/main.go <terminal-key>")
		fmt.Println("Example: go run cmd/hash-terminal-key/main.go \"counter-1-secret\"")
		os.Exit(1)
	}

	terminalKey := os.Args[1]

	// Hash the terminal key
	keyHash, err := bcrypt.GenerateFromPassword([]byte(terminalKey), 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash terminal key: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Terminal key hashed successfully!\n\n")
	fmt.Printf("TERMINAL_KEY_HASH=%s\n", string(keyHash))
	fmt.Printf("\n⚠️  IMPORTANT: Configure the counter with the key itself, not the hash.\n")
	fmt.Printf("\nUse the key in the Authorization header:\n")
	fmt.Printf("Authorization: Bearer %s\n", terminalKey)
}
