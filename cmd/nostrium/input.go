package main

import (
	"fmt"
	"syscall"

	"golang.org/x/term"
)

// readSecret prints prompt and reads a line from the terminal without
// echoing it.
func readSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("error reading input: %v", err)
	}
	return string(raw), nil
}
