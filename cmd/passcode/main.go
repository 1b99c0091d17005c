// Command passcode prints the bcrypt hash to put in passcode_hash.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"tempo/backend/internal/service"
)

func main() {
	passcode, err := readPasscode()
	if err != nil {
		log.Fatalf("read passcode: %v", err)
	}
	if passcode == "" {
		log.Fatal("passcode must not be empty")
	}

	hash, err := service.HashPasscode(passcode)
	if err != nil {
		log.Fatalf("hash passcode: %v", err)
	}
	fmt.Println(hash)
}

// readPasscode prompts without echo on a terminal and reads one line otherwise.
func readPasscode() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Passcode: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	fmt.Fprint(os.Stderr, "Repeat: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passcodes do not match")
	}
	return string(first), nil
}
