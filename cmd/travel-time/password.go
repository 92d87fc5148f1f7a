// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// errNoPassword is returned when the configuration has no password and
// there is no terminal to ask on.
var errNoPassword = errors.New("config has no password and stdin is not a terminal")

// promptPassword reads a password from the terminal on stdin without
// echo. The prompt is written to prompt.
func promptPassword(prompt io.Writer, username string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNoPassword
	}

	fmt.Fprintf(prompt, "Password for %s: ", username)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	if len(password) == 0 {
		return "", errors.New("password is empty")
	}
	return string(password), nil
}
