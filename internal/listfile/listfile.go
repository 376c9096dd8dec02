// Package listfile loads the flat text files the workflows feed on:
// destination addresses, private keys and proxies, one entry per line.
package listfile

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// TextFiles lists the .txt files directly under dir, sorted by name.
func TextFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", dir)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txt" {
			continue
		}
		files = append(files, e.Name())
	}
	return files, nil
}

func readLines(file string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", file)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, errors.Wrapf(scanner.Err(), "read %s", file)
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// PrivateKeys loads hex private keys from file. A line qualifies when,
// after stripping an optional 0x prefix, exactly 64 hex characters remain.
// Anything else is silently dropped.
func PrivateKeys(file string) ([]string, error) {
	lines, err := readLines(file)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, line := range lines {
		key := strings.TrimPrefix(line, "0x")
		if len(key) == 64 && isHex(key) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Addresses loads destination addresses from file, keeping only lines of
// exactly 42 characters (0x plus 40 hex digits).
func Addresses(file string) ([]string, error) {
	lines, err := readLines(file)
	if err != nil {
		return nil, err
	}
	var addrs []string
	for _, line := range lines {
		if len(line) == 42 {
			addrs = append(addrs, line)
		}
	}
	return addrs, nil
}

// Lines loads every non-empty line of file verbatim.
func Lines(file string) ([]string, error) {
	return readLines(file)
}
