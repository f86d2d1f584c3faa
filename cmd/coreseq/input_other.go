//go:build !unix

package main

import "os"

func readInput(path string) ([]byte, error) {
	return os.ReadFile(path)
}
