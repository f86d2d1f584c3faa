//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// readInput maps the file read-only and copies it out, falling back to a
// plain read when mmap is unavailable (pipes, special files).
func readInput(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 || !info.Mode().IsRegular() {
		return os.ReadFile(path)
	}

	mapped, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return os.ReadFile(path)
	}
	defer unix.Munmap(mapped)

	data := make([]byte, len(mapped))
	copy(data, mapped)
	return data, nil
}
