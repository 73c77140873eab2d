//go:build !windows
// +build !windows

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "winsec reads Windows security descriptors and only runs on windows")
	os.Exit(1)
}
