// Package main provides the pasta CLI entry point.
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:]))
}
