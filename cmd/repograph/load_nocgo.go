//go:build !cgo

package main

import "fmt"

func runLoad([]string) error {
	return fmt.Errorf("load requires a cgo-enabled build (KuzuDB backend)")
}
