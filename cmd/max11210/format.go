package main

import "fmt"

// The 0x prefix is not counted in the padded width.
func hexByte(v byte) string {
	return fmt.Sprintf("%#02x", v)
}

func hexWord(v uint32) string {
	return fmt.Sprintf("%#06x", v&0xFFFFFF)
}
