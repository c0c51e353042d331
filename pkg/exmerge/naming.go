package exmerge

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// NameGenerator returns the download name for a merged workbook.
type NameGenerator func() (string, error)

// RandomName names results merged_<n>.xlsx where n is a random 32-bit number.
func RandomName() (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("merged_%d.xlsx", binary.BigEndian.Uint32(b[:])), nil
}

// FixedName returns a generator that always yields name.
func FixedName(name string) NameGenerator {
	return func() (string, error) {
		return name, nil
	}
}
