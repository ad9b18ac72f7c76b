// Command gensecret prints fresh token signing secrets in .env format:
//
//	go run ./cmd/gensecret >> .env
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

const SecretKeyBytesLen = 32

var secretKeys = []string{"JWT_ACCESS_SECRET", "JWT_REFRESH_SECRET"}

func main() {
	if err := writeSecrets(os.Stdout, rand.Reader); err != nil {
		fmt.Fprintf(os.Stderr, "error while generating secret key: %v\n", err)
		os.Exit(1)
	}
}

// writeSecrets writes one KEY=hex line per secret, each from own random bytes
func writeSecrets(w io.Writer, random io.Reader) error {
	for _, key := range secretKeys {
		b := make([]byte, SecretKeyBytesLen)
		if _, err := io.ReadFull(random, b); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", key, hex.EncodeToString(b)); err != nil {
			return err
		}
	}
	return nil
}
