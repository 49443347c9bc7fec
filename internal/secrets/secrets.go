// Package secrets opens age-sealed values in the bot's settings file.
//
// A sealed value reads ENC[<base64(age-ciphertext)>]. The identity comes
// from TSSLG_AGE_KEY (raw AGE-SECRET-KEY-1... string) or TSSLG_AGE_KEY_FILE.
package secrets

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
)

const (
	// EnvAgeKey holds a raw age identity.
	EnvAgeKey = "TSSLG_AGE_KEY"
	// EnvAgeKeyFile holds a path to an age identity file.
	EnvAgeKeyFile = "TSSLG_AGE_KEY_FILE"
)

// ErrNoIdentity is returned when a sealed value is found but neither key
// variable is set.
var ErrNoIdentity = errors.New("no age identity configured; set " + EnvAgeKey + " or " + EnvAgeKeyFile)

// IsEncrypted reports whether value is a non-empty ENC[...] wrapper.
func IsEncrypted(value string) bool {
	inner, ok := strings.CutPrefix(value, "ENC[")
	return ok && len(inner) > 1 && strings.HasSuffix(inner, "]")
}

// Reveal returns value unchanged unless it is sealed, in which case it is
// opened with the identity from the environment.
func Reveal(value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}
	ids, err := identities()
	if err != nil {
		return "", err
	}

	sealed, err := base64.StdEncoding.DecodeString(value[len("ENC[") : len(value)-1])
	if err != nil {
		return "", fmt.Errorf("sealed value is not base64: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(sealed), ids...)
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read sealed value: %w", err)
	}
	return strings.TrimSpace(string(plain)), nil
}

// identities prefers the raw key over the key file.
func identities() ([]age.Identity, error) {
	if raw := os.Getenv(EnvAgeKey); raw != "" {
		id, err := age.ParseX25519Identity(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvAgeKey, err)
		}
		return []age.Identity{id}, nil
	}

	path := os.Getenv(EnvAgeKeyFile)
	if path == "" {
		return nil, ErrNoIdentity
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvAgeKeyFile, err)
	}
	defer f.Close()

	ids, err := age.ParseIdentities(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvAgeKeyFile, err)
	}
	return ids, nil
}
