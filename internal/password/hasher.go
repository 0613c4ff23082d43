// Package password provides credential hashing and the password
// strength policy. Hashes are self-describing PHC strings, so verify
// always uses the parameters the hash was created with, not the current
// configuration.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const saltLength = 16

// Params are the argon2 cost parameters, supplied by configuration.
type Params struct {
	MemoryCost uint32
	TimeCost   uint32
	Lanes      uint8
	Length     uint32
}

// Hasher derives and verifies salted argon2 hashes.
type Hasher struct {
	params Params
}

// NewHasher creates a Hasher with the provided cost parameters.
func NewHasher(params Params) *Hasher {
	return &Hasher{params: params}
}

// Hash derives an argon2id hash of password with a fresh random salt
// and encodes algorithm, parameters, salt and digest into one string.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt,
		h.params.TimeCost, h.params.MemoryCost, h.params.Lanes, h.params.Length)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.MemoryCost, h.params.TimeCost, h.params.Lanes,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest))

	return encoded, nil
}

// Verify re-derives the hash of password using the parameters embedded
// in encoded and compares digests in constant time. Any parse or
// parameter error means false: a malformed stored hash must not become
// an oracle, so no error is ever returned.
func (h *Hasher) Verify(password, encoded string) bool {
	variant, memory, time, lanes, salt, digest, err := decode(encoded)
	if err != nil {
		return false
	}

	var candidate []byte
	switch variant {
	case "argon2id":
		candidate = argon2.IDKey([]byte(password), salt, time, memory, lanes, uint32(len(digest)))
	case "argon2i":
		candidate = argon2.Key([]byte(password), salt, time, memory, lanes, uint32(len(digest)))
	default:
		return false
	}

	return subtle.ConstantTimeCompare(candidate, digest) == 1
}

func decode(encoded string) (variant string, memory, time uint32, lanes uint8, salt, digest []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		err = fmt.Errorf("malformed hash")
		return
	}
	variant = parts[1]

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		err = fmt.Errorf("malformed version: %w", err)
		return
	}
	if version != argon2.Version {
		err = fmt.Errorf("unsupported argon2 version %d", version)
		return
	}

	var par uint32
	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &par); err != nil {
		err = fmt.Errorf("malformed parameters: %w", err)
		return
	}
	if par == 0 || par > 255 || time == 0 {
		err = fmt.Errorf("invalid parameters")
		return
	}
	lanes = uint8(par)

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		err = fmt.Errorf("malformed salt: %w", err)
		return
	}
	if digest, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		err = fmt.Errorf("malformed digest: %w", err)
		return
	}
	if len(digest) == 0 {
		err = fmt.Errorf("empty digest")
	}
	return
}
