// Package metacodec frames vector metadata for the Endee wire protocol:
// canonical JSON, a raw DEFLATE stream, and optionally AES-256-CBC on top.
package metacodec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/klauspost/compress/flate"

	"github.com/itspunkaj/endee-go/internal/shared"
)

const (
	keySize   = 32 // AES-256
	ivSize    = 16
	blockSize = 16
)

// Compress serializes m to JSON and deflates it as a raw (headerless)
// stream. When keyHex is non-empty the deflated bytes are encrypted with
// AES-256-CBC under a fresh random IV and the IV is prepended to the
// ciphertext. A nil or empty map encodes to a zero-length slice without
// touching the compressor, so the empty encoding is canonical.
func Compress(m map[string]any, keyHex string) ([]byte, error) {
	if len(m) == 0 {
		return []byte{}, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("endee: encode metadata: %w", err)
	}
	compressed, err := deflate(raw)
	if err != nil {
		return nil, err
	}
	if keyHex == "" {
		return compressed, nil
	}
	return encrypt(compressed, keyHex)
}

// Decompress reverses Compress. Zero-length input yields an empty map, and a
// failure at any stage (bad ciphertext, corrupt stream, unparseable JSON)
// also degrades to an empty map rather than an error: a damaged metadata
// blob must never fail the response that carries it.
func Decompress(data []byte, keyHex string) map[string]any {
	if len(data) == 0 {
		return map[string]any{}
	}
	buf := data
	if keyHex != "" {
		plain, err := decrypt(buf, keyHex)
		if err != nil {
			return map[string]any{}
		}
		buf = plain
	}
	raw, err := inflate(buf)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return map[string]any{}
	}
	return m
}

// KeyChecksum derives the key fingerprint sent on index creation: the last
// two hex characters of the key as an integer, or -1 when no key is set.
func KeyChecksum(keyHex string) int {
	if len(keyHex) < 2 {
		return -1
	}
	n, err := strconv.ParseInt(keyHex[len(keyHex)-2:], 16, 32)
	if err != nil {
		return -1
	}
	return int(n)
}

// ValidateKey checks that keyHex decodes to a 256-bit key.
func ValidateKey(keyHex string) error {
	_, err := parseKey(keyHex)
	return err
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("endee: deflate metadata: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("endee: deflate metadata: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("endee: deflate metadata: %w", err)
	}
	return buf.Bytes(), nil
}

func inflate(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	return io.ReadAll(r)
}

func parseKey(keyHex string) ([]byte, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != keySize {
		return nil, shared.ErrInvalidKey
	}
	return key, nil
}

func encrypt(data []byte, keyHex string) ([]byte, error) {
	key, err := parseKey(keyHex)
	if err != nil {
		return nil, err
	}
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("endee: generate iv: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("endee: init cipher: %w", err)
	}
	padded := pkcs7Pad(data)
	out := make([]byte, ivSize+len(padded))
	copy(out, iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[ivSize:], padded)
	return out, nil
}

func decrypt(data []byte, keyHex string) ([]byte, error) {
	key, err := parseKey(keyHex)
	if err != nil {
		return nil, err
	}
	if len(data) < ivSize || (len(data)-ivSize)%blockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d", shared.ErrWireFormat, len(data))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("endee: init cipher: %w", err)
	}
	plain := make([]byte, len(data)-ivSize)
	cipher.NewCBCDecrypter(block, data[:ivSize]).CryptBlocks(plain, data[ivSize:])
	return pkcs7Unpad(plain), nil
}

func pkcs7Pad(data []byte) []byte {
	pad := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+pad)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(pad)
	}
	return padded
}

// pkcs7Unpad strips PKCS#7 padding. A padding byte larger than the block
// size or the buffer is treated as absent and the buffer returned as-is.
func pkcs7Unpad(data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	pad := int(data[len(data)-1])
	if pad > blockSize || pad > len(data) {
		return data
	}
	return data[:len(data)-pad]
}
