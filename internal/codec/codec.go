package codec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

var (
	ErrBase64  = errors.New("decode base64 failed")
	ErrDecrypt = errors.New("decrypt aes-128-cbc failed")
)

// Decode base64-decodes payload, decrypts it with key and iv and returns the
// plaintext as UTF-8. Invalid UTF-8 sequences are replaced, never rejected.
func Decode(payload []byte, key, iv [16]byte) (string, error) {
	ciphertext, err := decodeBase64(bytes.TrimSpace(payload))
	if err != nil {
		return "", err
	}

	plaintext, err := decrypt(ciphertext, key, iv)
	if err != nil {
		return "", err
	}

	return lossyUTF8(plaintext), nil
}

// Encode is the inverse of Decode
func Encode(plaintext []byte, key, iv [16]byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	padded := pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(out, padded)

	encoded := make([]byte, base64.URLEncoding.EncodedLen(len(out)))
	base64.URLEncoding.Encode(encoded, out)
	return encoded, nil
}

func decodeBase64(payload []byte) ([]byte, error) {
	enc := base64.URLEncoding
	if len(payload)%4 != 0 {
		enc = base64.RawURLEncoding
	}

	out := make([]byte, enc.DecodedLen(len(payload)))
	n, err := enc.Decode(out, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBase64, err)
	}
	return out[:n], nil
}

func decrypt(ciphertext []byte, key, iv [16]byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a multiple of the block size", ErrDecrypt, len(ciphertext))
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv[:]).CryptBlocks(plaintext, ciphertext)

	return unpad(plaintext, aes.BlockSize)
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("%w: bad padding", ErrDecrypt)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad padding", ErrDecrypt)
		}
	}
	return data[:len(data)-n], nil
}

// lossyUTF8 replaces invalid sequences with U+FFFD. The UTF-8 decoder
// never reports an error for them.
func lossyUTF8(b []byte) string {
	out, _ := unicode.UTF8.NewDecoder().Bytes(b)
	return string(out)
}
