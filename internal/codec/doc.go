// Package codec decodes the encrypted response envelope of the youdao web
// translate endpoint: URL-safe base64 text wrapping AES-128-CBC ciphertext
// with PKCS#7 padding.
package codec
