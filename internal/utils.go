package internal

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"time"
)

// Version is the application version reported by the CLI
const Version = "0.3.1"

// EpochMillis formats t as JavaScript's Date.getTime() would
func EpochMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// MD5Hex returns the lowercase hex MD5 digest of s
func MD5Hex(s string) string {
	hash := md5.Sum([]byte(s))
	return hex.EncodeToString(hash[:])
}

// MD5Bytes returns the raw 16 byte MD5 digest of s
func MD5Bytes(s string) [16]byte {
	return md5.Sum([]byte(s))
}
