// Package signer builds the signed request form expected by the youdao web
// translation endpoints. The form mimics the fanyideskweb desktop client and
// carries an MD5 signature over the client id, a millisecond timestamp, the
// product id and a secret key.
package signer
