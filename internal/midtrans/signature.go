package midtrans

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// Signature menghitung signature notifikasi Midtrans:
// sha512 hex dari order_id + status_code + gross_amount + server key,
// digabung persis dalam urutan itu tanpa separator. Field dipakai apa
// adanya (string mentah dari payload) — format serialisasi harus sama
// persis dengan yang dihitung gateway, whitespace ekstra pun bikin beda.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// ValidSignature membandingkan signature kiriman callback dengan hasil
// hitung sendiri, byte-for-byte dalam waktu konstan.
func ValidSignature(orderID, statusCode, grossAmount, serverKey, signatureKey string) bool {
	expected := Signature(orderID, statusCode, grossAmount, serverKey)
	return hmac.Equal([]byte(expected), []byte(signatureKey))
}
