package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
)

// HashIP derives the privacy-preserving visitor identifier stored with each
// event. The raw address never leaves the ingest path; only the salted
// digest is persisted.
func HashIP(ip string) string {
	if ip == "" {
		return ""
	}
	salt := os.Getenv("IP_HASH_SALT")
	if salt == "" {
		salt = "menuboard"
	}
	sum := sha256.Sum256([]byte(salt + ":" + ip))
	return hex.EncodeToString(sum[:16])
}
