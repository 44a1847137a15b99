package codec

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/roach88/tempus/internal/temporal"
)

// DomainTemporal prefixes fingerprints of binary encoded temporal values.
// The version suffix allows a later change of layout or algorithm.
const DomainTemporal = "tempus/temporal/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data) as hex.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns the content hash of temp's binary encoding.
// Values that are Equal have the same fingerprint; a normalized and an
// unnormalized form of the same function do not.
func Fingerprint(temp temporal.Temporal) string {
	return hashWithDomain(DomainTemporal, Encode(temp))
}
