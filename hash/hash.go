// Package hash computes structural hashes used for hash-consing types,
// memoizing form-resolution results, and caching monomorphized function
// instantiations.
package hash

import "crypto/sha256"

// Hash is a 256-bit structural digest.
type Hash [32]byte

// Bytes hashes a byte slice.
func Bytes(b []byte) Hash {
	return Hash(sha256.Sum256(b))
}

// String hashes a string.
func String(s string) Hash {
	return Bytes([]byte(s))
}

// Add combines two hashes commutatively and associatively, with Hash{} as the
// identity element. It is used when the order that component hashes are
// combined in doesn't matter (e.g., unordered Union/Intersect type members).
//
// Add treats the two hashes as 256-bit big-endian integers and adds them
// modulo 2^256.
func (h Hash) Add(other Hash) Hash {
	var out Hash
	carry := uint16(0)
	for i := 31; i >= 0; i-- {
		sum := uint16(h[i]) + uint16(other[i]) + carry
		out[i] = byte(sum)
		carry = sum >> 8
	}
	return out
}

// Merge combines two hashes non-commutatively, used when the order of
// combination is significant (e.g., an AST node hashing its children in
// position order). Merge is not, in general, invertible or associative with
// Add.
func (h Hash) Merge(other Hash) Hash {
	buf := make([]byte, 0, 64)
	buf = append(buf, h[:]...)
	buf = append(buf, other[:]...)
	return Bytes(buf)
}
