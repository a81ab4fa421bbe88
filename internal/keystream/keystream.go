package keystream

import (
	"golang.org/x/crypto/chacha20"
)

// SeedSize is the number of bytes that parameterize a Stream.
const SeedSize = 32

// Stream produces a reproducible pseudorandom byte sequence from a 32-byte
// seed. It is the ChaCha20 keystream under that seed with an all-zero nonce:
// two streams built from the same seed emit byte-identical output, and
// without the seed the output is computationally indistinguishable from
// uniform random bytes.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	cipher *chacha20.Cipher
}

func New(seed [SeedSize]byte) *Stream {
	nonce := make([]byte, chacha20.NonceSize)
	cipher, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce)
	if err != nil {
		// Key and nonce lengths are fixed at compile time, so the
		// constructor cannot fail.
		panic(err)
	}

	return &Stream{cipher: cipher}
}

// Fill overwrites buf with the next len(buf) bytes of the keystream. The
// cipher position advances by exactly the number of bytes produced, so
// generating N bytes in one call yields the same sequence as any series of
// calls totaling N bytes.
func (s *Stream) Fill(buf []byte) {
	clear(buf)
	s.cipher.XORKeyStream(buf, buf)
}

// Read implements io.Reader. The stream is infinite and never fails.
func (s *Stream) Read(p []byte) (int, error) {
	s.Fill(p)
	return len(p), nil
}
