package keystream

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdenticalSeedsProduceIdenticalStreams(t *testing.T) {
	seed := [SeedSize]byte{1, 2, 3, 4}

	first := make([]byte, 1024*1024)
	New(seed).Fill(first)

	second := make([]byte, 1024*1024)
	New(seed).Fill(second)

	require.True(t, bytes.Equal(first, second))
}

func TestDifferentSeedsDiverge(t *testing.T) {
	first := make([]byte, 4096)
	New([SeedSize]byte{1}).Fill(first)

	second := make([]byte, 4096)
	New([SeedSize]byte{2}).Fill(second)

	require.False(t, bytes.Equal(first, second))
}

func TestChunkedGenerationEqualsOneShot(t *testing.T) {
	seed := [SeedSize]byte{0xab, 0xcd}

	oneShot := make([]byte, 64*1024)
	New(seed).Fill(oneShot)

	chunkSizes := []int{1, 31, 32, 33, 555, 4096, 16384}
	stream := New(seed)
	chunked := make([]byte, 0, len(oneShot))
	buf := make([]byte, 16384)
	for i := 0; len(chunked) < len(oneShot); i++ {
		n := chunkSizes[i%len(chunkSizes)]
		if remaining := len(oneShot) - len(chunked); n > remaining {
			n = remaining
		}
		stream.Fill(buf[:n])
		chunked = append(chunked, buf[:n]...)
	}

	require.True(t, bytes.Equal(oneShot, chunked))
}

func TestStreamIsAnInfiniteReader(t *testing.T) {
	stream := New([SeedSize]byte{7})

	buf := make([]byte, 8192)
	n, err := io.ReadFull(stream, buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)

	expected := make([]byte, 2*len(buf))
	New([SeedSize]byte{7}).Fill(expected)
	require.True(t, bytes.Equal(expected[:len(buf)], buf))

	// The reader keeps the same cursor as Fill.
	n, err = io.ReadFull(stream, buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.True(t, bytes.Equal(expected[len(buf):], buf))
}
