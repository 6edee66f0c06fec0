package grpc

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/metadata"
)

type sample struct {
	ID    string   `cbor:"id"`
	Count int32    `cbor:"count"`
	Tags  []string `cbor:"tags,omitempty"`
}

func TestCodec_RoundTrip(t *testing.T) {
	in := sample{ID: "c-1", Count: 7, Tags: []string{"vip"}}

	data, err := Marshal(in)
	require.NoError(t, err)

	var out sample
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestCodec_Deterministic(t *testing.T) {
	a, err := Marshal(sample{ID: "x", Count: 1})
	require.NoError(t, err)
	b, err := Marshal(sample{ID: "x", Count: 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCodec_Registered(t *testing.T) {
	codec := encoding.GetCodecV2(CodecName)
	require.NotNil(t, codec)
}

func TestZstdCompressor_RoundTrip(t *testing.T) {
	c := encoding.GetCompressor(CompressorZstd)
	require.NotNil(t, c)

	payload := []byte(strings.Repeat("premium seats ", 200))

	var buf bytes.Buffer
	w, err := c.Compress(&buf)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Less(t, buf.Len(), len(payload))

	r, err := c.Decompress(&buf)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))

	ctx = WithRequestID(ctx, "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))

	incoming := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "req-2"))
	assert.Equal(t, "req-2", GetRequestID(incoming))
}
