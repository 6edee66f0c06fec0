package grpc

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype of the CBOR codec
const CodecName = "cbor"

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	// Deterministic encoding: the same message always yields the same bytes,
	// which keeps replayed requests byte-identical across attempts.
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("grpc: CBOR encoder initialization failed: " + err.Error())
	}

	// Unknown fields are ignored so replicas and clients can evolve apart.
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("grpc: CBOR decoder initialization failed: " + err.Error())
	}

	encoding.RegisterCodec(cborCodec{})
}

// cborCodec carries plain Go structs over gRPC
type cborCodec struct{}

func (cborCodec) Marshal(v any) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cbor marshal %T: %w", v, err)
	}
	return data, nil
}

func (cborCodec) Unmarshal(data []byte, v any) error {
	if err := decMode.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cbor unmarshal %T: %w", v, err)
	}
	return nil
}

func (cborCodec) Name() string {
	return CodecName
}

// Marshal encodes v with the wire codec
func Marshal(v any) ([]byte, error) {
	return cborCodec{}.Marshal(v)
}

// Unmarshal decodes wire data into v
func Unmarshal(data []byte, v any) error {
	return cborCodec{}.Unmarshal(data, v)
}

// CodecCallOption selects the CBOR codec for a single call. It is applied
// per call so that standard protobuf services on the same connection
// (grpc.health.v1) keep their default codec.
func CodecCallOption() grpc.CallOption {
	return grpc.CallContentSubtype(CodecName)
}
