package grpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content subtype clients select to talk to the loan
// decision service: grpc.CallContentSubtype(CodecName).
const CodecName = "json"

func init() { encoding.RegisterCodec(dtoCodec{}) }

// dtoCodec carries the application DTOs as JSON on the wire. The service has
// no protobuf messages, so every call goes through this codec.
type dtoCodec struct{}

func (dtoCodec) Name() string { return CodecName }

func (dtoCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return data, nil
}

func (dtoCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
