package natsadapter

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// contentType tags message payloads encoded by encode.
const contentType = "application/x-protobuf; messageType=google.protobuf.Struct"

// encode turns a JSON-tagged value into a protobuf Struct on the wire.
func encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build struct: %w", err)
	}
	return proto.Marshal(st)
}

// decode reverses encode into v.
func decode(data []byte, v any) error {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("unmarshal protobuf: %w", err)
	}
	raw, err := json.Marshal(st.AsMap())
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return json.Unmarshal(raw, v)
}
