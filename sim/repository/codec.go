package repository

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/inference-sim/simforge/sim/model"
)

const (
	fieldKind    = "kind"
	fieldPayload = "payload"
)

// encodeRecord serializes a kind and payload as a protobuf Struct.
// Numbers come back from decodeRecord as float64.
func encodeRecord(kind model.Kind, payload Payload) ([]byte, error) {
	body, err := structpb.NewStruct(map[string]interface{}(payload))
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	envelope := &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldKind:    structpb.NewStringValue(kind.String()),
		fieldPayload: structpb.NewStructValue(body),
	}}
	data, err := proto.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload envelope: %w", err)
	}
	return data, nil
}

func decodeRecord(id string, data []byte) (Record, error) {
	var envelope structpb.Struct
	if err := proto.Unmarshal(data, &envelope); err != nil {
		return Record{}, fmt.Errorf("unmarshaling payload envelope for %s: %w", id, err)
	}
	kind, err := model.ParseKind(envelope.GetFields()[fieldKind].GetStringValue())
	if err != nil {
		return Record{}, fmt.Errorf("payload envelope for %s: %w", id, err)
	}
	var payload Payload
	if body := envelope.GetFields()[fieldPayload].GetStructValue(); body != nil {
		payload = Payload(body.AsMap())
	}
	return Record{ID: id, Kind: kind, Payload: payload}, nil
}
