package types

import (
	"sort"

	"google.golang.org/protobuf/types/known/structpb"
)

// FromProto converts a protobuf Value into a Value. Struct fields have no
// order on the wire, so their keys are sorted.
func FromProto(pv *structpb.Value) Value {
	if pv == nil {
		return Undefined
	}
	switch kind := pv.GetKind().(type) {
	case *structpb.Value_NullValue:
		return Null
	case *structpb.Value_BoolValue:
		return NewBool(kind.BoolValue)
	case *structpb.Value_NumberValue:
		return NewNumber(kind.NumberValue)
	case *structpb.Value_StringValue:
		return NewString(kind.StringValue)
	case *structpb.Value_ListValue:
		values := kind.ListValue.GetValues()
		items := make([]Value, len(values))
		for i, item := range values {
			items[i] = FromProto(item)
		}
		return NewArray(items)
	case *structpb.Value_StructValue:
		return FromProtoStruct(kind.StructValue)
	}
	return Undefined
}

// FromProtoStruct converts a protobuf Struct into an object value.
func FromProtoStruct(s *structpb.Struct) Value {
	fields := s.GetFields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := NewOrderedMap()
	for _, k := range keys {
		m.Set(k, FromProto(fields[k]))
	}
	return NewObject(m)
}

// ToProto converts a Value into a protobuf Value. Undefined and functions
// become null.
func ToProto(v Value) (*structpb.Value, error) {
	return structpb.NewValue(v.ToGo())
}
