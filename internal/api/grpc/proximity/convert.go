package proximity

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/pingo/internal/domain/alarm"
)

// AlarmToStruct converts an alarm to its JSON shape as a Struct.
func AlarmToStruct(a *alarm.Alarm) (*structpb.Struct, error) {
	m, err := toMap(a)
	if err != nil {
		return nil, err
	}

	return structpb.NewStruct(m)
}

// AlarmFromStruct converts a Struct produced by AlarmToStruct back to an alarm.
func AlarmFromStruct(s *structpb.Struct) (*alarm.Alarm, error) {
	var a alarm.Alarm
	if err := fromMap(s.AsMap(), &a); err != nil {
		return nil, fmt.Errorf("decode alarm: %w", err)
	}

	return &a, nil
}

// AlarmsToList converts alarms to a ListValue of structs.
func AlarmsToList(list []*alarm.Alarm) (*structpb.ListValue, error) {
	values := make([]any, 0, len(list))

	for _, a := range list {
		m, err := toMap(a)
		if err != nil {
			return nil, err
		}

		values = append(values, m)
	}

	return structpb.NewList(values)
}

// AlarmsFromList converts a ListValue produced by AlarmsToList back to alarms.
func AlarmsFromList(l *structpb.ListValue) ([]*alarm.Alarm, error) {
	list := make([]*alarm.Alarm, 0, len(l.GetValues()))

	for i, v := range l.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("decode alarm %d: not an object", i)
		}

		a, err := AlarmFromStruct(s)
		if err != nil {
			return nil, err
		}

		list = append(list, a)
	}

	return list, nil
}

// SummaryToStruct converts a tick summary to a Struct.
func SummaryToStruct(summary alarm.TickSummary) (*structpb.Struct, error) {
	m, err := toMap(summary)
	if err != nil {
		return nil, err
	}

	return structpb.NewStruct(m)
}

// SummaryFromStruct converts a Struct produced by SummaryToStruct back.
func SummaryFromStruct(s *structpb.Struct) (alarm.TickSummary, error) {
	var summary alarm.TickSummary
	if err := fromMap(s.AsMap(), &summary); err != nil {
		return alarm.TickSummary{}, fmt.Errorf("decode summary: %w", err)
	}

	return summary, nil
}

// toMap round-trips v through JSON so the wire shape matches the store.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	var m map[string]any
	if err = json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	return m, nil
}

func fromMap(m map[string]any, v any) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}
