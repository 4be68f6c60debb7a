package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oshokin/pingo/internal/domain/alarm"
	"github.com/oshokin/pingo/internal/domain/geo"
)

func (s *Server) registerTools() {
	s.registerListAlarmsTool()
	s.registerRunTickTool()
	s.registerSetAlarmEnabledTool()
	s.registerNearestAlarmsTool()
}

// AlarmOutput is the agent-facing view of an alarm.
type AlarmOutput struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Radius         float64  `json:"radius"`
	Days           []string `json:"days"`
	Enabled        bool     `json:"enabled"`
	Frequency      string   `json:"frequency"`
	ActionType     string   `json:"action_type"`
	Messages       int      `json:"messages"`
	LastNotifiedAt string   `json:"last_notified_at,omitempty"`
}

// ListAlarmsInput is empty.
type ListAlarmsInput struct{}

// ListAlarmsOutput lists every alarm.
type ListAlarmsOutput struct {
	Alarms []AlarmOutput `json:"alarms"`
}

func (s *Server) registerListAlarmsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_alarms",
		Description: "List every location alarm with its geofence, active days and last notification time.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}, s.handleListAlarms)
}

func (s *Server) handleListAlarms(ctx context.Context, _ *mcp.CallToolRequest, _ ListAlarmsInput) (*mcp.CallToolResult, ListAlarmsOutput, error) {
	list, err := s.service.ListAlarms(ctx)
	if err != nil {
		return nil, ListAlarmsOutput{}, fmt.Errorf("failed to list alarms: %w", err)
	}

	output := ListAlarmsOutput{Alarms: make([]AlarmOutput, 0, len(list))}
	for _, a := range list {
		output.Alarms = append(output.Alarms, toOutput(a))
	}

	return textResult(output), output, nil
}

// RunTickInput is empty.
type RunTickInput struct{}

// RunTickOutput reports one tick.
type RunTickOutput struct {
	PositionUnavailable bool `json:"position_unavailable"`
	Evaluated           int  `json:"evaluated"`
	Fired               int  `json:"fired"`
	FailedSends         int  `json:"failed_sends"`
}

func (s *Server) registerRunTickTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "run_tick",
		Description: "Run one proximity check now: read the current position, evaluate active alarms and dispatch those that fire.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}, s.handleRunTick)
}

func (s *Server) handleRunTick(ctx context.Context, _ *mcp.CallToolRequest, _ RunTickInput) (*mcp.CallToolResult, RunTickOutput, error) {
	summary, err := s.service.RunTick(ctx)
	if err != nil {
		return nil, RunTickOutput{}, fmt.Errorf("failed to run tick: %w", err)
	}

	output := RunTickOutput{
		PositionUnavailable: summary.PositionUnavailable,
		Evaluated:           summary.Evaluated,
		Fired:               summary.Fired,
		FailedSends:         summary.FailedSends,
	}

	return textResult(output), output, nil
}

// SetAlarmEnabledInput selects an alarm and its new state.
type SetAlarmEnabledInput struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
}

// SetAlarmEnabledOutput echoes the applied state.
type SetAlarmEnabledOutput struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
}

func (s *Server) registerSetAlarmEnabledTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_alarm_enabled",
		Description: "Enable or disable a location alarm by id.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "Alarm id as returned by list_alarms",
				},
				"enabled": map[string]any{
					"type":        "boolean",
					"description": "true to enable, false to disable",
				},
			},
			"required": []string{"id", "enabled"},
		},
	}, s.handleSetAlarmEnabled)
}

func (s *Server) handleSetAlarmEnabled(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SetAlarmEnabledInput,
) (*mcp.CallToolResult, SetAlarmEnabledOutput, error) {
	if input.ID == "" {
		return nil, SetAlarmEnabledOutput{}, errIDRequired
	}

	if err := s.service.SetAlarmEnabled(ctx, input.ID, input.Enabled); err != nil {
		return nil, SetAlarmEnabledOutput{}, fmt.Errorf("failed to update alarm: %w", err)
	}

	output := SetAlarmEnabledOutput(input)

	return textResult(output), output, nil
}

// NearestAlarmsInput is a position to measure from.
type NearestAlarmsInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Limit     int     `json:"limit,omitempty"`
}

// AlarmDistance is one alarm and its distance from the input position.
type AlarmDistance struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance_m"`
	Inside   bool    `json:"inside"`
}

// NearestAlarmsOutput lists alarms sorted by distance.
type NearestAlarmsOutput struct {
	Alarms []AlarmDistance `json:"alarms"`
}

func (s *Server) registerNearestAlarmsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "nearest_alarms",
		Description: "Rank alarms by great-circle distance from a position and tell whether the position is inside each geofence.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"latitude": map[string]any{
					"type":        "number",
					"description": "Latitude coordinate (-90 to 90)",
				},
				"longitude": map[string]any{
					"type":        "number",
					"description": "Longitude coordinate (-180 to 180)",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of alarms to return (default: all)",
				},
			},
			"required": []string{"latitude", "longitude"},
		},
	}, s.handleNearestAlarms)
}

func (s *Server) handleNearestAlarms(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input NearestAlarmsInput,
) (*mcp.CallToolResult, NearestAlarmsOutput, error) {
	from := geo.Coordinate{Latitude: input.Latitude, Longitude: input.Longitude}
	if err := from.Validate(); err != nil {
		return nil, NearestAlarmsOutput{}, err
	}

	list, err := s.service.ListAlarms(ctx)
	if err != nil {
		return nil, NearestAlarmsOutput{}, fmt.Errorf("failed to list alarms: %w", err)
	}

	output := NearestAlarmsOutput{Alarms: make([]AlarmDistance, 0, len(list))}

	for _, a := range list {
		distance := geo.DistanceMeters(from, a.Center())
		output.Alarms = append(output.Alarms, AlarmDistance{
			ID:       a.ID,
			Name:     a.Name,
			Distance: distance,
			Inside:   distance <= a.Radius,
		})
	}

	sort.SliceStable(output.Alarms, func(i, j int) bool {
		return output.Alarms[i].Distance < output.Alarms[j].Distance
	})

	if input.Limit > 0 && input.Limit < len(output.Alarms) {
		output.Alarms = output.Alarms[:input.Limit]
	}

	return textResult(output), output, nil
}

func toOutput(a *alarm.Alarm) AlarmOutput {
	days := make([]string, 0, len(a.Days))
	for _, d := range a.Days {
		days = append(days, string(d))
	}

	out := AlarmOutput{
		ID:         a.ID,
		Name:       a.Name,
		Latitude:   a.Latitude,
		Longitude:  a.Longitude,
		Radius:     a.Radius,
		Days:       days,
		Enabled:    a.Enabled,
		Frequency:  string(a.Frequency),
		ActionType: string(a.ActionType),
		Messages:   len(a.MessageActions),
	}

	last := a.LastNotifiedAt
	if a.Frequency == alarm.FrequencyRepeat {
		last = a.LastRepeatedNotifiedAt
	}

	if last != nil {
		out.LastNotifiedAt = last.Format(time.RFC3339)
	}

	return out
}

func textResult(v any) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ") //nolint:errchkjson // Outputs are always serializable.

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}
