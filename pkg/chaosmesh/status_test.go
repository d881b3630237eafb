package chaosmesh

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionsStatus(t *testing.T) {
	tests := []struct {
		selected, paused, recovered, injected bool
		want                                  ExperimentStatus
	}{
		{false, true, false, false, StatusError},
		{false, true, false, true, StatusError},
		{false, true, true, false, StatusError},
		{false, true, true, true, StatusError},
		{false, false, true, false, StatusError},
		{false, false, false, false, StatusStarting},
		{false, false, false, true, StatusStarting},
		{false, false, true, true, StatusStarting},
		{true, false, false, true, StatusRunning},
		{true, true, true, false, StatusPaused},
		{true, true, true, true, StatusPaused},
		{true, false, true, false, StatusFinished},
		{true, false, true, true, StatusFinished},
		{true, false, false, false, StatusUnknown},
		{true, true, false, false, StatusUnknown},
		{true, true, false, true, StatusUnknown},
	}

	for _, tt := range tests {
		conditions := Conditions{Selected: tt.selected, Paused: tt.paused, AllRecovered: tt.recovered, AllInjected: tt.injected}
		t.Run(fmt.Sprintf("%+v", conditions), func(t *testing.T) {
			assert.Equal(t, tt.want, conditions.Status())
		})
	}
}

func TestParseConditions(t *testing.T) {
	raw := `[{"lastTransitionTime":"2026-10-19T10:00:00Z","status":"True","type":"Selected"},` +
		`{"status":"False","type":"Paused"},{"status":"False","type":"AllRecovered"},{"status":"True","type":"AllInjected"}]`

	conditions, err := ParseConditions(raw)
	require.NoError(t, err)
	assert.Equal(t, Conditions{Selected: true, AllInjected: true}, conditions)
	assert.Equal(t, StatusRunning, conditions.Status())
}

func TestParseConditionsMissingTypesAreFalse(t *testing.T) {
	conditions, err := ParseConditions(`[{"status":"True","type":"Selected"}]`)
	require.NoError(t, err)
	assert.Equal(t, Conditions{Selected: true}, conditions)
}

func TestParseConditionsInvalid(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"type":"Selected"}`, `[{"status":"Maybe","type":"Selected"}]`} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseConditions(raw)
			assert.Error(t, err)
		})
	}
}

func TestExperimentStatusString(t *testing.T) {
	assert.Equal(t, "Finished", StatusFinished.String())
	assert.Equal(t, "Unknown", ExperimentStatus(42).String())
}
