package waybills

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus_CaseInsensitive(t *testing.T) {
	cases := []struct {
		input string
		want  Status
	}{
		{"Pending", StatusPending},
		{"pending", StatusPending},
		{"DELIVERED", StatusDelivered},
		{"cancelled", StatusCancelled},
		{"  Disputed  ", StatusDisputed},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}
}

func TestParseStatus_RejectsUnknown(t *testing.T) {
	for _, input := range []string{"", "shipped", "canceled", "0"} {
		_, err := ParseStatus(input)
		assert.Error(t, err, "input %q must be rejected", input)
	}
}

func TestStatus_TransitionTable(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDisputed, false},
		{StatusDelivered, StatusDisputed, true},
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusDelivered, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusDisputed, false},
		{StatusDisputed, StatusPending, false},
		{StatusDisputed, StatusDelivered, false},
		{StatusDisputed, StatusCancelled, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestStatus_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, `"Delivered"`, string(data))

	var s Status
	require.NoError(t, json.Unmarshal([]byte(`"disputed"`), &s))
	assert.Equal(t, StatusDisputed, s)

	assert.Error(t, json.Unmarshal([]byte(`"unknown"`), &s))
}
