package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "calendar date", in: "2024-05-01", want: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339 utc", in: "2024-05-01T10:30:00Z", want: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
		{name: "rfc3339 offset normalised", in: "2024-05-01T22:30:00-03:00", want: time.Date(2024, 5, 2, 1, 30, 0, 0, time.UTC)},
		{name: "no zone", in: "2024-05-01T10:30:00", want: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
		{name: "garbage", in: "tomorrow", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time), "want %v, got %v", tt.want, got.Time)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestDate_Day(t *testing.T) {
	d := NewDate(time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC))

	from, to := d.Day()

	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), to)
}

func TestDate_JSON(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","date":"2024-05-01T10:00:00+02:00"}`), &task))
	assert.True(t, task.Date.Equal(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)))

	raw, err := json.Marshal(task.Date)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-05-01T08:00:00Z"`, string(raw))

	for _, body := range []string{`{"title":"x"}`, `{"date":null}`, `{"date":"  "}`} {
		var empty Task
		require.NoError(t, json.Unmarshal([]byte(body), &empty), body)
		assert.True(t, empty.Date.Empty(), body)
	}

	var bad Task
	assert.Error(t, json.Unmarshal([]byte(`{"date":"01/05/2024"}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"date":20240501}`), &bad))
}

func TestDate_Scan(t *testing.T) {
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		src  any
	}{
		{name: "time", src: want.In(time.FixedZone("BRT", -3*3600))},
		{name: "sqlite text", src: "2024-05-01 10:00:00+00:00"},
		{name: "bytes", src: []byte("2024-05-01 10:00:00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.True(t, want.Equal(d.Time))
		})
	}

	var d Date
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.Empty())
	assert.Error(t, d.Scan(42))
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "Pending", want: StatusPending},
		{in: "inprogress", want: StatusInProgress},
		{in: " DONE ", want: StatusDone},
		{in: "0", want: StatusPending},
		{in: "2", want: StatusDone},
		{in: "3", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "Archived", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_JSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: `"Done"`, want: StatusDone},
		{in: `"inProgress"`, want: StatusInProgress},
		{in: `1`, want: StatusInProgress},
		{in: `null`, want: ""},
		{in: `"in_progress"`, wantErr: true},
		{in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var s Status
			err := json.Unmarshal([]byte(tt.in), &s)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}

	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","status":null}`), &task))
	assert.Empty(t, task.Status)

	raw, err := json.Marshal(Task{Status: StatusInProgress})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"status":"InProgress"`)
}
