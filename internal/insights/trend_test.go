package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EasterCompany/dex-sprint-service/types"
)

func TestProgressTrend_DoneThenSnoozed(t *testing.T) {
	history := []types.ProgressEvent{
		{TaskID: "a", To: types.TaskStatusDone, Timestamp: at(-2, 9)},
		{TaskID: "a", From: types.TaskStatusDone, To: types.TaskStatusSnoozed, Timestamp: at(-1, 9)},
	}

	points := ProgressTrend(history, nil, 5, testNow)
	require.Len(t, points, 2)
	assert.Equal(t, types.TrendPoint{Date: day(-2), Done: 1, Total: 5}, points[0])
	assert.Equal(t, types.TrendPoint{Date: day(-1), Done: 0, Total: 5}, points[1])
}

func TestProgressTrend_SortsUnorderedHistory(t *testing.T) {
	history := []types.ProgressEvent{
		{TaskID: "c", To: types.TaskStatusDone, Timestamp: at(-1, 12)},
		{TaskID: "a", To: types.TaskStatusDone, Timestamp: at(-3, 8)},
		{TaskID: "b", To: types.TaskStatusDone, Timestamp: at(-3, 10)},
		{TaskID: "a", From: types.TaskStatusDone, Timestamp: at(-2, 11)},
	}

	points := ProgressTrend(history, nil, 10, testNow)
	require.Len(t, points, 3)
	assert.Equal(t, []int{2, 1, 2}, []int{points[0].Done, points[1].Done, points[2].Done})
	assert.Equal(t, []string{day(-3), day(-2), day(-1)}, []string{points[0].Date, points[1].Date, points[2].Date})
}

func TestProgressTrend_IgnoresClaimedFromStatus(t *testing.T) {
	// The removal happens even though the event claims the task was snoozed.
	history := []types.ProgressEvent{
		{TaskID: "a", To: types.TaskStatusDone, Timestamp: at(-1, 8)},
		{TaskID: "a", From: types.TaskStatusSnoozed, To: types.TaskStatusTodo, Timestamp: at(-1, 9)},
		{TaskID: "b", From: types.TaskStatusDone, To: types.TaskStatusTodo, Timestamp: at(-1, 10)},
	}

	points := ProgressTrend(history, nil, 3, testNow)
	require.Len(t, points, 1)
	assert.Equal(t, 0, points[0].Done)
}

func TestProgressTrend_EqualTimestampsKeepLogOrder(t *testing.T) {
	ts := at(-1, 9)
	doneThenSnoozed := []types.ProgressEvent{
		{TaskID: "a", To: types.TaskStatusDone, Timestamp: ts},
		{TaskID: "a", To: types.TaskStatusSnoozed, Timestamp: ts},
	}
	snoozedThenDone := []types.ProgressEvent{
		{TaskID: "a", To: types.TaskStatusSnoozed, Timestamp: ts},
		{TaskID: "a", To: types.TaskStatusDone, Timestamp: ts},
	}

	assert.Equal(t, 0, ProgressTrend(doneThenSnoozed, nil, 1, testNow)[0].Done)
	assert.Equal(t, 1, ProgressTrend(snoozedThenDone, nil, 1, testNow)[0].Done)

	for i := 0; i < 20; i++ {
		assert.Equal(t, 0, ProgressTrend(doneThenSnoozed, nil, 1, testNow)[0].Done)
	}
}

func TestProgressTrend_SynthesizesTodayWithoutHistory(t *testing.T) {
	progress := map[string]types.TaskStatus{
		"a": types.TaskStatusDone,
		"b": types.TaskStatusSnoozed,
		"c": types.TaskStatusDone,
	}

	points := ProgressTrend(nil, progress, 8, testNow)
	require.Len(t, points, 1)
	assert.Equal(t, types.TrendPoint{Date: day(0), Done: 2, Total: 8}, points[0])

	assert.Empty(t, ProgressTrend(nil, map[string]types.TaskStatus{"b": types.TaskStatusSnoozed}, 8, testNow))
	assert.Empty(t, ProgressTrend(nil, nil, 0, testNow))
}

func TestProgressTrend_KeepsMostRecentDays(t *testing.T) {
	var history []types.ProgressEvent
	for i := 70; i >= 1; i-- {
		history = append(history, types.ProgressEvent{
			TaskID:    day(-i),
			To:        types.TaskStatusDone,
			Timestamp: at(-i, 10),
		})
	}

	points := ProgressTrend(history, nil, 100, testNow)
	require.Len(t, points, MaxTrendPoints)
	assert.Equal(t, day(-60), points[0].Date)
	assert.Equal(t, 11, points[0].Done)
	assert.Equal(t, day(-1), points[len(points)-1].Date)
	assert.Equal(t, 70, points[len(points)-1].Done)
}

func TestProgressTrend_DoesNotMutateHistory(t *testing.T) {
	history := []types.ProgressEvent{
		{TaskID: "b", To: types.TaskStatusDone, Timestamp: at(-1, 10)},
		{TaskID: "a", To: types.TaskStatusDone, Timestamp: at(-2, 10)},
	}
	_ = ProgressTrend(history, nil, 2, testNow)
	assert.Equal(t, "b", history[0].TaskID)
}
