package telemetry_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"command-center/internal/domain/telemetry"
	"command-center/internal/utils/platformerrors"
)

type fakeRepository struct {
	runs       []telemetry.WidgetRun
	actions    []telemetry.ActionLog
	counts     []telemetry.PopularityCount
	lastLimit  int
	lastOffset int
}

func (f *fakeRepository) CreateWidgetRun(ctx context.Context, run *telemetry.WidgetRun) error {
	run.ID = int64(len(f.runs) + 1)
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeRepository) CountRunsByWidget(ctx context.Context) ([]telemetry.PopularityCount, error) {
	return f.counts, nil
}

func (f *fakeRepository) CreateActionLog(ctx context.Context, entry *telemetry.ActionLog) error {
	entry.ID = int64(len(f.actions) + 1)
	f.actions = append(f.actions, *entry)
	return nil
}

func (f *fakeRepository) ListActionLogs(ctx context.Context, limit, offset int) ([]telemetry.ActionLog, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	return f.actions, nil
}

func newService(repo *fakeRepository) *telemetry.Service {
	return telemetry.NewService(repo, zerolog.Nop())
}

func TestRecordWidgetRun(t *testing.T) {
	repo := &fakeRepository{}
	svc := newService(repo)

	require.NoError(t, svc.RecordWidgetRun(context.Background(), "inventory_trends"))
	require.Len(t, repo.runs, 1)
	require.Equal(t, "inventory_trends", repo.runs[0].WidgetID)
}

func TestRecordWidgetRunEmptyID(t *testing.T) {
	svc := newService(&fakeRepository{})

	err := svc.RecordWidgetRun(context.Background(), "")
	require.Error(t, err)
	require.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestPopularityScores(t *testing.T) {
	repo := &fakeRepository{counts: []telemetry.PopularityCount{
		{WidgetID: "a", Count: 5},
		{WidgetID: "b", Count: 2},
	}}
	svc := newService(repo)

	scores, err := svc.PopularityScores(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"a": 5, "b": 2}, scores)
}

func TestRecordActionStringifiesContext(t *testing.T) {
	repo := &fakeRepository{}
	svc := newService(repo)

	entry, err := svc.RecordAction(context.Background(), "w1", "Widget One", "approved restock",
		map[string]any{"filter": "EMEA"})
	require.NoError(t, err)
	require.JSONEq(t, `{"filter":"EMEA"}`, entry.Context)

	// A string context is stored verbatim, so logging an already-stringified
	// payload twice yields the same stored value.
	again, err := svc.RecordAction(context.Background(), "w1", "Widget One", "approved restock", entry.Context)
	require.NoError(t, err)
	require.Equal(t, entry.Context, again.Context)
}

func TestActionsLimitClamping(t *testing.T) {
	repo := &fakeRepository{}
	svc := newService(repo)

	_, err := svc.Actions(context.Background(), 0, -5)
	require.NoError(t, err)
	require.Equal(t, 100, repo.lastLimit)
	require.Equal(t, 0, repo.lastOffset)

	_, err = svc.Actions(context.Background(), 5000, 10)
	require.NoError(t, err)
	require.Equal(t, 1000, repo.lastLimit)
	require.Equal(t, 10, repo.lastOffset)
}

func TestStringifyContext(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "string passes through", value: `{"already":"json"}`, want: `{"already":"json"}`},
		{name: "nil becomes empty", value: nil, want: ""},
		{name: "map marshalled", value: map[string]any{"k": "v"}, want: `{"k":"v"}`},
		{name: "number marshalled", value: 42, want: "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := telemetry.StringifyContext(tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)

			// Idempotence: stringifying the stored form changes nothing.
			twice, err := telemetry.StringifyContext(got)
			require.NoError(t, err)
			require.Equal(t, got, twice)
		})
	}
}
