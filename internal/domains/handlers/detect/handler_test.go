package detect

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsp/supwatch/internal/business"
	"tsp/supwatch/internal/domains/common"
	"tsp/supwatch/internal/domains/entity/etmetric"
	"tsp/supwatch/internal/domains/entity/etproblem"
	"tsp/supwatch/internal/framework"
)

type fakeMetricsReader struct {
	records []*etmetric.MetricRecord
}

func (f *fakeMetricsReader) ListByDateRange(ctx context.Context, start, end time.Time, providerID string) ([]*etmetric.MetricRecord, error) {
	return f.records, nil
}

type fakeProblemReader struct{}

func (f *fakeProblemReader) FindOverdue(ctx context.Context, now time.Time) ([]*etproblem.Problem, error) {
	return nil, nil
}

type fakeCallback struct {
	queue string
	data  []byte
}

func (f *fakeCallback) Publish(queue string, data []byte, ttl, delay uint32) error {
	f.queue = queue
	f.data = data
	return nil
}

type fakeNotifier struct {
	channel      string
	notification interface{}
}

func (f *fakeNotifier) PublishDetectionComplete(ctx context.Context, channel string, notification interface{}) error {
	f.channel = channel
	f.notification = notification
	return nil
}

type nopLogger struct{}

func (nopLogger) Debugf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Infof(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Warnf(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Errorf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Sync() error                                                    { return nil }

func newTestDeps(metrics *fakeMetricsReader, callback *fakeCallback, notifier *fakeNotifier) *common.Deps {
	detectService := business.NewDetectService(
		business.DefaultDetectors(metrics, &fakeProblemReader{}), nopLogger{})

	return &common.Deps{
		DetectService: detectService,
		DefaultThresholds: business.Thresholds{
			business.ThresholdKeyCheatRate:           5,
			business.ThresholdKeyFaceFailRate:        20,
			business.ThresholdKeyLearnConversionRate: 60,
			business.ThresholdKeyProblemOverdueDays:  3,
		},
		Callback:         callback,
		CallbackQueue:    "supervision_callback",
		Notifier:         notifier,
		DetectionChannel: "detection_complete",
		Logger:           nopLogger{},
	}
}

func newBaseHandler(t *testing.T, payload *DetectPayload) *framework.BaseHandler {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	var bizPayload interface{}
	require.NoError(t, json.Unmarshal(data, &bizPayload))

	base := &framework.BaseHandler{}
	base.SetMeta(&framework.JobMeta{
		RequestID:  "req-123",
		ActionType: "supervision_detect",
	})
	base.SetBizPayload(bizPayload)
	return base
}

func TestDetectHandlerHandle(t *testing.T) {
	metrics := &fakeMetricsReader{records: []*etmetric.MetricRecord{
		// 作弊率 10%，超过阈值 5%
		{ProviderName: "机构A", StatDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			LearnCount: 100, CheatCount: 10},
	}}
	callback := &fakeCallback{}
	notifier := &fakeNotifier{}
	deps := newTestDeps(metrics, callback, notifier)

	base := newBaseHandler(t, &DetectPayload{
		StartDate: "2026-08-01",
		EndDate:   "2026-08-02",
		Category:  "cheat_rate",
	})

	handler, err := NewDetectHandler(context.Background(), base, deps)
	require.NoError(t, err)

	respBytes, err := handler.Handle(context.Background())
	require.NoError(t, err)

	var resp framework.Response
	require.NoError(t, json.Unmarshal(respBytes, &resp))
	assert.True(t, resp.Processed)
	assert.Nil(t, resp.Error)

	resultBytes, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var output DetectOutput
	require.NoError(t, json.Unmarshal(resultBytes, &output))

	assert.Equal(t, 1, output.Total)
	assert.Equal(t, "cheat_rate", output.Category)
	require.Len(t, output.Anomalies, 1)
	assert.Equal(t, 1, output.BySeverity[string(business.SeverityImportant)])

	// 回调与完成通知均已发布
	assert.Equal(t, "supervision_callback", callback.queue)
	var cb DetectCallback
	require.NoError(t, json.Unmarshal(callback.data, &cb))
	assert.Equal(t, "req-123", cb.RequestID)
	assert.Equal(t, 1, cb.AnomalyCount)

	assert.Equal(t, "detection_complete", notifier.channel)
	require.NotNil(t, notifier.notification)
}

func TestDetectHandlerDefaultsCategoryToAll(t *testing.T) {
	deps := newTestDeps(&fakeMetricsReader{}, &fakeCallback{}, &fakeNotifier{})
	base := newBaseHandler(t, &DetectPayload{
		StartDate: "2026-08-01",
		EndDate:   "2026-08-02",
	})

	handler, err := NewDetectHandler(context.Background(), base, deps)
	require.NoError(t, err)

	respBytes, err := handler.Handle(context.Background())
	require.NoError(t, err)

	var resp framework.Response
	require.NoError(t, json.Unmarshal(respBytes, &resp))
	assert.True(t, resp.Processed)

	resultBytes, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var output DetectOutput
	require.NoError(t, json.Unmarshal(resultBytes, &output))
	assert.Equal(t, business.CategoryAll, output.Category)
	assert.Equal(t, 0, output.Total)
}

func TestDetectHandlerPayloadThresholdsOverrideDefaults(t *testing.T) {
	metrics := &fakeMetricsReader{records: []*etmetric.MetricRecord{
		// 作弊率 3%，默认阈值 5 不触发，任务阈值 1 触发
		{ProviderName: "机构A", StatDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			LearnCount: 100, CheatCount: 3},
	}}
	deps := newTestDeps(metrics, &fakeCallback{}, &fakeNotifier{})

	base := newBaseHandler(t, &DetectPayload{
		StartDate:  "2026-08-01",
		EndDate:    "2026-08-02",
		Category:   "cheat_rate",
		Thresholds: map[string]float64{business.ThresholdKeyCheatRate: 1},
	})

	handler, err := NewDetectHandler(context.Background(), base, deps)
	require.NoError(t, err)

	respBytes, err := handler.Handle(context.Background())
	require.NoError(t, err)

	var resp framework.Response
	require.NoError(t, json.Unmarshal(respBytes, &resp))
	assert.True(t, resp.Processed)

	resultBytes, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var output DetectOutput
	require.NoError(t, json.Unmarshal(resultBytes, &output))
	assert.Equal(t, 1, output.Total)
}

func TestDetectHandlerInvalidPayload(t *testing.T) {
	deps := newTestDeps(&fakeMetricsReader{}, &fakeCallback{}, &fakeNotifier{})

	tests := []struct {
		name    string
		payload *DetectPayload
	}{
		{"missing dates", &DetectPayload{}},
		{"bad start date", &DetectPayload{StartDate: "08/01/2026", EndDate: "2026-08-02"}},
		{"end before start", &DetectPayload{StartDate: "2026-08-05", EndDate: "2026-08-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := newBaseHandler(t, tt.payload)
			handler, err := NewDetectHandler(context.Background(), base, deps)
			require.NoError(t, err)

			respBytes, err := handler.Handle(context.Background())
			require.NoError(t, err)

			var resp framework.Response
			require.NoError(t, json.Unmarshal(respBytes, &resp))
			assert.False(t, resp.Processed)
			assert.NotNil(t, resp.Error)
		})
	}
}
