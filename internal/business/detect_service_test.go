package business

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsp/supwatch/internal/domains/entity/etmetric"
)

// nopLogger 测试用空日志
type nopLogger struct{}

func (nopLogger) Debugf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Infof(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Warnf(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Errorf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Sync() error                                                    { return nil }

func newTestDetectService(metrics MetricsReader, problems OverdueProblemReader) *DetectService {
	return NewDetectService(DefaultDetectors(metrics, problems), nopLogger{})
}

func TestDetectAnomaliesAll(t *testing.T) {
	metrics := &fakeMetricsReader{records: []*etmetric.MetricRecord{
		// 同一记录同时触发作弊率与转化率异常
		{ProviderName: "机构A", StatDate: testDate(1), LoginCount: 100, LearnCount: 30, CheatCount: 6},
	}}
	problems := &fakeProblemReader{}

	svc := newTestDetectService(metrics, problems)

	anomalies, err := svc.DetectAnomalies(context.Background(), testDate(1), testDate(2), CategoryAll, testThresholds)
	require.NoError(t, err)
	require.Len(t, anomalies, 2)

	// 结果按检测器注册顺序排列：作弊率在前，转化率在后
	assert.Equal(t, CategoryCheatRate, anomalies[0].Type)
	assert.Equal(t, CategoryLearnConversion, anomalies[1].Type)
}

func TestDetectAnomaliesCategoryFilter(t *testing.T) {
	metrics := &fakeMetricsReader{records: []*etmetric.MetricRecord{
		{ProviderName: "机构A", StatDate: testDate(1), LoginCount: 100, LearnCount: 30, CheatCount: 6},
	}}
	svc := newTestDetectService(metrics, &fakeProblemReader{})

	anomalies, err := svc.DetectAnomalies(context.Background(), testDate(1), testDate(2), CategoryCheatRate, testThresholds)
	require.NoError(t, err)
	require.Len(t, anomalies, 1)
	assert.Equal(t, CategoryCheatRate, anomalies[0].Type)

	// 未知类别不匹配任何检测器，返回空列表而非错误
	anomalies, err = svc.DetectAnomalies(context.Background(), testDate(1), testDate(2), "no_such_category", testThresholds)
	require.NoError(t, err)
	assert.Empty(t, anomalies)
}

func TestDetectAnomaliesDeterministic(t *testing.T) {
	metrics := &fakeMetricsReader{records: []*etmetric.MetricRecord{
		{ProviderName: "机构A", StatDate: testDate(1), LearnCount: 100, CheatCount: 8},
		{ProviderName: "机构B", StatDate: testDate(2), LearnCount: 100, CheatCount: 12},
	}}
	svc := newTestDetectService(metrics, &fakeProblemReader{})

	first, err := svc.DetectAnomalies(context.Background(), testDate(1), testDate(3), CategoryAll, testThresholds)
	require.NoError(t, err)
	second, err := svc.DetectAnomalies(context.Background(), testDate(1), testDate(3), CategoryAll, testThresholds)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDetectAnomaliesEmptyData(t *testing.T) {
	svc := newTestDetectService(&fakeMetricsReader{}, &fakeProblemReader{})

	anomalies, err := svc.DetectAnomalies(context.Background(), testDate(1), testDate(2), CategoryAll, testThresholds)
	require.NoError(t, err)
	assert.Empty(t, anomalies)
}

func TestDetectAnomaliesMissingThresholdHalts(t *testing.T) {
	metrics := &fakeMetricsReader{records: []*etmetric.MetricRecord{
		{ProviderName: "机构A", StatDate: testDate(1), LearnCount: 100, CheatCount: 8},
	}}
	svc := newTestDetectService(metrics, &fakeProblemReader{})

	// 缺少人脸失败率阈值时整体失败，不静默跳过
	partial := Thresholds{ThresholdKeyCheatRate: 5}
	_, err := svc.DetectAnomalies(context.Background(), testDate(1), testDate(2), CategoryAll, partial)
	require.Error(t, err)
}

func TestCountBySeverity(t *testing.T) {
	anomalies := []Anomaly{
		{Severity: SeverityCritical},
		{Severity: SeverityImportant},
		{Severity: SeverityImportant},
		{Severity: SeverityMinor},
	}

	counts := CountBySeverity(anomalies)
	assert.Equal(t, 1, counts[string(SeverityCritical)])
	assert.Equal(t, 2, counts[string(SeverityImportant)])
	assert.Equal(t, 1, counts[string(SeverityMinor)])
	assert.Equal(t, 0, counts[string(SeverityModerate)])
}
