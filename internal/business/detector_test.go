package business

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsp/supwatch/internal/domains/entity/etmetric"
	"tsp/supwatch/internal/domains/entity/etproblem"
	"tsp/supwatch/pkg/errorx"
)

// fakeMetricsReader 内存指标读取桩
type fakeMetricsReader struct {
	records []*etmetric.MetricRecord
	err     error
}

func (f *fakeMetricsReader) ListByDateRange(ctx context.Context, start, end time.Time, providerID string) ([]*etmetric.MetricRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

// fakeProblemReader 内存逾期问题读取桩
type fakeProblemReader struct {
	problems []*etproblem.Problem
	err      error
}

func (f *fakeProblemReader) FindOverdue(ctx context.Context, now time.Time) ([]*etproblem.Problem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.problems, nil
}

var testThresholds = Thresholds{
	ThresholdKeyCheatRate:           5,
	ThresholdKeyFaceFailRate:        20,
	ThresholdKeyLearnConversionRate: 60,
	ThresholdKeyProblemOverdueDays:  3,
}

func testDate(day int) time.Time {
	return time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC)
}

func TestCheatRateDetector(t *testing.T) {
	reader := &fakeMetricsReader{records: []*etmetric.MetricRecord{
		// 作弊率 10%，超过阈值 5%，比值 2.0 → IMPORTANT
		{ProviderName: "机构A", StatDate: testDate(1), LearnCount: 100, CheatCount: 10},
		// 作弊率 2%，未超阈值
		{ProviderName: "机构B", StatDate: testDate(1), LearnCount: 100, CheatCount: 2},
		// 无学习行为，跳过
		{ProviderName: "机构C", StatDate: testDate(1), LearnCount: 0, CheatCount: 50},
	}}

	d := NewCheatRateDetector(reader)
	assert.Equal(t, CategoryCheatRate, d.Category())

	anomalies, err := d.Detect(context.Background(), testDate(1), testDate(2), testThresholds)
	require.NoError(t, err)
	require.Len(t, anomalies, 1)

	a := anomalies[0]
	assert.Equal(t, CategoryCheatRate, a.Type)
	assert.Equal(t, SeverityImportant, a.Severity)
	assert.Equal(t, "机构A", a.ProviderName)
	assert.Equal(t, 10.0, a.ObservedValue)
	assert.Equal(t, 5.0, a.Threshold)
	assert.Equal(t, float64(100), a.Details["learn_count"])
	assert.Equal(t, float64(10), a.Details["cheat_count"])
}

func TestCheatRateDetectorAtThresholdNoAnomaly(t *testing.T) {
	reader := &fakeMetricsReader{records: []*etmetric.MetricRecord{
		// 恰好等于阈值不产生异常
		{ProviderName: "机构A", StatDate: testDate(1), LearnCount: 100, CheatCount: 5},
	}}

	anomalies, err := NewCheatRateDetector(reader).Detect(context.Background(), testDate(1), testDate(2), testThresholds)
	require.NoError(t, err)
	assert.Empty(t, anomalies)
}

func TestFaceFailRateDetector(t *testing.T) {
	reader := &fakeMetricsReader{records: []*etmetric.MetricRecord{
		// 失败率 70%，比值 3.5 → CRITICAL
		{ProviderName: "机构A", StatDate: testDate(2), FaceSuccessCount: 30, FaceFailCount: 70},
		// 失败率 10%，未超阈值
		{ProviderName: "机构B", StatDate: testDate(2), FaceSuccessCount: 90, FaceFailCount: 10},
		// 当日无识别记录，跳过
		{ProviderName: "机构C", StatDate: testDate(2)},
	}}

	anomalies, err := NewFaceFailRateDetector(reader).Detect(context.Background(), testDate(2), testDate(3), testThresholds)
	require.NoError(t, err)
	require.Len(t, anomalies, 1)

	a := anomalies[0]
	assert.Equal(t, CategoryFaceFailRate, a.Type)
	assert.Equal(t, SeverityCritical, a.Severity)
	assert.Equal(t, 70.0, a.ObservedValue)
}

func TestLearnConversionDetector(t *testing.T) {
	reader := &fakeMetricsReader{records: []*etmetric.MetricRecord{
		// 转化率 40%，缺口 20/10=2.0 → IMPORTANT
		{ProviderName: "机构A", StatDate: testDate(3), LoginCount: 100, LearnCount: 40},
		// 转化率 80%，高于阈值
		{ProviderName: "机构B", StatDate: testDate(3), LoginCount: 100, LearnCount: 80},
		// 登录为 0，跳过
		{ProviderName: "机构C", StatDate: testDate(3), LoginCount: 0, LearnCount: 10},
	}}

	anomalies, err := NewLearnConversionDetector(reader).Detect(context.Background(), testDate(3), testDate(4), testThresholds)
	require.NoError(t, err)
	require.Len(t, anomalies, 1)

	a := anomalies[0]
	assert.Equal(t, CategoryLearnConversion, a.Type)
	assert.Equal(t, SeverityImportant, a.Severity)
	assert.Equal(t, 40.0, a.ObservedValue)
	assert.Equal(t, 60.0, a.Threshold)
}

func TestProblemOverdueDetector(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	p1, err := etproblem.NewProblem(1, "cheat_rate", "cheating", "IMPORTANT", "张三", now.AddDate(0, 0, -6))
	require.NoError(t, err)
	p2, err := etproblem.NewProblem(2, "manual", "doc missing", "MINOR", "李四", now.AddDate(0, 0, -2))
	require.NoError(t, err)

	reader := &fakeProblemReader{problems: []*etproblem.Problem{p1, p2}}

	d := NewProblemOverdueDetector(reader)
	d.now = func() time.Time { return now }

	anomalies, err := d.Detect(context.Background(), testDate(1), testDate(31), testThresholds)
	require.NoError(t, err)
	// p1 逾期 6 天超过阈值 3；p2 逾期 2 天不超过
	require.Len(t, anomalies, 1)

	a := anomalies[0]
	assert.Equal(t, CategoryProblemOverdue, a.Type)
	assert.Equal(t, SeverityImportant, a.Severity)
	assert.Equal(t, 6.0, a.ObservedValue)
	assert.Equal(t, float64(1), a.Details["problem_id"])
	assert.Equal(t, float64(6), a.Details["overdue_days"])
}

func TestDetectorMissingThreshold(t *testing.T) {
	reader := &fakeMetricsReader{}

	_, err := NewCheatRateDetector(reader).Detect(context.Background(), testDate(1), testDate(2), Thresholds{})
	require.Error(t, err)
	assert.True(t, errorx.IsPrecondition(err))
}

func TestDetectorReaderError(t *testing.T) {
	reader := &fakeMetricsReader{err: errors.New("db gone")}

	_, err := NewFaceFailRateDetector(reader).Detect(context.Background(), testDate(1), testDate(2), testThresholds)
	require.Error(t, err)
	assert.False(t, errorx.IsPrecondition(err))
}
