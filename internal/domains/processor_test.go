package domains

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsp/supwatch/internal/business"
	"tsp/supwatch/internal/domains/common"
	"tsp/supwatch/internal/domains/entity/etmetric"
	"tsp/supwatch/internal/domains/entity/etproblem"
	"tsp/supwatch/internal/framework"
	"tsp/supwatch/pkg/lmstfyx"
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

type nopLogger struct{}

func (nopLogger) Debugf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Infof(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Warnf(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Errorf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Sync() error                                                    { return nil }

func newTestDeps() *common.Deps {
	detectService := business.NewDetectService(
		business.DefaultDetectors(&fakeMetricsReader{}, &fakeProblemReader{}), nopLogger{})

	return &common.Deps{
		DetectService: detectService,
		DefaultThresholds: business.Thresholds{
			business.ThresholdKeyCheatRate:           5,
			business.ThresholdKeyFaceFailRate:        20,
			business.ThresholdKeyLearnConversionRate: 60,
			business.ThresholdKeyProblemOverdueDays:  3,
		},
		Logger: nopLogger{},
	}
}

func buildJob(t *testing.T, actionType string, bizData interface{}) *client.Job {
	t.Helper()

	job := map[string]interface{}{
		"payload": map[string]interface{}{
			"data": map[string]interface{}{
				"request_id":  "req-1",
				"action_type": actionType,
				"data":        bizData,
			},
		},
	}
	raw, err := json.Marshal(job)
	require.NoError(t, err)

	return &client.Job{Data: raw}
}

func TestGetProcessRoutesDetectJob(t *testing.T) {
	proc := GetProcess(nopLogger{}, newTestDeps())

	job := buildJob(t, "supervision_detect", map[string]interface{}{
		"start_date": "2026-08-01",
		"end_date":   "2026-08-02",
	})

	resp := proc(context.Background(), job)
	require.NotNil(t, resp)
	assert.Equal(t, lmstfyx.JobRespStatusSuccess, resp.Action)

	var response framework.Response
	require.NoError(t, json.Unmarshal(resp.Data, &response))
	assert.True(t, response.Processed)
}

func TestGetProcessUnknownActionBuries(t *testing.T) {
	proc := GetProcess(nopLogger{}, newTestDeps())

	job := buildJob(t, "no_such_action", map[string]interface{}{})

	resp := proc(context.Background(), job)
	require.NotNil(t, resp)
	assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
}

func TestGetProcessMalformedJobBuries(t *testing.T) {
	proc := GetProcess(nopLogger{}, newTestDeps())

	resp := proc(context.Background(), &client.Job{Data: []byte("not json")})
	require.NotNil(t, resp)
	assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
}
