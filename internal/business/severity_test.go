package business

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsp/supwatch/pkg/errorx"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		observed  float64
		threshold float64
		want      Severity
	}{
		{"far below threshold", 1, 10, SeverityMinor},
		{"just below moderate boundary", 14.9, 10, SeverityMinor},
		{"moderate boundary inclusive", 15, 10, SeverityModerate},
		{"between moderate and important", 19.9, 10, SeverityModerate},
		{"important boundary inclusive", 20, 10, SeverityImportant},
		{"between important and critical", 29.9, 10, SeverityImportant},
		{"critical boundary inclusive", 30, 10, SeverityCritical},
		{"far above critical", 100, 10, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.observed, tt.threshold)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// 严重程度随比值单调不降
func TestClassifyMonotone(t *testing.T) {
	rank := map[Severity]int{
		SeverityMinor:     0,
		SeverityModerate:  1,
		SeverityImportant: 2,
		SeverityCritical:  3,
	}

	prev := -1
	for observed := 0.0; observed <= 40.0; observed += 0.5 {
		got, err := Classify(observed, 10)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rank[got], prev, "observed=%v", observed)
		prev = rank[got]
	}
}

func TestClassifyInvalidThreshold(t *testing.T) {
	_, err := Classify(10, 0)
	require.Error(t, err)
	assert.True(t, errorx.IsPrecondition(err))

	_, err = Classify(10, -5)
	require.Error(t, err)
	assert.True(t, errorx.IsPrecondition(err))
}

func TestThresholdsValue(t *testing.T) {
	thresholds := Thresholds{ThresholdKeyCheatRate: 5}

	v, err := thresholds.Value(ThresholdKeyCheatRate)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	_, err = thresholds.Value(ThresholdKeyFaceFailRate)
	require.Error(t, err)
	assert.True(t, errorx.IsPrecondition(err))
}
