package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	alertmodel "github.com/Andiyp/nauticalapp/internal/alert/model"
	sosmodel "github.com/Andiyp/nauticalapp/internal/sos/model"
)

func TestMergeOrdersNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	alerts := []alertmodel.Alert{
		{ID: "a1", Title: "Harbour closed", CreatedAt: base.Add(10 * time.Minute)},
		{ID: "a2", Title: "Regatta this weekend", CreatedAt: base.Add(5 * time.Minute)},
	}
	requests := []sosmodel.SOSRequest{
		{ID: "s1", BoatName: "Albatross", CreatedAt: base.Add(20 * time.Minute)},
	}

	merged := Merge(alerts, requests)
	require.Len(t, merged, 3)

	assert.Equal(t, KindSOS, merged[0].Kind)
	assert.Equal(t, "s1", merged[0].SOS.ID)
	assert.Equal(t, "a1", merged[1].Alert.ID)
	assert.Equal(t, "a2", merged[2].Alert.ID)
}

func TestMergeStableOnEqualTimestamps(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	alerts := []alertmodel.Alert{{ID: "a1", CreatedAt: ts}}
	requests := []sosmodel.SOSRequest{{ID: "s1", CreatedAt: ts}}

	merged := Merge(alerts, requests)
	require.Len(t, merged, 2)
	assert.Equal(t, KindAlert, merged[0].Kind, "alerts precede requests at the same instant")
	assert.Equal(t, KindSOS, merged[1].Kind)
}

func TestMergeEmptyInputs(t *testing.T) {
	merged := Merge(nil, nil)
	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}
