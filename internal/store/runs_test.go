package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/funnelwatch/internal/funnel"
	"github.com/blackwell-systems/funnelwatch/internal/recommend"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleSnapshot() funnel.Snapshot {
	return funnel.Snapshot{
		TotalSessions:  20,
		ConvertedCount: 2,
		ConversionRate: 10,
		AvgCartValue:   712.34,
		Stages: []funnel.StageCount{
			{Stage: "homepage", Count: 20, Rate: 100, CumulativeRate: 100},
			{Stage: "browse", Count: 14, Rate: 70, CumulativeRate: 70},
			{Stage: "checkout", Count: 4, Rate: 28.57, CumulativeRate: 20},
		},
	}
}

func sampleRecommendations() []recommend.Recommendation {
	return []recommend.Recommendation{
		{
			Issue: recommend.Issue{
				Title:    "Repair checkout process",
				Category: recommend.CategoryConversion,
				Severity: recommend.SeverityCritical,
			},
			PriorityScore: 95.5,
			Timeline:      recommend.Timeline{MinimumDays: 63, RecommendedDays: 70, Label: "9 weeks"},
		},
		{
			Issue: recommend.Issue{
				Title:    "Improve product discovery",
				Category: recommend.CategoryUserExperience,
				Severity: recommend.SeverityHigh,
			},
			PriorityScore: 61.2,
			Timeline:      recommend.Timeline{MinimumDays: 42, RecommendedDays: 49, Label: "6 weeks"},
		},
	}
}

func TestSaveRun_RoundTrip(t *testing.T) {
	db := openTestDB(t)

	friction := []funnel.FrictionEntry{
		{Stage: "homepage", Count: 6, Percentage: 30},
		{Stage: "browse", Count: 10, Percentage: 50},
	}
	reasons := []funnel.ReasonEntry{
		{Reason: "no further purchase intent", Count: 12, Percentage: 60},
		{Reason: "product out of stock", Count: 4, Percentage: 20},
	}
	impact := recommend.BusinessImpact{
		RevenueIncrease:    90000,
		CostSavings:        5000,
		ImplementationCost: 13000,
		NetBenefit:         82000,
		ROI:                630.77,
	}

	runID, err := db.SaveRun(sampleSnapshot(), friction, reasons, sampleRecommendations(), impact)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	run, err := db.GetRun(runID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, 20, run.Sessions)
	assert.Equal(t, 2, run.Converted)
	assert.InDelta(t, 10.0, run.ConversionRate, 1e-9)
	assert.InDelta(t, 712.34, run.AvgCartValue, 1e-9)
	assert.False(t, run.TakenAt.IsZero())

	stages, err := db.GetStageCounts(runID)
	require.NoError(t, err)
	require.Len(t, stages, 3)
	assert.Equal(t, "homepage", stages[0].Stage)
	assert.Equal(t, "checkout", stages[2].Stage)
	assert.Equal(t, 4, stages[2].Count)

	points, err := db.GetFrictionPoints(runID)
	require.NoError(t, err)
	require.Len(t, points, 2)
	// Ordered by count descending regardless of insert order.
	assert.Equal(t, "browse", points[0].Stage)

	stored, err := db.GetReasons(runID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "no further purchase intent", stored[0].Reason)
	assert.Equal(t, 12, stored[0].Count)

	recs, err := db.GetRecommendations(runID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].Rank)
	assert.Equal(t, "Repair checkout process", recs[0].Title)
	assert.Equal(t, "conversion", recs[0].Category)
	assert.Equal(t, 63, recs[0].MinimumDays)

	imp, err := db.GetImpact(runID)
	require.NoError(t, err)
	require.NotNil(t, imp)
	assert.InDelta(t, 82000, imp.NetBenefit, 1e-9)
	assert.InDelta(t, 630.77, imp.ROI, 1e-9)
}

func TestSaveRun_WithoutRecommendations(t *testing.T) {
	db := openTestDB(t)

	runID, err := db.SaveRun(sampleSnapshot(), nil, nil, nil, recommend.BusinessImpact{})
	require.NoError(t, err)

	recs, err := db.GetRecommendations(runID)
	require.NoError(t, err)
	assert.Empty(t, recs)

	points, err := db.GetFrictionPoints(runID)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestListRuns_NewestFirst(t *testing.T) {
	db := openTestDB(t)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := db.SaveRun(sampleSnapshot(), nil, nil, nil, recommend.BusinessImpact{})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[0], runs[2].ID)

	limited, err := db.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGetLatestRun(t *testing.T) {
	db := openTestDB(t)

	latest, err := db.GetLatestRun()
	require.NoError(t, err)
	assert.Nil(t, latest, "empty database should yield no latest run")

	first, err := db.SaveRun(sampleSnapshot(), nil, nil, nil, recommend.BusinessImpact{})
	require.NoError(t, err)
	second, err := db.SaveRun(sampleSnapshot(), nil, nil, nil, recommend.BusinessImpact{})
	require.NoError(t, err)
	_ = first

	latest, err = db.GetLatestRun()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second, latest.ID)
}

func TestFindRun_Prefix(t *testing.T) {
	db := openTestDB(t)

	id, err := db.SaveRun(sampleSnapshot(), nil, nil, nil, recommend.BusinessImpact{})
	require.NoError(t, err)

	run, err := db.FindRun(id[:8])
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, id, run.ID)

	missing, err := db.FindRun("not-a-run")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetRun_Missing(t *testing.T) {
	db := openTestDB(t)

	run, err := db.GetRun("ffffffff-ffff-ffff-ffff-ffffffffffff")
	require.NoError(t, err)
	assert.Nil(t, run)

	imp, err := db.GetImpact("ffffffff-ffff-ffff-ffff-ffffffffffff")
	require.NoError(t, err)
	assert.Nil(t, imp)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate())
}
