package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/app/repositories"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func score(studentID int64, scoreType models.ScoreType, points int, dimensionID int64, recordedBy int64, date string) *models.BehaviorScore {
	return &models.BehaviorScore{
		StudentID:      studentID,
		ScoreType:      scoreType,
		Points:         points,
		DimensionID:    dimensionID,
		DimensionName:  "dim",
		RecordedByID:   recordedBy,
		DateOfBehavior: day(date),
	}
}

func TestSummarizeNetScore(t *testing.T) {
	scores := []*models.BehaviorScore{
		score(1, models.ScorePositive, 5, 1, 10, "2026-03-02"),
		score(1, models.ScorePositive, 3, 2, 10, "2026-03-03"),
		score(1, models.ScoreNegative, 4, 1, 11, "2026-03-04"),
	}

	summary := Summarize(scores)

	assert.Equal(t, 8, summary.PositivePoints)
	assert.Equal(t, 4, summary.NegativePoints)
	assert.Equal(t, 4, summary.NetScore)
	assert.Equal(t, 2, summary.PositiveCount)
	assert.Equal(t, 1, summary.NegativeCount)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.NetScore)
}

func TestDimensionBreakdownReconcilesToNetScore(t *testing.T) {
	scores := []*models.BehaviorScore{
		score(1, models.ScorePositive, 5, 1, 10, "2026-03-02"),
		score(2, models.ScoreNegative, 2, 1, 10, "2026-03-02"),
		score(1, models.ScorePositive, 7, 2, 10, "2026-03-03"),
		score(3, models.ScoreNegative, 1, 3, 11, "2026-03-04"),
	}

	breakdown := DimensionBreakdown(scores)
	summary := Summarize(scores)

	total := 0
	for _, entry := range breakdown {
		assert.Equal(t, entry.PositivePoints-entry.NegativePoints, entry.NetPoints)
		total += entry.NetPoints
	}
	assert.Equal(t, summary.NetScore, total)
	assert.Len(t, breakdown, 3)
}

func TestTimeSeriesBuckets(t *testing.T) {
	scores := []*models.BehaviorScore{
		score(1, models.ScorePositive, 2, 1, 10, "2026-03-02"), // Monday
		score(1, models.ScorePositive, 3, 1, 10, "2026-03-04"), // same ISO week
		score(1, models.ScoreNegative, 1, 1, 10, "2026-03-09"), // next week
		score(1, models.ScorePositive, 4, 1, 10, "2026-04-01"), // next month
	}

	t.Run("day", func(t *testing.T) {
		series := TimeSeries(scores, IntervalDay)
		assert.Len(t, series.PositiveSeries, 3)
		assert.Len(t, series.NegativeSeries, 1)
		assert.Equal(t, "2026-03-02", series.PositiveSeries[0].Date)
		assert.Equal(t, 2, series.PositiveSeries[0].Points)
	})

	t.Run("week", func(t *testing.T) {
		series := TimeSeries(scores, IntervalWeek)
		assert.Len(t, series.PositiveSeries, 2)
		assert.Equal(t, "2026-03-02", series.PositiveSeries[0].Date)
		assert.Equal(t, 5, series.PositiveSeries[0].Points)
		assert.Equal(t, 2, series.PositiveSeries[0].Count)
		assert.Equal(t, "2026-03-09", series.NegativeSeries[0].Date)
	})

	t.Run("month", func(t *testing.T) {
		series := TimeSeries(scores, IntervalMonth)
		assert.Len(t, series.PositiveSeries, 2)
		assert.Equal(t, "2026-03-01", series.PositiveSeries[0].Date)
		assert.Equal(t, "2026-04-01", series.PositiveSeries[1].Date)
	})
}

func TestWeekBucketStartsMonday(t *testing.T) {
	// 2026-03-08 is a Sunday; its week starts 2026-03-02.
	assert.Equal(t, "2026-03-02", bucketLabel(day("2026-03-08"), IntervalWeek))
	assert.Equal(t, "2026-03-02", bucketLabel(day("2026-03-02"), IntervalWeek))
}

func TestEngagementRates(t *testing.T) {
	tallies := []*repositories.SubmissionTally{
		{ActorID: 1, Status: models.StatusApproved, Count: 3},
		{ActorID: 1, Status: models.StatusRejected, Count: 1},
		{ActorID: 2, Status: models.StatusPending, Count: 2},
	}

	group := Engagement(tallies)

	assert.Equal(t, 6, group.Total)
	assert.Equal(t, 2, group.ActiveActors)
	assert.InDelta(t, 0.5, group.ApprovalRate, 1e-9)

	var actor1, actor2 *struct {
		rate  float64
		total int
	}
	for _, actor := range group.TopActors {
		entry := &struct {
			rate  float64
			total int
		}{actor.RejectionRate, actor.Total}
		switch actor.ActorID {
		case 1:
			actor1 = entry
		case 2:
			actor2 = entry
		}
	}
	assert.NotNil(t, actor1)
	assert.NotNil(t, actor2)
	assert.InDelta(t, 0.25, actor1.rate, 1e-9)
	// No resolved submissions: rejection rate stays zero.
	assert.Equal(t, 0.0, actor2.rate)
}

func TestEngagementEmpty(t *testing.T) {
	group := Engagement(nil)
	assert.Equal(t, 0, group.Total)
	assert.Equal(t, 0.0, group.ApprovalRate)
}

func TestTeacherEngagement(t *testing.T) {
	scores := []*models.BehaviorScore{
		score(1, models.ScorePositive, 2, 1, 10, "2026-03-02"),
		score(2, models.ScorePositive, 2, 10, 10, "2026-03-02"),
		score(3, models.ScoreNegative, 1, 1, 11, "2026-03-03"),
	}

	activity := TeacherEngagement(scores)

	assert.Equal(t, 3, activity.TotalScores)
	assert.Equal(t, 2, activity.ActiveTeachers)
	assert.InDelta(t, 2.0, activity.PositiveNegativeRatio, 1e-9)
	assert.Equal(t, int64(10), activity.MostActive[0].TeacherID)
	assert.Equal(t, 2, activity.MostActive[0].ScoreCount)
}

func TestAwardAnalytics(t *testing.T) {
	level3 := 3
	level5 := 5
	rows := []*repositories.AwardReportRow{
		{StudentID: 1, AwardType: models.AwardStar, Level: &level3, AwardDate: day("2026-02-10"), StudentFirstName: "Ayse", StudentLastName: "K"},
		{StudentID: 1, AwardType: models.AwardStar, Level: &level5, AwardDate: day("2026-03-01"), StudentFirstName: "Ayse", StudentLastName: "K"},
		{StudentID: 2, AwardType: models.AwardBadge, AwardDate: day("2026-03-15"), StudentFirstName: "Ali", StudentLastName: "D"},
	}

	analytics := AwardAnalyticsFrom(rows)

	assert.Equal(t, []string{"star", "badge"}, []string{analytics.AwardsByType[0].AwardType, analytics.AwardsByType[1].AwardType})
	assert.Equal(t, 2, analytics.AwardsByType[0].Count)
	assert.Len(t, analytics.StarDistribution, 2)
	assert.Equal(t, int64(1), analytics.TopStudents[0].StudentID)
	assert.Equal(t, 2, analytics.TopStudents[0].Count)
	assert.Equal(t, "2026-02", analytics.AwardsOverTime[0].Month)
	assert.Equal(t, 2, analytics.AwardsOverTime[1].Count)
}
