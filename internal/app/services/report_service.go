package services

import (
	"context"
	"sort"
	"time"

	authz "github.com/selinay/moraled/internal/app/auth"
	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/repositories"
	"github.com/selinay/moraled/internal/pkg/apperrors"
)

// Interval selects the bucket size of a behavior time series.
type Interval string

const (
	IntervalDay   Interval = "day"
	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"
)

// Valid reports whether i is a known interval.
func (i Interval) Valid() bool {
	return i == IntervalDay || i == IntervalWeek || i == IntervalMonth
}

// defaultReportDays is the reporting window when start_date is absent.
const defaultReportDays = 30

// topActorLimit caps leaderboard lengths in engagement and award reports.
const topActorLimit = 5

// ReportService aggregates behavior scores, submissions and awards into
// report payloads. The aggregation itself is pure; the service only fetches
// the row sets the functions below consume.
type ReportService struct {
	scoreRepo      *repositories.ScoreRepository
	submissionRepo *repositories.SubmissionRepository
	awardRepo      *repositories.AwardRepository
	userRepo       *repositories.UserRepository
}

// NewReportService creates a new ReportService.
func NewReportService(
	scoreRepo *repositories.ScoreRepository,
	submissionRepo *repositories.SubmissionRepository,
	awardRepo *repositories.AwardRepository,
	userRepo *repositories.UserRepository,
) *ReportService {
	return &ReportService{
		scoreRepo:      scoreRepo,
		submissionRepo: submissionRepo,
		awardRepo:      awardRepo,
		userRepo:       userRepo,
	}
}

// ScoreSummary computes the net-score rollup of the scores visible to the
// viewer within the filter.
func (s *ReportService) ScoreSummary(ctx context.Context, viewer authz.Viewer, filter repositories.ScoreFilter) (*dto.ScoreSummary, error) {
	scores, err := s.fetch(ctx, viewer, filter)
	if err != nil {
		return nil, err
	}
	summary := Summarize(scores)
	return &summary, nil
}

// DimensionReport computes the per-dimension breakdown of visible scores.
func (s *ReportService) DimensionReport(ctx context.Context, viewer authz.Viewer, filter repositories.ScoreFilter) ([]dto.DimensionScore, error) {
	scores, err := s.fetch(ctx, viewer, filter)
	if err != nil {
		return nil, err
	}
	return DimensionBreakdown(scores), nil
}

// TimeSeriesReport buckets visible scores by the interval.
func (s *ReportService) TimeSeriesReport(ctx context.Context, viewer authz.Viewer, filter repositories.ScoreFilter, interval Interval) (*dto.BehaviorTimeSeries, error) {
	if !interval.Valid() {
		return nil, apperrors.NewValidationError("interval must be day, week or month")
	}
	scores, err := s.fetch(ctx, viewer, filter)
	if err != nil {
		return nil, err
	}
	series := TimeSeries(scores, interval)
	return &series, nil
}

// EngagementReport summarizes parent, student and teacher activity in a
// window.
func (s *ReportService) EngagementReport(ctx context.Context, viewer authz.Viewer, from, to time.Time) (*dto.UserEngagementReport, error) {
	parentTallies, err := s.submissionRepo.ObservationTallies(ctx, from, to)
	if err != nil {
		return nil, err
	}
	studentTallies, err := s.submissionRepo.SelfReportTallies(ctx, from, to)
	if err != nil {
		return nil, err
	}
	scores, err := s.scoreRepo.ListForReport(ctx, authz.Scope(viewer, authz.ResourceBehaviorScores),
		repositories.ScoreFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	return &dto.UserEngagementReport{
		ParentEngagement:  Engagement(parentTallies),
		StudentEngagement: Engagement(studentTallies),
		TeacherEngagement: TeacherEngagement(scores),
	}, nil
}

// AwardAnalytics summarizes award distribution over a window.
func (s *ReportService) AwardAnalytics(ctx context.Context, from, to time.Time) (*dto.AwardAnalytics, error) {
	rows, err := s.awardRepo.ListForReport(ctx, from, to)
	if err != nil {
		return nil, err
	}
	analytics := AwardAnalyticsFrom(rows)
	return &analytics, nil
}

func (s *ReportService) fetch(ctx context.Context, viewer authz.Viewer, filter repositories.ScoreFilter) ([]*models.BehaviorScore, error) {
	scope := authz.Scope(viewer, authz.ResourceBehaviorScores)
	return s.scoreRepo.ListForReport(ctx, scope, filter)
}

// Summarize computes the net score of a score event set. The net score always
// equals positive points minus negative points.
func Summarize(scores []*models.BehaviorScore) dto.ScoreSummary {
	var summary dto.ScoreSummary
	for _, score := range scores {
		if score.ScoreType == models.ScorePositive {
			summary.PositivePoints += score.Points
			summary.PositiveCount++
		} else {
			summary.NegativePoints += score.Points
			summary.NegativeCount++
		}
	}
	summary.NetScore = summary.PositivePoints - summary.NegativePoints
	return summary
}

// DimensionBreakdown rolls scores up per rule dimension. The per-dimension
// net points total to the overall net score.
func DimensionBreakdown(scores []*models.BehaviorScore) []dto.DimensionScore {
	byDimension := make(map[int64]*dto.DimensionScore)
	for _, score := range scores {
		entry, ok := byDimension[score.DimensionID]
		if !ok {
			entry = &dto.DimensionScore{
				DimensionID:   score.DimensionID,
				DimensionName: score.DimensionName,
			}
			byDimension[score.DimensionID] = entry
		}
		if score.ScoreType == models.ScorePositive {
			entry.PositiveCount++
			entry.PositivePoints += score.Points
		} else {
			entry.NegativeCount++
			entry.NegativePoints += score.Points
		}
		entry.TotalRecords++
	}

	out := make([]dto.DimensionScore, 0, len(byDimension))
	for _, entry := range byDimension {
		entry.NetPoints = entry.PositivePoints - entry.NegativePoints
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DimensionID < out[j].DimensionID })
	return out
}

// TimeSeries buckets score events by interval, split into positive and
// negative series. Bucket labels are the first day of the bucket.
func TimeSeries(scores []*models.BehaviorScore, interval Interval) dto.BehaviorTimeSeries {
	positive := make(map[string]*dto.TimeSeriesEntry)
	negative := make(map[string]*dto.TimeSeriesEntry)

	for _, score := range scores {
		label := bucketLabel(score.DateOfBehavior, interval)
		buckets := positive
		if score.ScoreType == models.ScoreNegative {
			buckets = negative
		}
		entry, ok := buckets[label]
		if !ok {
			entry = &dto.TimeSeriesEntry{Date: label}
			buckets[label] = entry
		}
		entry.Count++
		entry.Points += score.Points
	}

	return dto.BehaviorTimeSeries{
		PositiveSeries: sortedSeries(positive),
		NegativeSeries: sortedSeries(negative),
	}
}

// bucketLabel truncates a timestamp to its bucket start. Weeks start Monday.
func bucketLabel(t time.Time, interval Interval) string {
	switch interval {
	case IntervalWeek:
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return t.AddDate(0, 0, 1-weekday).Format("2006-01-02")
	case IntervalMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).Format("2006-01-02")
	}
	return t.Format("2006-01-02")
}

func sortedSeries(buckets map[string]*dto.TimeSeriesEntry) []dto.TimeSeriesEntry {
	out := make([]dto.TimeSeriesEntry, 0, len(buckets))
	for _, entry := range buckets {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Engagement rolls per-actor submission tallies into a group summary. An
// actor with no resolved submissions has a rejection rate of zero, never a
// division by zero.
func Engagement(tallies []*repositories.SubmissionTally) dto.EngagementGroup {
	byActor := make(map[int64]*dto.ActorEngagement)
	for _, tally := range tallies {
		actor, ok := byActor[tally.ActorID]
		if !ok {
			actor = &dto.ActorEngagement{ActorID: tally.ActorID}
			byActor[tally.ActorID] = actor
		}
		actor.Total += tally.Count
		switch tally.Status {
		case models.StatusApproved:
			actor.ApprovedCount += tally.Count
		case models.StatusRejected:
			actor.RejectedCount += tally.Count
		}
	}

	var group dto.EngagementGroup
	var approved int
	actors := make([]dto.ActorEngagement, 0, len(byActor))
	for _, actor := range byActor {
		resolved := actor.ApprovedCount + actor.RejectedCount
		if resolved > 0 {
			actor.RejectionRate = float64(actor.RejectedCount) / float64(resolved)
		}
		group.Total += actor.Total
		approved += actor.ApprovedCount
		actors = append(actors, *actor)
	}
	group.ActiveActors = len(actors)
	if group.Total > 0 {
		group.ApprovalRate = float64(approved) / float64(group.Total)
	}

	sort.Slice(actors, func(i, j int) bool {
		if actors[i].Total != actors[j].Total {
			return actors[i].Total > actors[j].Total
		}
		return actors[i].ActorID < actors[j].ActorID
	})
	if len(actors) > topActorLimit {
		actors = actors[:topActorLimit]
	}
	group.TopActors = actors
	return group
}

// TeacherEngagement summarizes scoring activity per recorder.
func TeacherEngagement(scores []*models.BehaviorScore) dto.TeacherActivity {
	byTeacher := make(map[int64]*dto.TeacherScores)
	var positive, negative int
	for _, score := range scores {
		teacher, ok := byTeacher[score.RecordedByID]
		if !ok {
			teacher = &dto.TeacherScores{TeacherID: score.RecordedByID}
			byTeacher[score.RecordedByID] = teacher
		}
		teacher.ScoreCount++
		if score.ScoreType == models.ScorePositive {
			teacher.PositiveCount++
			positive++
		} else {
			teacher.NegativeCount++
			negative++
		}
	}

	activity := dto.TeacherActivity{
		TotalScores:    len(scores),
		ActiveTeachers: len(byTeacher),
	}
	if negative > 0 {
		activity.PositiveNegativeRatio = float64(positive) / float64(negative)
	} else {
		activity.PositiveNegativeRatio = float64(positive)
	}

	teachers := make([]dto.TeacherScores, 0, len(byTeacher))
	for _, teacher := range byTeacher {
		teachers = append(teachers, *teacher)
	}
	sort.Slice(teachers, func(i, j int) bool {
		if teachers[i].ScoreCount != teachers[j].ScoreCount {
			return teachers[i].ScoreCount > teachers[j].ScoreCount
		}
		return teachers[i].TeacherID < teachers[j].TeacherID
	})
	if len(teachers) > topActorLimit {
		teachers = teachers[:topActorLimit]
	}
	activity.MostActive = teachers
	return activity
}

// AwardAnalyticsFrom rolls award rows into distribution, leaderboard and
// monthly trend views.
func AwardAnalyticsFrom(rows []*repositories.AwardReportRow) dto.AwardAnalytics {
	byType := make(map[models.AwardType]int)
	byLevel := make(map[int]int)
	byStudent := make(map[int64]*dto.TopStudent)
	byMonth := make(map[string]int)

	for _, row := range rows {
		byType[row.AwardType]++
		if row.AwardType == models.AwardStar && row.Level != nil {
			byLevel[*row.Level]++
		}
		student, ok := byStudent[row.StudentID]
		if !ok {
			student = &dto.TopStudent{
				StudentID:   row.StudentID,
				StudentName: row.StudentFirstName + " " + row.StudentLastName,
			}
			byStudent[row.StudentID] = student
		}
		student.Count++
		byMonth[row.AwardDate.Format("2006-01")]++
	}

	analytics := dto.AwardAnalytics{}
	for _, awardType := range []models.AwardType{models.AwardStar, models.AwardBadge, models.AwardCertificate, models.AwardOther} {
		if count := byType[awardType]; count > 0 {
			analytics.AwardsByType = append(analytics.AwardsByType, dto.AwardTypeCount{
				AwardType: string(awardType),
				Count:     count,
			})
		}
	}
	for level := 1; level <= 5; level++ {
		if count := byLevel[level]; count > 0 {
			analytics.StarDistribution = append(analytics.StarDistribution, dto.StarLevelCount{
				Level: level,
				Count: count,
			})
		}
	}

	students := make([]dto.TopStudent, 0, len(byStudent))
	for _, student := range byStudent {
		students = append(students, *student)
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].Count != students[j].Count {
			return students[i].Count > students[j].Count
		}
		return students[i].StudentID < students[j].StudentID
	})
	if len(students) > topActorLimit {
		students = students[:topActorLimit]
	}
	analytics.TopStudents = students

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)
	for _, month := range months {
		analytics.AwardsOverTime = append(analytics.AwardsOverTime, dto.MonthCount{
			Month: month,
			Count: byMonth[month],
		})
	}
	return analytics
}
