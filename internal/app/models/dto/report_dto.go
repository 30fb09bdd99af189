package dto

// TimeSeriesEntry is one bucket of a behavior time series.
type TimeSeriesEntry struct {
	Date   string `json:"date"`
	Count  int    `json:"count"`
	Points int    `json:"points"`
}

// BehaviorTimeSeries splits bucketed score events by score type.
type BehaviorTimeSeries struct {
	PositiveSeries []TimeSeriesEntry `json:"positive_series"`
	NegativeSeries []TimeSeriesEntry `json:"negative_series"`
}

// DimensionScore is the per-dimension score breakdown.
type DimensionScore struct {
	DimensionID    int64  `json:"dimension_id"`
	DimensionName  string `json:"dimension_name"`
	PositiveCount  int    `json:"positive_count"`
	NegativeCount  int    `json:"negative_count"`
	PositivePoints int    `json:"positive_points"`
	NegativePoints int    `json:"negative_points"`
	NetPoints      int    `json:"net_points"`
	TotalRecords   int    `json:"total_records"`
}

// ScoreSummary is the overall net-score rollup of a filtered score set.
type ScoreSummary struct {
	PositivePoints int `json:"positive_points"`
	NegativePoints int `json:"negative_points"`
	NetScore       int `json:"net_score"`
	PositiveCount  int `json:"positive_count"`
	NegativeCount  int `json:"negative_count"`
}

// ActorEngagement is the per-actor submission engagement rollup.
type ActorEngagement struct {
	ActorID       int64   `json:"actor_id"`
	ActorName     string  `json:"actor_name,omitempty"`
	Total         int     `json:"total"`
	ApprovedCount int     `json:"approved_count"`
	RejectedCount int     `json:"rejected_count"`
	RejectionRate float64 `json:"rejection_rate"`
}

// EngagementGroup aggregates one actor category.
type EngagementGroup struct {
	Total        int               `json:"total"`
	ActiveActors int               `json:"active_actors"`
	ApprovalRate float64           `json:"approval_rate"`
	TopActors    []ActorEngagement `json:"top_actors"`
}

// UserEngagementReport covers parents, students and teachers over a window.
type UserEngagementReport struct {
	ParentEngagement  EngagementGroup `json:"parent_engagement"`
	StudentEngagement EngagementGroup `json:"student_engagement"`
	TeacherEngagement TeacherActivity `json:"teacher_engagement"`
}

// TeacherActivity summarizes scoring activity of teachers.
type TeacherActivity struct {
	TotalScores           int             `json:"total_scores"`
	ActiveTeachers        int             `json:"active_teachers"`
	PositiveNegativeRatio float64         `json:"positive_negative_ratio"`
	MostActive            []TeacherScores `json:"most_active"`
}

// TeacherScores counts one teacher's recorded score events.
type TeacherScores struct {
	TeacherID     int64 `json:"teacher_id"`
	ScoreCount    int   `json:"score_count"`
	PositiveCount int   `json:"positive_count"`
	NegativeCount int   `json:"negative_count"`
}

// AwardTypeCount is the award distribution entry by type.
type AwardTypeCount struct {
	AwardType string `json:"award_type"`
	Count     int    `json:"count"`
}

// StarLevelCount is the star rating distribution entry.
type StarLevelCount struct {
	Level int `json:"level"`
	Count int `json:"count"`
}

// TopStudent is an awards leaderboard entry.
type TopStudent struct {
	StudentID   int64  `json:"student_id"`
	StudentName string `json:"student_name"`
	Count       int    `json:"count"`
}

// MonthCount is a monthly award count entry.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// AwardAnalytics is the award reporting payload.
type AwardAnalytics struct {
	AwardsByType     []AwardTypeCount `json:"awards_by_type"`
	StarDistribution []StarLevelCount `json:"star_distribution"`
	TopStudents      []TopStudent     `json:"top_students"`
	AwardsOverTime   []MonthCount     `json:"awards_over_time"`
}
