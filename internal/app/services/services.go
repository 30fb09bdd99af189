package services

// Services defined in this package:
// - AuthService: login, token refresh and profile lookup
// - UserService: user management, CSV import/export, promotion
// - GradeService / ClassService: organizational hierarchy
// - RuleService: behavior rule catalogue
// - ScoreService: behavior score events
// - SubmissionService: parent observations and student self-reports
// - AwardService: student awards
// - RelationshipService: student-parent links
// - NotificationService: in-app notifications
// - ReportService: score, engagement and award aggregation
