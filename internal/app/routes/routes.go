package routes

import (
	"github.com/gin-gonic/gin"

	authz "github.com/selinay/moraled/internal/app/auth"
	"github.com/selinay/moraled/internal/app/controllers"
	"github.com/selinay/moraled/internal/middleware"
)

// SetupRouter configures all application routes.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	gradeController *controllers.GradeController,
	classController *controllers.ClassController,
	ruleController *controllers.RuleController,
	scoreController *controllers.ScoreController,
	submissionController *controllers.SubmissionController,
	awardController *controllers.AwardController,
	relationshipController *controllers.RelationshipController,
	notificationController *controllers.NotificationController,
	reportController *controllers.ReportController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.POST("/auth/logout", authController.Logout)
	authenticated.GET("/auth/me", authController.GetProfile)

	// User management (manage-users)
	users := authenticated.Group("/users")
	{
		users.GET("", userController.ListUsers)
		users.GET("/:id", userController.GetUser)

		usersManage := users.Group("")
		usersManage.Use(authMiddleware.PermissionRequired(authz.ActionManageUsers))
		{
			usersManage.POST("", userController.CreateUser)
			usersManage.PUT("/:id", userController.UpdateUser)
			usersManage.DELETE("/:id", userController.DeleteUser)
			usersManage.PUT("/:id/teaching-classes", userController.SetTeachingClasses)
			usersManage.POST("/import", userController.ImportUsers)
			usersManage.GET("/export", userController.ExportUsers)
			usersManage.POST("/promote", userController.PromoteStudents)
		}
	}

	// Grades and classes (administer-classes for mutations)
	grades := authenticated.Group("/grades")
	{
		grades.GET("", gradeController.ListGrades)
		grades.GET("/:id", gradeController.GetGrade)

		gradesAdmin := grades.Group("")
		gradesAdmin.Use(authMiddleware.PermissionRequired(authz.ActionAdministerClasses))
		{
			gradesAdmin.POST("", gradeController.CreateGrade)
			gradesAdmin.PUT("/:id", gradeController.UpdateGrade)
			gradesAdmin.DELETE("/:id", gradeController.DeleteGrade)
		}
	}

	classes := authenticated.Group("/classes")
	{
		classes.GET("", classController.ListClasses)
		classes.GET("/:id", classController.GetClass)
		classes.GET("/:id/students", classController.ListClassStudents)

		classesAdmin := classes.Group("")
		classesAdmin.Use(authMiddleware.PermissionRequired(authz.ActionAdministerClasses))
		{
			classesAdmin.POST("", classController.CreateClass)
			classesAdmin.PUT("/:id", classController.UpdateClass)
			classesAdmin.DELETE("/:id", classController.DeleteClass)
			classesAdmin.PUT("/:id/teachers", classController.AssignClassTeachers)
		}
	}

	// Rule taxonomy (configure-rules for mutations)
	rules := authenticated.Group("/rules")
	{
		rules.GET("/chapters", ruleController.ListChapters)
		rules.GET("/chapters/:id", ruleController.GetChapter)
		rules.GET("/dimensions", ruleController.ListDimensions)
		rules.GET("/dimensions/:id", ruleController.GetDimension)
		rules.GET("/sub-items", ruleController.ListSubItems)
		rules.GET("/sub-items/:id", ruleController.GetSubItem)

		rulesConfigure := rules.Group("")
		rulesConfigure.Use(authMiddleware.PermissionRequired(authz.ActionConfigureRules))
		{
			rulesConfigure.POST("/chapters", ruleController.CreateChapter)
			rulesConfigure.PUT("/chapters/:id", ruleController.UpdateChapter)
			rulesConfigure.DELETE("/chapters/:id", ruleController.DeleteChapter)
			rulesConfigure.POST("/dimensions", ruleController.CreateDimension)
			rulesConfigure.PUT("/dimensions/:id", ruleController.UpdateDimension)
			rulesConfigure.DELETE("/dimensions/:id", ruleController.DeleteDimension)
			rulesConfigure.POST("/sub-items", ruleController.CreateSubItem)
			rulesConfigure.PUT("/sub-items/:id", ruleController.UpdateSubItem)
			rulesConfigure.DELETE("/sub-items/:id", ruleController.DeleteSubItem)
		}
	}

	// Behavior scores (score-students for mutations; reads are scope-filtered)
	scores := authenticated.Group("/scores")
	{
		scores.GET("", scoreController.ListScores)
		scores.GET("/:id", scoreController.GetScore)

		scoresWrite := scores.Group("")
		scoresWrite.Use(authMiddleware.PermissionRequired(authz.ActionScoreStudents))
		{
			scoresWrite.POST("", scoreController.CreateScore)
			scoresWrite.PUT("/:id", scoreController.UpdateScore)
			scoresWrite.DELETE("/:id", scoreController.DeleteScore)
		}
	}

	// Parent observations; creation and edits are owner-checked in the
	// service, review needs review-submissions
	observations := authenticated.Group("/observations")
	{
		observations.POST("", submissionController.CreateObservation)
		observations.GET("", submissionController.ListObservations)
		observations.GET("/:id", submissionController.GetObservation)
		observations.PUT("/:id", submissionController.UpdateObservation)
		observations.DELETE("/:id", submissionController.DeleteObservation)

		observationsReview := observations.Group("")
		observationsReview.Use(authMiddleware.PermissionRequired(authz.ActionReviewSubmissions))
		{
			observationsReview.POST("/:id/review", submissionController.ReviewObservation)
		}
	}

	// Student self-reports
	selfReports := authenticated.Group("/self-reports")
	{
		selfReports.POST("", submissionController.CreateSelfReport)
		selfReports.GET("", submissionController.ListSelfReports)
		selfReports.GET("/:id", submissionController.GetSelfReport)
		selfReports.PUT("/:id", submissionController.UpdateSelfReport)
		selfReports.DELETE("/:id", submissionController.DeleteSelfReport)

		selfReportsReview := selfReports.Group("")
		selfReportsReview.Use(authMiddleware.PermissionRequired(authz.ActionReviewSubmissions))
		{
			selfReportsReview.POST("/:id/review", submissionController.ReviewSelfReport)
		}
	}

	// Awards (score-students for mutations)
	awards := authenticated.Group("/awards")
	{
		awards.GET("", awardController.ListAwards)
		awards.GET("/:id", awardController.GetAward)

		awardsWrite := awards.Group("")
		awardsWrite.Use(authMiddleware.PermissionRequired(authz.ActionScoreStudents))
		{
			awardsWrite.POST("", awardController.CreateAward)
			awardsWrite.PUT("/:id", awardController.UpdateAward)
			awardsWrite.DELETE("/:id", awardController.DeleteAward)
		}
	}

	// Student-parent relationships (manage-users for mutations)
	relationships := authenticated.Group("/relationships")
	{
		relationships.GET("", relationshipController.ListRelationships)
		relationships.GET("/:id", relationshipController.GetRelationship)

		relationshipsManage := relationships.Group("")
		relationshipsManage.Use(authMiddleware.PermissionRequired(authz.ActionManageUsers))
		{
			relationshipsManage.POST("", relationshipController.AssignParent)
			relationshipsManage.DELETE("/:id", relationshipController.DeleteRelationship)
		}
	}

	// Notifications (always the caller's own)
	notifications := authenticated.Group("/notifications")
	{
		notifications.GET("", notificationController.ListNotifications)
		notifications.GET("/unread-count", notificationController.UnreadCount)
		notifications.PUT("/:id/read", notificationController.MarkRead)
		notifications.PUT("/read-all", notificationController.MarkAllRead)
		notifications.DELETE("/:id", notificationController.DeleteNotification)
	}

	// Reports (export-reports)
	reports := authenticated.Group("/reports")
	reports.Use(authMiddleware.PermissionRequired(authz.ActionExportReports))
	{
		reports.GET("/summary", reportController.ScoreSummary)
		reports.GET("/dimensions", reportController.DimensionReport)
		reports.GET("/timeseries", reportController.TimeSeriesReport)
		reports.GET("/engagement", reportController.EngagementReport)
		reports.GET("/awards", reportController.AwardAnalytics)
	}
}
