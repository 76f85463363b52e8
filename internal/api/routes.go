package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Session routes
		v1.POST("/session", handler.Login)
		v1.DELETE("/session", handler.Logout)

		// Grade routes
		v1.GET("/grades", handler.GetGrades)
		v1.POST("/grades/refresh", handler.RefreshGrades)
		v1.POST("/grades/courses/:course_id/hypothetical", handler.AddHypothetical)
		v1.DELETE("/grades/courses/:course_id/hypothetical/:assignment_id", handler.RemoveHypothetical)
		v1.POST("/grades/hypothetical/reset", handler.ResetHypothetical)

		// GPA routes
		v1.GET("/gpa", handler.GetGPA)
		v1.POST("/gpa/weighted/toggle", handler.ToggleWeightedGPA)
		v1.PUT("/gpa/courses/:course_id/weighting", handler.SetCourseWeighting)
		v1.PUT("/gpa/courses/:course_id/exclusion", handler.SetCourseExclusion)

		// Attendance and student routes
		v1.GET("/attendance", handler.GetAttendance)
		v1.GET("/student", handler.GetStudent)
		v1.GET("/student/photo", handler.GetPhoto)
		v1.POST("/student/photo", handler.UploadPhoto)

		// Report export
		v1.GET("/report", handler.ExportReport)
	}
}
