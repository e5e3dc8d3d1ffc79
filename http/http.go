package http

import (
	"net/http"

	"classroom-module/db"
	"classroom-module/http/handlers"
	"classroom-module/http/middleware"
	"classroom-module/services"
)

// SetupRoutes wires the services over the postgres stores and configures
// all HTTP routes and middleware
func SetupRoutes() {
	assignmentStore := db.NewAssignmentStore()
	paymentStore := db.NewPaymentStore()
	courseStore := db.NewCourseStore()
	userStore := db.NewUserStore()
	notificationStore := db.NewNotificationStore()

	notifications := services.NewNotificationService(notificationStore)
	chat := services.NewChatRelay()
	mail := services.NewEmailQueue()
	receipts := services.NewPDFReceiptGenerator()

	handlers.Init(handlers.Deps{
		Assignments:   services.NewAssignmentService(assignmentStore, courseStore, userStore, notifications, chat, mail),
		Payments:      services.NewPaymentService(paymentStore, courseStore, userStore, notifications, chat, mail, receipts),
		Notifications: notifications,
		Reports:       services.NewReportService(paymentStore, userStore),
		Courses:       courseStore,
		Users:         userStore,
	})

	// Assignment APIs
	http.HandleFunc("/create-assignment", middleware.EnableCORS(handlers.CreateAssignment))
	http.HandleFunc("/assignments", middleware.EnableCORS(handlers.GetAssignments))
	http.HandleFunc("/submit-assignment", middleware.EnableCORS(handlers.SubmitAssignment))
	http.HandleFunc("/grade-assignment", middleware.EnableCORS(handlers.GradeAssignment))

	// Payment APIs
	http.HandleFunc("/submit-payment", middleware.EnableCORS(handlers.SubmitPayment))
	http.HandleFunc("/teacher-payments", middleware.EnableCORS(handlers.GetTeacherPayments))
	http.HandleFunc("/approve-payment", middleware.EnableCORS(handlers.ApprovePayment))
	http.HandleFunc("/reject-payment", middleware.EnableCORS(handlers.RejectPayment))
	http.HandleFunc("/payment-status", middleware.EnableCORS(handlers.GetPaymentStatus))
	http.HandleFunc("/export-payments", middleware.EnableCORS(handlers.ExportPayments))

	// Notification APIs
	http.HandleFunc("/notifications", middleware.EnableCORS(handlers.GetNotifications))
	http.HandleFunc("/mark-notification-read", middleware.EnableCORS(handlers.MarkNotificationRead))
	http.HandleFunc("/mark-all-notifications-read", middleware.EnableCORS(handlers.MarkAllNotificationsRead))
	http.HandleFunc("/delete-notification", middleware.EnableCORS(handlers.DeleteNotification))

	// Course Management APIs
	http.HandleFunc("/courses", middleware.EnableCORS(handlers.GetCourses))
	http.HandleFunc("/course", middleware.EnableCORS(handlers.GetCourseByID))
	http.HandleFunc("/create-course", middleware.EnableCORS(handlers.CreateCourse))

	// User Management APIs
	http.HandleFunc("/create-student", middleware.EnableCORS(handlers.CreateStudent))
	http.HandleFunc("/create-teacher", middleware.EnableCORS(handlers.CreateTeacher))
}
