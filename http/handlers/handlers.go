package handlers

import (
	"classroom-module/services"
)

// Service instances shared by all handlers, wired once at startup.
var (
	assignmentService   *services.AssignmentService
	paymentService      *services.PaymentService
	notificationService *services.NotificationService
	reportService       *services.ReportService
	courseStore         services.CourseStore
	userStore           services.UserStore
)

// Deps carries the services the handlers delegate to.
type Deps struct {
	Assignments   *services.AssignmentService
	Payments      *services.PaymentService
	Notifications *services.NotificationService
	Reports       *services.ReportService
	Courses       services.CourseStore
	Users         services.UserStore
}

// Init wires the handler package. Must be called before serving.
func Init(d Deps) {
	assignmentService = d.Assignments
	paymentService = d.Payments
	notificationService = d.Notifications
	reportService = d.Reports
	courseStore = d.Courses
	userStore = d.Users
}
