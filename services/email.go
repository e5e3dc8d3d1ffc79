package services

import (
	"fmt"
	"time"

	"classroom-module/config"
	"classroom-module/logger"
)

// EmailQueue queues emails for asynchronous delivery via Kafka. The
// consumer started by StartEmailWorker performs the actual SMTP send.
type EmailQueue struct{}

// NewEmailQueue creates a new EmailQueue.
func NewEmailQueue() *EmailQueue {
	return &EmailQueue{}
}

// Queue publishes an email.send event to the email topic.
func (q *EmailQueue) Queue(to, subject, body string, attachment ...string) error {
	emailPayload := map[string]interface{}{
		"event":     "email.send",
		"recipient": to,
		"subject":   subject,
		"body":      body,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if len(attachment) > 0 {
		emailPayload["attachment"] = attachment[0]
	}

	// Non-blocking publish - failure doesn't affect the workflow
	go func() {
		if err := Publish(config.AppConfig.EmailTopic, "email-"+to, emailPayload); err != nil {
			logger.Error("Failed to publish email event to Kafka: %v", err)
		}
	}()

	return nil
}

// PaymentSubmittedEmail builds the teacher-facing email for a newly
// submitted payment.
func PaymentSubmittedEmail(teacherName, studentName, courseName string, amount float64, currency string) (subject, body string) {
	subject = fmt.Sprintf("New payment from %s - %s", studentName, courseName)
	body = fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>New Payment Submitted</h2>
	<p>Dear <strong>%s</strong>,</p>
	<p><strong>%s</strong> submitted a check payment of <strong>%.2f %s</strong> for <strong>%s</strong>.</p>
	<p>Please review the check image and approve or reject the payment in your dashboard.</p>
	<p>Best regards,<br/>Classroom Platform</p>
</body>
</html>
	`, teacherName, studentName, amount, currency, courseName)
	return subject, body
}

// PaymentApprovedEmail builds the student-facing approval email.
func PaymentApprovedEmail(studentName, courseName string, amount float64, currency string) (subject, body string) {
	subject = fmt.Sprintf("Payment approved - %s", courseName)
	body = fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Payment Approved</h2>
	<p>Dear <strong>%s</strong>,</p>
	<p>Your payment of <strong>%.2f %s</strong> was approved and you are now enrolled in <strong>%s</strong>.</p>
	<p>Welcome aboard!</p>
	<p>Best regards,<br/>Classroom Platform</p>
</body>
</html>
	`, studentName, amount, currency, courseName)
	return subject, body
}

// PaymentRejectedEmail builds the student-facing rejection email.
func PaymentRejectedEmail(studentName, reason string) (subject, body string) {
	subject = "Payment rejected"
	body = fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Payment Rejected</h2>
	<p>Dear <strong>%s</strong>,</p>
	<p>Unfortunately your payment could not be accepted.</p>
	<p><strong>Reason:</strong> %s</p>
	<p>You may submit a new payment at any time.</p>
	<p>Best regards,<br/>Classroom Platform</p>
</body>
</html>
	`, studentName, reason)
	return subject, body
}

// AssignmentGradedEmail builds the student-facing grading email.
func AssignmentGradedEmail(studentName, assignmentTitle string, grade, maxGrade float64) (subject, body string) {
	subject = fmt.Sprintf("Your assignment was graded - %s", assignmentTitle)
	body = fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Assignment Graded</h2>
	<p>Dear <strong>%s</strong>,</p>
	<p>Your submission for <strong>%s</strong> was graded: <strong>%v / %v</strong>.</p>
	<p>Log in to see the full feedback.</p>
	<p>Best regards,<br/>Classroom Platform</p>
</body>
</html>
	`, studentName, assignmentTitle, grade, maxGrade)
	return subject, body
}
