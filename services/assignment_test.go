package services

import (
	"context"
	"testing"
	"time"

	"classroom-module/errors"
	"classroom-module/models"
)

func assertKind(t *testing.T, err error, want errors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %v, got nil", want)
	}
	if got := errors.KindOf(err); got != want {
		t.Fatalf("error kind = %v, want %v (err: %v)", got, want, err)
	}
}

type assignmentFixture struct {
	store         *fakeAssignmentStore
	courses       *fakeCourseStore
	users         *fakeUserStore
	notifications *fakeNotificationStore
	chat          *recordingChat
	mail          *recordingMail
	svc           *AssignmentService
}

func newAssignmentFixture() *assignmentFixture {
	f := &assignmentFixture{
		store:         newFakeAssignmentStore(),
		courses:       newFakeCourseStore(),
		users:         newFakeUserStore(),
		notifications: newFakeNotificationStore(),
		chat:          &recordingChat{},
		mail:          &recordingMail{},
	}
	f.svc = NewAssignmentService(f.store, f.courses, f.users, NewNotificationService(f.notifications), f.chat, f.mail)

	f.courses.items["c1"] = models.Course{ID: "c1", Name: "Go 101", Price: 150000, TeacherID: "t1"}
	f.users.teachers["t1"] = models.Teacher{ID: "t1", Name: "Asha", Email: "asha@school.test"}
	f.users.students["s1"] = models.Student{ID: "s1", Name: "Ravi", Email: "ravi@school.test"}
	f.users.students["s2"] = models.Student{ID: "s2", Name: "Mina", Email: "mina@school.test"}
	return f
}

func (f *assignmentFixture) seedAssignment(t *testing.T, due *time.Time, maxGrade float64) models.Assignment {
	t.Helper()
	a, err := f.svc.Create(context.Background(), CreateAssignmentInput{
		CourseID:  "c1",
		TeacherID: "t1",
		Title:     "Worksheet 1",
		DueDate:   due,
		MaxGrade:  maxGrade,
	})
	if err != nil {
		t.Fatalf("seed assignment: %v", err)
	}
	return a
}

func TestAssignmentCreateValidation(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateAssignmentInput
		kind errors.Kind
	}{
		{name: "missing title", in: CreateAssignmentInput{CourseID: "c1", TeacherID: "t1"}, kind: errors.Invalid},
		{name: "missing course", in: CreateAssignmentInput{Title: "x", TeacherID: "t1"}, kind: errors.Invalid},
		{name: "negative max grade", in: CreateAssignmentInput{Title: "x", CourseID: "c1", TeacherID: "t1", MaxGrade: -1}, kind: errors.Invalid},
		{name: "unknown course", in: CreateAssignmentInput{Title: "x", CourseID: "nope", TeacherID: "t1"}, kind: errors.NotFound},
		{name: "unknown teacher", in: CreateAssignmentInput{Title: "x", CourseID: "c1", TeacherID: "nope"}, kind: errors.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.in)
			assertKind(t, err, tt.kind)
		})
	}
}

func TestAssignmentCreateDefaults(t *testing.T) {
	f := newAssignmentFixture()
	a := f.seedAssignment(t, nil, 100)

	if a.Status != models.AssignmentStatusPending {
		t.Errorf("new assignment status = %q, want pending", a.Status)
	}
	if len(a.Submissions) != 0 {
		t.Errorf("new assignment has %d submissions, want 0", len(a.Submissions))
	}
	if a.ID == "" {
		t.Error("new assignment has no ID")
	}
}

func TestAssignmentSubmit(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()
	a := f.seedAssignment(t, nil, 100)

	t.Run("no files", func(t *testing.T) {
		_, err := f.svc.Submit(ctx, a.ID, "s1", nil)
		assertKind(t, err, errors.Invalid)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		_, err := f.svc.Submit(ctx, "nope", "s1", []string{"f.pdf"})
		assertKind(t, err, errors.NotFound)
	})

	t.Run("first submission", func(t *testing.T) {
		updated, err := f.svc.Submit(ctx, a.ID, "s1", []string{"f.pdf"})
		if err != nil {
			t.Fatalf("Submit() error: %v", err)
		}
		if len(updated.Submissions) != 1 {
			t.Fatalf("submissions = %d, want 1", len(updated.Submissions))
		}
		if updated.Submissions[0].IsGraded() {
			t.Error("fresh submission must not carry a grade")
		}
		if updated.Status != models.AssignmentStatusPending {
			t.Errorf("status = %q, want pending after ungraded submission", updated.Status)
		}
	})

	t.Run("duplicate submission", func(t *testing.T) {
		_, err := f.svc.Submit(ctx, a.ID, "s1", []string{"again.pdf"})
		assertKind(t, err, errors.Conflict)
		if got := len(f.store.items[a.ID].Submissions); got != 1 {
			t.Errorf("submissions after duplicate = %d, want 1", got)
		}
	})

	t.Run("duplicate caught by conditional write", func(t *testing.T) {
		// Simulate the list changing between the service's read and the
		// store write.
		f.store.appendErr = ErrDuplicateSubmission
		defer func() { f.store.appendErr = nil }()
		_, err := f.svc.Submit(ctx, a.ID, "s2", []string{"f.pdf"})
		assertKind(t, err, errors.Conflict)
	})

	t.Run("teacher notified", func(t *testing.T) {
		got := f.notifications.byType(models.NotificationAssignmentSubmitted)
		if len(got) != 1 {
			t.Fatalf("submission notifications = %d, want 1", len(got))
		}
		if got[0].UserID != "t1" {
			t.Errorf("notification recipient = %q, want t1", got[0].UserID)
		}
	})
}

func TestAssignmentSubmitDeadline(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	a := f.seedAssignment(t, &past, 100)

	_, err := f.svc.Submit(ctx, a.ID, "s1", []string{"late.pdf"})
	assertKind(t, err, errors.BusinessRule)

	// A rejected late submission leaves no trace.
	if got := len(f.store.items[a.ID].Submissions); got != 0 {
		t.Errorf("submissions after rejected late submit = %d, want 0", got)
	}
	if got := f.notifications.byType(models.NotificationAssignmentSubmitted); len(got) != 0 {
		t.Errorf("notifications after rejected late submit = %d, want 0", len(got))
	}

	future := time.Now().UTC().Add(time.Hour)
	b := f.seedAssignment(t, &future, 100)
	if _, err := f.svc.Submit(ctx, b.ID, "s1", []string{"ontime.pdf"}); err != nil {
		t.Fatalf("submit before due date: %v", err)
	}
}

func TestAssignmentGrade(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()
	a := f.seedAssignment(t, nil, 100)
	if _, err := f.svc.Submit(ctx, a.ID, "s1", []string{"f.pdf"}); err != nil {
		t.Fatalf("seed submission: %v", err)
	}

	t.Run("grade above max", func(t *testing.T) {
		_, err := f.svc.Grade(ctx, a.ID, "s1", 101, "")
		assertKind(t, err, errors.BusinessRule)
	})

	t.Run("negative grade", func(t *testing.T) {
		_, err := f.svc.Grade(ctx, a.ID, "s1", -5, "")
		assertKind(t, err, errors.BusinessRule)
	})

	t.Run("no submission for student", func(t *testing.T) {
		_, err := f.svc.Grade(ctx, a.ID, "s2", 80, "")
		assertKind(t, err, errors.NotFound)
	})

	t.Run("grade single submission flips status", func(t *testing.T) {
		updated, err := f.svc.Grade(ctx, a.ID, "s1", 95, "well done")
		if err != nil {
			t.Fatalf("Grade() error: %v", err)
		}
		sub, _ := updated.SubmissionFor("s1")
		if sub.Grade == nil || *sub.Grade != 95 {
			t.Fatalf("grade = %v, want 95", sub.Grade)
		}
		if sub.Feedback != "well done" {
			t.Errorf("feedback = %q", sub.Feedback)
		}
		if updated.Status != models.AssignmentStatusGraded {
			t.Errorf("status = %q, want graded when every submission is graded", updated.Status)
		}
	})

	t.Run("student notified and emailed", func(t *testing.T) {
		got := f.notifications.byType(models.NotificationAssignmentGraded)
		if len(got) != 1 || got[0].UserID != "s1" {
			t.Fatalf("grade notifications = %+v, want one for s1", got)
		}
		if len(f.mail.sent) != 1 {
			t.Errorf("grade emails = %d, want 1", len(f.mail.sent))
		}
	})

	t.Run("regrade is allowed", func(t *testing.T) {
		updated, err := f.svc.Grade(ctx, a.ID, "s1", 70, "revised")
		if err != nil {
			t.Fatalf("regrade: %v", err)
		}
		sub, _ := updated.SubmissionFor("s1")
		if sub.Grade == nil || *sub.Grade != 70 {
			t.Fatalf("regraded grade = %v, want 70", sub.Grade)
		}
		if updated.Status != models.AssignmentStatusGraded {
			t.Errorf("status after regrade = %q, want graded", updated.Status)
		}
	})
}

func TestAssignmentStatusRecomputation(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()
	a := f.seedAssignment(t, nil, 100)

	if _, err := f.svc.Submit(ctx, a.ID, "s1", []string{"a.pdf"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Submit(ctx, a.ID, "s2", []string{"b.pdf"}); err != nil {
		t.Fatal(err)
	}

	// Grading one of two submissions keeps the assignment pending.
	updated, err := f.svc.Grade(ctx, a.ID, "s1", 80, "")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != models.AssignmentStatusPending {
		t.Errorf("status with one ungraded submission = %q, want pending", updated.Status)
	}

	// Grading the last one flips it.
	updated, err = f.svc.Grade(ctx, a.ID, "s2", 90, "")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != models.AssignmentStatusGraded {
		t.Errorf("status with all submissions graded = %q, want graded", updated.Status)
	}

	// A new ungraded submission on a graded assignment would flip it back;
	// ComputeStatus is the single source of truth.
	if got := models.ComputeStatus(append(updated.Submissions, models.Submission{StudentID: "s3"})); got != models.AssignmentStatusPending {
		t.Errorf("ComputeStatus with new ungraded submission = %q, want pending", got)
	}
	if got := models.ComputeStatus(nil); got != models.AssignmentStatusPending {
		t.Errorf("ComputeStatus(nil) = %q, want pending", got)
	}
}

func TestAssignmentList(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		f.seedAssignment(t, nil, 100)
	}

	t.Run("clamps pagination", func(t *testing.T) {
		page, err := f.svc.List(ctx, ListAssignmentsInput{Page: -3, PageSize: 1000})
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if page.Page != 1 {
			t.Errorf("page = %d, want clamped to 1", page.Page)
		}
		if page.PageSize != maxPageSize {
			t.Errorf("page size = %d, want clamped to %d", page.PageSize, maxPageSize)
		}
		if page.Total != 3 {
			t.Errorf("total = %d, want 3", page.Total)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		page, err := f.svc.List(ctx, ListAssignmentsInput{})
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if page.PageSize != defaultPageSize {
			t.Errorf("default page size = %d, want %d", page.PageSize, defaultPageSize)
		}
		if page.PageCount != 1 {
			t.Errorf("page count = %d, want 1", page.PageCount)
		}
	})

	t.Run("rejects unknown sort field", func(t *testing.T) {
		_, err := f.svc.List(ctx, ListAssignmentsInput{SortBy: "amount; DROP TABLE"})
		assertKind(t, err, errors.Invalid)
	})

	t.Run("rejects bad order", func(t *testing.T) {
		_, err := f.svc.List(ctx, ListAssignmentsInput{Order: "sideways"})
		assertKind(t, err, errors.Invalid)
	})

	t.Run("search filter", func(t *testing.T) {
		if _, err := f.svc.Create(ctx, CreateAssignmentInput{
			CourseID:  "c1",
			TeacherID: "t1",
			Title:     "Midterm Project",
			MaxGrade:  100,
		}); err != nil {
			t.Fatal(err)
		}

		page, err := f.svc.List(ctx, ListAssignmentsInput{SearchText: "midterm"})
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if page.Total != 1 || len(page.Items) != 1 {
			t.Fatalf("search results = %d (total %d), want 1", len(page.Items), page.Total)
		}
		if page.Items[0].Title != "Midterm Project" {
			t.Errorf("search returned %q", page.Items[0].Title)
		}
	})
}

func TestAssignmentNotificationFailureDoesNotAbort(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()
	a := f.seedAssignment(t, nil, 100)

	f.notifications.createErr = errors.NewError("notification store down")
	f.chat.err = errors.NewError("chat down")

	updated, err := f.svc.Submit(ctx, a.ID, "s1", []string{"f.pdf"})
	if err != nil {
		t.Fatalf("Submit() must succeed despite notification failures: %v", err)
	}
	if len(updated.Submissions) != 1 {
		t.Errorf("submissions = %d, want 1", len(updated.Submissions))
	}
}
