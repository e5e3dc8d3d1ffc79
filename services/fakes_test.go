package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"classroom-module/models"
)

// In-memory store fakes mirroring the conditional-write semantics of the
// postgres implementations. Each fake exposes err hooks to force failures.

type fakeAssignmentStore struct {
	items     map[string]models.Assignment
	createErr error
	appendErr error
	saveErr   error
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{items: map[string]models.Assignment{}}
}

func (f *fakeAssignmentStore) Create(_ context.Context, a models.Assignment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.items[a.ID] = a
	return nil
}

func (f *fakeAssignmentStore) GetByID(_ context.Context, id string) (models.Assignment, error) {
	a, ok := f.items[id]
	if !ok {
		return models.Assignment{}, ErrNotFound
	}
	return a, nil
}

func (f *fakeAssignmentStore) AppendSubmission(_ context.Context, assignmentID string, sub models.Submission, now time.Time) (models.Assignment, error) {
	if f.appendErr != nil {
		return models.Assignment{}, f.appendErr
	}
	a, ok := f.items[assignmentID]
	if !ok {
		return models.Assignment{}, ErrNotFound
	}
	for _, s := range a.Submissions {
		if s.StudentID == sub.StudentID {
			return models.Assignment{}, ErrDuplicateSubmission
		}
	}
	a.Submissions = append(a.Submissions, sub)
	a.Status = models.ComputeStatus(a.Submissions)
	a.UpdatedAt = now
	f.items[assignmentID] = a
	return a, nil
}

func (f *fakeAssignmentStore) ReplaceSubmissions(_ context.Context, assignmentID string, subs []models.Submission, status string, now time.Time) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	a, ok := f.items[assignmentID]
	if !ok {
		return ErrNotFound
	}
	a.Submissions = subs
	a.Status = status
	a.UpdatedAt = now
	f.items[assignmentID] = a
	return nil
}

func (f *fakeAssignmentStore) List(_ context.Context, in ListAssignmentsInput) ([]models.Assignment, int, error) {
	var all []models.Assignment
	for _, a := range f.items {
		if in.CourseID != "" && a.CourseID != in.CourseID {
			continue
		}
		if in.SearchText != "" {
			needle := strings.ToLower(in.SearchText)
			if !strings.Contains(strings.ToLower(a.Title), needle) &&
				!strings.Contains(strings.ToLower(a.Description), needle) {
				continue
			}
		}
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	start := (in.Page - 1) * in.PageSize
	if start > total {
		start = total
	}
	end := start + in.PageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

type fakePaymentStore struct {
	items      map[string]models.Payment
	createErr  error
	approveErr error
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{items: map[string]models.Payment{}}
}

func (f *fakePaymentStore) Create(_ context.Context, p models.Payment) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.items {
		if existing.StudentID == p.StudentID && existing.CourseID == p.CourseID && existing.IsActive() {
			return ErrDuplicateActivePayment
		}
	}
	f.items[p.ID] = p
	return nil
}

func (f *fakePaymentStore) GetByID(_ context.Context, id string) (models.Payment, error) {
	p, ok := f.items[id]
	if !ok {
		return models.Payment{}, ErrNotFound
	}
	return p, nil
}

func (f *fakePaymentStore) LatestActive(_ context.Context, studentID, courseID string) (models.Payment, error) {
	var latest models.Payment
	found := false
	for _, p := range f.items {
		if p.StudentID != studentID || p.CourseID != courseID || !p.IsActive() {
			continue
		}
		if !found || p.SubmittedAt.After(latest.SubmittedAt) {
			latest = p
			found = true
		}
	}
	if !found {
		return models.Payment{}, ErrNotFound
	}
	return latest, nil
}

func (f *fakePaymentStore) LatestForPair(_ context.Context, studentID, courseID string) (models.Payment, error) {
	var latest models.Payment
	found := false
	for _, p := range f.items {
		if p.StudentID != studentID || p.CourseID != courseID {
			continue
		}
		if !found || p.SubmittedAt.After(latest.SubmittedAt) {
			latest = p
			found = true
		}
	}
	if !found {
		return models.Payment{}, ErrNotFound
	}
	return latest, nil
}

func (f *fakePaymentStore) MarkApproved(_ context.Context, id, approvedBy string, at time.Time) (bool, error) {
	if f.approveErr != nil {
		return false, f.approveErr
	}
	p, ok := f.items[id]
	if !ok || p.Status != models.PaymentStatusPending {
		return false, nil
	}
	p.Status = models.PaymentStatusApproved
	p.ApprovedBy = approvedBy
	p.ApprovedAt = &at
	f.items[id] = p
	return true, nil
}

func (f *fakePaymentStore) MarkRejected(_ context.Context, id, reason string) (bool, error) {
	p, ok := f.items[id]
	if !ok || p.Status != models.PaymentStatusPending {
		return false, nil
	}
	p.Status = models.PaymentStatusRejected
	p.RejectionReason = reason
	f.items[id] = p
	return true, nil
}

func (f *fakePaymentStore) ListForTeacher(_ context.Context, teacherID, status string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.items {
		if p.TeacherID != teacherID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

type fakeCourseStore struct {
	items     map[string]models.Course
	enrollErr error
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{items: map[string]models.Course{}}
}

func (f *fakeCourseStore) Create(_ context.Context, c models.Course) error {
	f.items[c.ID] = c
	return nil
}

func (f *fakeCourseStore) GetByID(_ context.Context, id string) (models.Course, error) {
	c, ok := f.items[id]
	if !ok {
		return models.Course{}, ErrNotFound
	}
	return c, nil
}

func (f *fakeCourseStore) List(_ context.Context) ([]models.Course, error) {
	var out []models.Course
	for _, c := range f.items {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCourseStore) Enroll(_ context.Context, courseID, studentID string) (bool, error) {
	if f.enrollErr != nil {
		return false, f.enrollErr
	}
	c, ok := f.items[courseID]
	if !ok {
		return false, ErrNotFound
	}
	if c.IsEnrolled(studentID) {
		return false, nil
	}
	c.EnrolledStudents = append(c.EnrolledStudents, studentID)
	c.TotalStudents = len(c.EnrolledStudents)
	f.items[courseID] = c
	return true, nil
}

type fakeUserStore struct {
	students map[string]models.Student
	teachers map[string]models.Teacher
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		students: map[string]models.Student{},
		teachers: map[string]models.Teacher{},
	}
}

func (f *fakeUserStore) CreateStudent(_ context.Context, s models.Student) error {
	f.students[s.ID] = s
	return nil
}

func (f *fakeUserStore) GetStudent(_ context.Context, id string) (models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return models.Student{}, ErrNotFound
	}
	return s, nil
}

func (f *fakeUserStore) CreateTeacher(_ context.Context, t models.Teacher) error {
	f.teachers[t.ID] = t
	return nil
}

func (f *fakeUserStore) GetTeacher(_ context.Context, id string) (models.Teacher, error) {
	t, ok := f.teachers[id]
	if !ok {
		return models.Teacher{}, ErrNotFound
	}
	return t, nil
}

type fakeNotificationStore struct {
	items     map[string]models.Notification
	order     []string
	createErr error
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{items: map[string]models.Notification{}}
}

func (f *fakeNotificationStore) Create(_ context.Context, n models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.items[n.ID] = n
	f.order = append(f.order, n.ID)
	return nil
}

func (f *fakeNotificationStore) GetByID(_ context.Context, id string) (models.Notification, error) {
	n, ok := f.items[id]
	if !ok {
		return models.Notification{}, ErrNotFound
	}
	return n, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, id string) (bool, error) {
	n, ok := f.items[id]
	if !ok {
		return false, ErrNotFound
	}
	if n.Read {
		return false, nil
	}
	n.Read = true
	f.items[id] = n
	return true, nil
}

func (f *fakeNotificationStore) MarkAllRead(_ context.Context, userID, userType string) (int, error) {
	count := 0
	for id, n := range f.items {
		if n.UserID != userID || n.Read {
			continue
		}
		if userType != "" && n.UserType != userType {
			continue
		}
		n.Read = true
		f.items[id] = n
		count++
	}
	return count, nil
}

func (f *fakeNotificationStore) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeNotificationStore) ListForUser(_ context.Context, userID string, filter NotificationFilter) ([]models.Notification, error) {
	var out []models.Notification
	for i := len(f.order) - 1; i >= 0; i-- {
		n, ok := f.items[f.order[i]]
		if !ok || n.UserID != userID {
			continue
		}
		if filter.UnreadOnly && n.Read {
			continue
		}
		if filter.UserType != "" && n.UserType != filter.UserType {
			continue
		}
		out = append(out, n)
		if len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// byType returns the notifications of the given type, in creation order.
func (f *fakeNotificationStore) byType(typ string) []models.Notification {
	var out []models.Notification
	for _, id := range f.order {
		if n, ok := f.items[id]; ok && n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

type recordingChat struct {
	messages []string
	err      error
}

func (c *recordingChat) Send(userID, text string) error {
	if c.err != nil {
		return c.err
	}
	c.messages = append(c.messages, userID+": "+text)
	return nil
}

type recordingMail struct {
	sent []string
	err  error
}

func (m *recordingMail) Queue(to, subject, _ string, _ ...string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to+": "+subject)
	return nil
}

type fakeReceipts struct {
	path string
	err  error
}

func (r *fakeReceipts) Generate(models.Payment, models.Student, models.Course) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.path, nil
}
