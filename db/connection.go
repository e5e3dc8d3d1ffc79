package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"classroom-module/config"
)

var DB *sql.DB

func InitDB() error {
	var err error
	connStr := config.GetDBConnString()

	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	err = DB.Ping()
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	// Create tables
	if err := createTables(); err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}

	return nil
}

func createTables() error {
	studentTable := `
	CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);`

	teacherTable := `
	CREATE TABLE IF NOT EXISTS teachers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);`

	courseTable := `
	CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		price REAL DEFAULT 0,
		teacher_id TEXT REFERENCES teachers(id),
		enrolled_students JSONB NOT NULL DEFAULT '[]',
		total_students INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);`

	assignmentTable := `
	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		course_id TEXT REFERENCES courses(id),
		teacher_id TEXT REFERENCES teachers(id),
		title TEXT NOT NULL,
		description TEXT,
		due_date TIMESTAMPTZ,
		resources JSONB NOT NULL DEFAULT '[]',
		max_grade REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		submissions JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);`

	paymentTable := `
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		student_id TEXT REFERENCES students(id),
		course_id TEXT REFERENCES courses(id),
		teacher_id TEXT REFERENCES teachers(id),
		amount REAL NOT NULL,
		currency TEXT NOT NULL,
		check_image_uri TEXT NOT NULL,
		status TEXT NOT NULL,
		submitted_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		approved_at TIMESTAMPTZ,
		approved_by TEXT,
		rejection_reason TEXT
	);`

	// At most one pending or approved payment per (student, course). A
	// concurrent duplicate insert fails with unique_violation and is turned
	// into the idempotent re-submit path.
	activePaymentIndex := `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_active
	ON payments (student_id, course_id)
	WHERE status IN ('pending', 'approved');`

	notificationTable := `
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		user_type TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT,
		message TEXT,
		link TEXT,
		read BOOLEAN NOT NULL DEFAULT FALSE,
		metadata JSONB,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);`

	statements := []string{
		studentTable,
		teacherTable,
		courseTable,
		assignmentTable,
		paymentTable,
		activePaymentIndex,
		notificationTable,
	}
	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("error creating schema: %w", err)
		}
	}

	return nil
}
