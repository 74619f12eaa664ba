// Package postgres implements the PostgreSQL persistence layer for StudyPulse.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create students table
-- Version: 001

CREATE TABLE IF NOT EXISTS students (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(100) NOT NULL,
    email VARCHAR(255) NOT NULL UNIQUE,
    role VARCHAR(20) NOT NULL DEFAULT 'student',
    roll_number VARCHAR(20) NOT NULL UNIQUE,
    department VARCHAR(100) NOT NULL DEFAULT '',
    semester INTEGER NOT NULL DEFAULT 1,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,

    -- Personal workload baseline, refreshed from history by the batch jobs.
    -- Zero max_weekly_load means "not personalized yet, use system default".
    normal_weekly_load DOUBLE PRECISION NOT NULL DEFAULT 0,
    max_weekly_load DOUBLE PRECISION NOT NULL DEFAULT 0,
    baseline_samples INTEGER NOT NULL DEFAULT 0,
    baseline_updated_at TIMESTAMP WITH TIME ZONE,

    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_role CHECK (role IN ('student', 'proctor', 'admin')),
    CONSTRAINT valid_semester CHECK (semester >= 1 AND semester <= 12),
    CONSTRAINT valid_baseline CHECK (max_weekly_load >= 0 AND normal_weekly_load >= 0)
);

CREATE INDEX IF NOT EXISTS idx_students_roll_number ON students(roll_number);
CREATE INDEX IF NOT EXISTS idx_students_active ON students(is_active) WHERE is_active;
`

const migration001Down = `
DROP TABLE IF EXISTS students;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE TASKS AND CALENDAR EVENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create tasks and calendar_events tables
-- Version: 002

CREATE TABLE IF NOT EXISTS tasks (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    title VARCHAR(200) NOT NULL,
    task_type VARCHAR(20) NOT NULL DEFAULT 'other',
    subject VARCHAR(100) NOT NULL DEFAULT '',
    deadline TIMESTAMP WITH TIME ZONE NOT NULL,
    estimated_effort DOUBLE PRECISION NOT NULL,
    weight DOUBLE PRECISION NOT NULL DEFAULT 1,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_task_type CHECK (task_type IN
        ('exam', 'project', 'assignment', 'quiz', 'placement', 'hackathon', 'other')),
    CONSTRAINT valid_effort CHECK (estimated_effort > 0),
    CONSTRAINT valid_weight CHECK (weight > 0)
);

CREATE INDEX IF NOT EXISTS idx_tasks_student_deadline ON tasks(student_id, deadline);
CREATE INDEX IF NOT EXISTS idx_tasks_uncompleted ON tasks(student_id, deadline) WHERE NOT completed;

CREATE TABLE IF NOT EXISTS calendar_events (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title VARCHAR(200) NOT NULL,
    event_type VARCHAR(20) NOT NULL DEFAULT 'event',
    start_date TIMESTAMP WITH TIME ZONE NOT NULL,
    end_date TIMESTAMP WITH TIME ZONE NOT NULL,
    duration_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
    institutional BOOLEAN NOT NULL DEFAULT FALSE,
    -- NULL created_by marks institutional events not owned by anyone.
    created_by UUID REFERENCES students(id) ON DELETE CASCADE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_event_type CHECK (event_type IN
        ('exam', 'holiday', 'registration', 'deadline', 'event', 'other')),
    CONSTRAINT valid_dates CHECK (end_date >= start_date)
);

CREATE INDEX IF NOT EXISTS idx_events_start_date ON calendar_events(start_date);
CREATE INDEX IF NOT EXISTS idx_events_institutional ON calendar_events(start_date) WHERE institutional;
CREATE INDEX IF NOT EXISTS idx_events_created_by ON calendar_events(created_by) WHERE created_by IS NOT NULL;
`

const migration002Down = `
DROP TABLE IF EXISTS calendar_events;
DROP TABLE IF EXISTS tasks;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE GRADES, WORKLOAD SCORES AND SIGNALS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create grades, workload_scores and signals tables
-- Version: 003

CREATE TABLE IF NOT EXISTS grades (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    subject VARCHAR(100) NOT NULL,
    exam_type VARCHAR(20) NOT NULL,
    marks DOUBLE PRECISION NOT NULL,
    max_marks DOUBLE PRECISION NOT NULL,
    percentage DOUBLE PRECISION NOT NULL,
    exam_date TIMESTAMP WITH TIME ZONE NOT NULL,
    semester INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_marks CHECK (marks >= 0 AND marks <= max_marks),
    CONSTRAINT valid_max_marks CHECK (max_marks > 0)
);

CREATE INDEX IF NOT EXISTS idx_grades_student_date ON grades(student_id, exam_date DESC);

-- One row per student per day. Recomputes overwrite in place; the weekly
-- score is denormalized onto every row of its ISO week.
CREATE TABLE IF NOT EXISTS workload_scores (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    score_date DATE NOT NULL,
    task_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    event_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    daily_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    task_count INTEGER NOT NULL DEFAULT 0,
    event_count INTEGER NOT NULL DEFAULT 0,
    weekly_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    week_number INTEGER NOT NULL,
    year INTEGER NOT NULL,
    calculated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT uniq_student_day UNIQUE (student_id, score_date)
);

CREATE INDEX IF NOT EXISTS idx_workload_student_date ON workload_scores(student_id, score_date);
CREATE INDEX IF NOT EXISTS idx_workload_student_week ON workload_scores(student_id, year, week_number);

-- Append-only prediction journal; notified is the only mutable column.
CREATE TABLE IF NOT EXISTS signals (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    predicted_at TIMESTAMP WITH TIME ZONE NOT NULL,
    collision_flag BOOLEAN NOT NULL DEFAULT FALSE,
    colliding_task_ids TEXT[] NOT NULL DEFAULT '{}',
    volatility_flag BOOLEAN NOT NULL DEFAULT FALSE,
    volatility_severity VARCHAR(10) NOT NULL DEFAULT 'low',
    spike_percentage INTEGER NOT NULL DEFAULT 0,
    recovery_deficit_flag BOOLEAN NOT NULL DEFAULT FALSE,
    continuous_work_streak INTEGER NOT NULL DEFAULT 0,
    performance_drift_flag BOOLEAN NOT NULL DEFAULT FALSE,
    drift_severity VARCHAR(10) NOT NULL DEFAULT '',
    grade_risk_flag BOOLEAN NOT NULL DEFAULT FALSE,
    grade_risk_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    avg_grade DOUBLE PRECISION NOT NULL DEFAULT 0,
    burnout_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    burnout_risk VARCHAR(10) NOT NULL DEFAULT 'low',
    reason_codes TEXT[] NOT NULL DEFAULT '{}',
    notified BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_risk CHECK (burnout_risk IN ('low', 'medium', 'high'))
);

CREATE INDEX IF NOT EXISTS idx_signals_student_created ON signals(student_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_signals_unnotified ON signals(student_id) WHERE NOT notified;
`

const migration003Down = `
DROP TABLE IF EXISTS signals;
DROP TABLE IF EXISTS workload_scores;
DROP TABLE IF EXISTS grades;
`

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_students",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_tasks_and_events",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_grades_workload_signals",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}
