package burnout

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/studypulse/studypulse/internal/domain/grade"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE ANALYZER
// Reads academic results directly: low averages, struggling subjects, and
// recent decline all add risk; sustained strong performance subtracts a
// little.
// ══════════════════════════════════════════════════════════════════════════════

// StrugglingSubject is one grade below the struggling cutoff.
type StrugglingSubject struct {
	Subject    string
	Percentage float64
	ExamType   grade.ExamType
}

// GradeResult is the analyzer verdict. RiskScore is signed: strong
// performance contributes -5, every risk condition stacks positive points.
type GradeResult struct {
	HasLowGrades       bool
	RiskScore          float64
	AvgPercentage      float64
	Message            string
	StrugglingSubjects []StrugglingSubject
	Recommendations    []string
	RecentDecline      bool
}

// GradeAnalyzer examines the most recent grades across all subjects.
// Read-only; an empty grade book yields a neutral result.
type GradeAnalyzer struct {
	grades grade.Repository
	cfg    Config
	logger *slog.Logger
}

// NewGradeAnalyzer creates a GradeAnalyzer.
func NewGradeAnalyzer(grades grade.Repository, cfg Config, logger *slog.Logger) *GradeAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &GradeAnalyzer{
		grades: grades,
		cfg:    cfg,
		logger: logger,
	}
}

// Analyze computes the signed grade risk from the recent grade window.
func (a *GradeAnalyzer) Analyze(ctx context.Context, studentID string) (GradeResult, error) {
	grades, err := a.grades.GetRecent(ctx, studentID, a.cfg.GradeWindowRecords)
	if err != nil {
		return GradeResult{}, fmt.Errorf("grades: fetch recent: %w", err)
	}
	if len(grades) == 0 {
		return GradeResult{}, nil
	}

	var sum float64
	for _, g := range grades {
		sum += g.Percentage
	}
	avg := sum / float64(len(grades))

	var struggling []StrugglingSubject
	for _, g := range grades {
		if g.IsStruggling(a.cfg.GradeStrugglingCutoff) {
			struggling = append(struggling, StrugglingSubject{
				Subject:    g.Subject,
				Percentage: round1(g.Percentage),
				ExamType:   g.ExamType,
			})
		}
	}

	decline := a.recentDecline(grades)

	var (
		riskScore       float64
		message         string
		recommendations []string
	)

	if avg < a.cfg.GradeStrugglingCutoff {
		riskScore += 15
		message = fmt.Sprintf("Average grade %.0f%% - needs focused study time", avg)
		recommendations = append(recommendations,
			"Allocate 2-3 hours daily for weak subjects",
			"Seek tutoring or study groups",
			"Break study sessions into 25-minute focused intervals")
	}

	switch {
	case len(struggling) >= 2:
		riskScore += 15
		message = fmt.Sprintf("%d subjects below %.0f%% - immediate attention needed", len(struggling), a.cfg.GradeStrugglingCutoff)
		subjects := make([]string, 0, len(struggling))
		for _, s := range struggling {
			subjects = append(subjects, s.Subject)
		}
		recommendations = append(recommendations,
			fmt.Sprintf("Critical subjects: %s", strings.Join(subjects, ", ")),
			"Schedule extra practice sessions for weak subjects",
			"Meet with professors during office hours")
	case len(struggling) == 1:
		riskScore += 10
		recommendations = append(recommendations, fmt.Sprintf("Focus on: %s", struggling[0].Subject))
	}

	if decline {
		riskScore += 15
		message = "Grades declining - reduce workload or seek help"
		recommendations = append(recommendations,
			"Review recent study habits and identify issues",
			"Consider dropping non-essential activities",
			"Meet with academic advisor")
	}

	// Strong performance overrides the stacked score with a small
	// reduction; a student above 80% with no weak subjects is allowed to
	// relax.
	if avg > 80 && len(struggling) == 0 {
		riskScore = -5
		message = "Strong academic performance - maintain balance"
		recommendations = []string{
			"You can afford a lighter study schedule",
			"Focus on maintaining work-life balance",
			"Continue current study methods",
		}
	}

	result := GradeResult{
		HasLowGrades:       avg < a.cfg.GradeStrugglingCutoff || len(struggling) >= 2,
		RiskScore:          riskScore,
		AvgPercentage:      round1(avg),
		Message:            message,
		StrugglingSubjects: struggling,
		Recommendations:    recommendations,
		RecentDecline:      decline,
	}

	if result.HasLowGrades {
		a.logger.Debug("grade risk detected",
			slog.String("student_id", studentID),
			slog.Float64("avg_percentage", result.AvgPercentage),
			slog.Int("struggling_subjects", len(struggling)))
	}

	return result, nil
}

// recentDecline compares the mean of the three most recent grades against
// the mean of the next-older three. Requires at least six records.
func (a *GradeAnalyzer) recentDecline(grades []*grade.Grade) bool {
	if len(grades) < 6 {
		return false
	}
	recent := mean(grades[0:3])
	older := mean(grades[3:6])
	return recent < older-a.cfg.GradeDeclineGap
}

func mean(grades []*grade.Grade) float64 {
	var sum float64
	for _, g := range grades {
		sum += g.Percentage
	}
	return sum / float64(len(grades))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
