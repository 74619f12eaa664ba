package burnout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studypulse/studypulse/internal/domain/signal"
	"github.com/studypulse/studypulse/internal/domain/task"
)

// ══════════════════════════════════════════════════════════════════════════════
// TASK ADMISSION POLICY
// Gates new tasks on a freshly computed burnout score. Rules are evaluated
// top to bottom, first match wins. On any internal failure the policy
// fails OPEN: a bug in the gate must never lock students out of creating
// tasks. Every block or warning carries a reason and recommendations;
// silent blocking is never acceptable.
// ══════════════════════════════════════════════════════════════════════════════

// Predictor produces a fresh burnout analysis for a student.
type Predictor interface {
	Predict(ctx context.Context, studentID string) (*Analysis, error)
}

// ProposedTask is the slice of a task the policy needs to decide.
type ProposedTask struct {
	Type            task.Type
	EstimatedEffort float64
}

// Decision is the admission verdict.
type Decision struct {
	Allowed bool
	Warning bool

	// Reason explains a block or warning; empty on a clean allow.
	Reason string

	// Recommendations accompany every block or warning.
	Recommendations []string

	// CurrentScore / CurrentRisk are the prediction the decision was
	// made against. Zero values when the evaluation failed open.
	CurrentScore float64
	CurrentRisk  signal.Risk
}

// AdmissionPolicy decides whether a proposed task may be created.
type AdmissionPolicy struct {
	predictor Predictor
	cfg       Config
	logger    *slog.Logger
}

// NewAdmissionPolicy creates an AdmissionPolicy.
func NewAdmissionPolicy(predictor Predictor, cfg Config, logger *slog.Logger) *AdmissionPolicy {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdmissionPolicy{
		predictor: predictor,
		cfg:       cfg,
		logger:    logger,
	}
}

// Evaluate obtains a fresh burnout analysis and applies the decision
// table. Gating never reads a cached score.
func (p *AdmissionPolicy) Evaluate(ctx context.Context, studentID string, proposed ProposedTask) Decision {
	analysis, err := p.predictor.Predict(ctx, studentID)
	if err != nil {
		// Fail open: allow rather than block core functionality.
		p.logger.Error("admission evaluation failed, allowing task",
			slog.String("student_id", studentID),
			slog.String("error", err.Error()))
		return Decision{Allowed: true}
	}

	decision := p.decide(analysis, proposed)
	p.logger.Info("task admission decided",
		slog.String("student_id", studentID),
		slog.String("task_type", proposed.Type.String()),
		slog.Float64("effort", proposed.EstimatedEffort),
		slog.Float64("score", analysis.Score),
		slog.Bool("allowed", decision.Allowed),
		slog.Bool("warning", decision.Warning))
	return decision
}

// decide applies the decision table to an already-computed analysis.
func (p *AdmissionPolicy) decide(analysis *Analysis, proposed ProposedTask) Decision {
	score := analysis.Score
	risk := analysis.Risk
	effort := proposed.EstimatedEffort
	major := proposed.Type.IsMajor()

	// High risk: strict blocking.
	if score >= p.cfg.RiskHighFloor {
		if major {
			return Decision{
				Allowed: false,
				Reason: fmt.Sprintf("Your burnout risk is CRITICAL (%.0f/100). You cannot add exams or projects right now.", score),
				Recommendations: []string{
					"Focus on completing existing commitments first",
					"Contact your proctor for academic support",
					"Visit the campus counseling center",
					"Consider requesting deadline extensions from instructors",
				},
				CurrentScore: score,
				CurrentRisk:  risk,
			}
		}
		if effort > p.cfg.AdmissionMajorEffortLimit {
			return Decision{
				Allowed: false,
				Reason: fmt.Sprintf("Your burnout risk is CRITICAL (%.0f/100). Tasks requiring %.0f+ hours will worsen your condition.", score, effort),
				Recommendations: []string{
					"Break this task into smaller chunks (<3 hours each)",
					"Postpone non-urgent assignments",
					"Seek help from peers or tutors",
					"Prioritize recovery before taking on new work",
				},
				CurrentScore: score,
				CurrentRisk:  risk,
			}
		}
	}

	// Elevated risk: moderate blocking, warnings for major tasks.
	if score >= p.cfg.AdmissionElevatedScore {
		if effort > p.cfg.AdmissionHeavyEffortLimit {
			return Decision{
				Allowed: false,
				Reason: fmt.Sprintf("Your burnout risk is ELEVATED (%.0f/100). Adding %.0f-hour tasks may push you into critical territory.", score, effort),
				Recommendations: []string{
					"Split this into multiple smaller tasks",
					"Space out deadlines if possible",
					"Current workload should stabilize before adding more",
					"Review stress management strategies",
				},
				CurrentScore: score,
				CurrentRisk:  risk,
			}
		}
		if major && effort > p.cfg.AdmissionMajorEffortLimit {
			return Decision{
				Allowed: true,
				Warning: true,
				Reason: fmt.Sprintf("CAUTION: your burnout risk is %.0f/100. Adding this %s may increase stress significantly.", score, proposed.Type),
				Recommendations: []string{
					"Ensure adequate preparation time",
					"Don't schedule other major tasks in the same week",
					"Plan recovery time after completion",
					"Monitor your stress levels closely",
				},
				CurrentScore: score,
				CurrentRisk:  risk,
			}
		}
	}

	// Medium risk: soft warning on major tasks.
	if score >= p.cfg.RiskMediumFloor && major {
		return Decision{
			Allowed: true,
			Warning: true,
			Reason: fmt.Sprintf("Your burnout risk is MEDIUM (%.0f/100). Be cautious about overcommitting.", score),
			Recommendations: []string{
				"Plan this task carefully",
				"Avoid clustering multiple deadlines",
				"Maintain healthy work-rest balance",
			},
			CurrentScore: score,
			CurrentRisk:  risk,
		}
	}

	return Decision{
		Allowed:      true,
		CurrentScore: score,
		CurrentRisk:  risk,
	}
}
