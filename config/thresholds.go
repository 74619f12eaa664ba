package config

import (
	"github.com/studypulse/studypulse/internal/domain/burnout"
)

// ThresholdsConfig carries environment overrides for the burnout detection
// thresholds. Every field defaults to the system value; operators tune
// individual knobs without redeploying.
type ThresholdsConfig struct {
	SafeWeeklyLimit float64

	RiskMediumFloor float64
	RiskHighFloor   float64

	CollisionItemLimit  int
	CollisionMajorLimit int
	CollisionHourLimit  float64

	VolatilitySpikeThreshold float64
	RecoveryGapDays          int
	GradeStrugglingCutoff    float64

	AdmissionElevatedScore    float64
	AdmissionMajorEffortLimit float64
	AdmissionHeavyEffortLimit float64
}

func loadThresholdsConfig() ThresholdsConfig {
	def := burnout.DefaultConfig()

	return ThresholdsConfig{
		SafeWeeklyLimit: getEnvFloat("BURNOUT_SAFE_WEEKLY_LIMIT", def.SafeWeeklyLimit),

		RiskMediumFloor: getEnvFloat("BURNOUT_RISK_MEDIUM_FLOOR", def.RiskMediumFloor),
		RiskHighFloor:   getEnvFloat("BURNOUT_RISK_HIGH_FLOOR", def.RiskHighFloor),

		CollisionItemLimit:  getEnvInt("BURNOUT_COLLISION_ITEM_LIMIT", def.CollisionItemLimit),
		CollisionMajorLimit: getEnvInt("BURNOUT_COLLISION_MAJOR_LIMIT", def.CollisionMajorLimit),
		CollisionHourLimit:  getEnvFloat("BURNOUT_COLLISION_HOUR_LIMIT", def.CollisionHourLimit),

		VolatilitySpikeThreshold: getEnvFloat("BURNOUT_VOLATILITY_SPIKE", def.VolatilitySpikeThreshold),
		RecoveryGapDays:          getEnvInt("BURNOUT_RECOVERY_GAP_DAYS", def.RecoveryGapDays),
		GradeStrugglingCutoff:    getEnvFloat("BURNOUT_GRADE_STRUGGLING_CUTOFF", def.GradeStrugglingCutoff),

		AdmissionElevatedScore:    getEnvFloat("BURNOUT_ADMISSION_ELEVATED_SCORE", def.AdmissionElevatedScore),
		AdmissionMajorEffortLimit: getEnvFloat("BURNOUT_ADMISSION_MAJOR_EFFORT", def.AdmissionMajorEffortLimit),
		AdmissionHeavyEffortLimit: getEnvFloat("BURNOUT_ADMISSION_HEAVY_EFFORT", def.AdmissionHeavyEffortLimit),
	}
}

// BurnoutConfig materializes the full detection config, applying the
// environment overrides on top of the system defaults.
func (t ThresholdsConfig) BurnoutConfig() burnout.Config {
	cfg := burnout.DefaultConfig()

	cfg.SafeWeeklyLimit = t.SafeWeeklyLimit
	cfg.RiskMediumFloor = t.RiskMediumFloor
	cfg.RiskHighFloor = t.RiskHighFloor
	cfg.CollisionItemLimit = t.CollisionItemLimit
	cfg.CollisionMajorLimit = t.CollisionMajorLimit
	cfg.CollisionHourLimit = t.CollisionHourLimit
	cfg.VolatilitySpikeThreshold = t.VolatilitySpikeThreshold
	cfg.RecoveryGapDays = t.RecoveryGapDays
	cfg.GradeStrugglingCutoff = t.GradeStrugglingCutoff
	cfg.AdmissionElevatedScore = t.AdmissionElevatedScore
	cfg.AdmissionMajorEffortLimit = t.AdmissionMajorEffortLimit
	cfg.AdmissionHeavyEffortLimit = t.AdmissionHeavyEffortLimit

	return cfg
}
