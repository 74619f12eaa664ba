// Package student содержит доменную модель студента StudyPulse.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package student

import (
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// RollNumber представляет номер зачётки студента.
type RollNumber string

// IsValid проверяет корректность номера зачётки.
func (r RollNumber) IsValid() bool {
	s := string(r)
	return len(s) >= 2 && len(s) <= 20 && !strings.ContainsAny(s, " \t\n\r")
}

// String возвращает строковое представление номера.
func (r RollNumber) String() string {
	return string(r)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Role определяет роль пользователя в системе.
type Role string

const (
	// RoleStudent - студент, владеет задачами, оценками и персональными событиями.
	RoleStudent Role = "student"
	// RoleProctor - куратор, наблюдает за своими студентами.
	RoleProctor Role = "proctor"
	// RoleAdmin - администратор, управляет институциональным календарём.
	RoleAdmin Role = "admin"
)

// IsValid проверяет, что роль корректна.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleProctor, RoleAdmin:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PERSONAL THRESHOLD
// ══════════════════════════════════════════════════════════════════════════════

// PersonalThreshold - персональный базовый уровень недельной нагрузки студента.
// Пересчитывается периодически из исторических WorkloadScore (минимум 10
// недельных значений); пока данных недостаточно, действует системный дефолт.
type PersonalThreshold struct {
	// NormalWeeklyLoad - средняя недельная нагрузка студента.
	NormalWeeklyLoad float64

	// MaxWeeklyLoad - максимальная наблюдавшаяся недельная нагрузка.
	MaxWeeklyLoad float64

	// SampleCount - количество недельных значений, по которым построен базис.
	SampleCount int

	// UpdatedAt - когда базис пересчитывался в последний раз.
	UpdatedAt time.Time
}

// IsPersonalized возвращает true, если базис построен из исторических данных.
func (p PersonalThreshold) IsPersonalized() bool {
	return p.SampleCount >= MinBaselineSamples && p.MaxWeeklyLoad > 0
}

// MaxOrDefault возвращает персональный максимум либо системный дефолт.
func (p PersonalThreshold) MaxOrDefault(systemDefault float64) float64 {
	if p.IsPersonalized() {
		return p.MaxWeeklyLoad
	}
	return systemDefault
}

// MinBaselineSamples - минимум недельных значений для персонализации.
const MinBaselineSamples = 10

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Student представляет студента - владельца задач, событий и оценок.
type Student struct {
	// ID - внутренний UUID студента.
	ID string

	// Name - отображаемое имя.
	Name string

	// Email - уникальный email.
	Email string

	// Role - роль в системе (здесь всегда student для анализа).
	Role Role

	// RollNumber - номер зачётки.
	RollNumber RollNumber

	// Department - факультет (CSE, ECE, ...).
	Department string

	// Semester - текущий семестр (1-8).
	Semester int

	// Thresholds - персональный базис недельной нагрузки.
	Thresholds PersonalThreshold

	// IsActive - участвует ли студент в ежедневном анализе.
	IsActive bool

	// CreatedAt / UpdatedAt - служебные метки времени.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanBeAnalyzed возвращает true, если студента нужно включать в batch-анализ.
func (s *Student) CanBeAnalyzed() bool {
	return s.IsActive && s.Role == RoleStudent
}

// ApplyBaseline записывает новый персональный базис.
func (s *Student) ApplyBaseline(normal, max float64, samples int, at time.Time) {
	s.Thresholds = PersonalThreshold{
		NormalWeeklyLoad: normal,
		MaxWeeklyLoad:    max,
		SampleCount:      samples,
		UpdatedAt:        at,
	}
	s.UpdatedAt = at
}
