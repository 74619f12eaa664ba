package student

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции чтения и записи студентов.
type Repository interface {
	// GetByID возвращает студента по внутреннему ID.
	// Возвращает shared.ErrStudentNotFound, если студент не найден.
	GetByID(ctx context.Context, id string) (*Student, error)

	// GetActiveStudents возвращает всех активных студентов для batch-анализа.
	GetActiveStudents(ctx context.Context) ([]*Student, error)

	// Create создаёт нового студента.
	Create(ctx context.Context, s *Student) error

	// UpdateThresholds перезаписывает персональный базис студента.
	// Это единственная мутация, которую выполняет движок анализа.
	UpdateThresholds(ctx context.Context, id string, t PersonalThreshold) error
}
