package port

import "github.com/bnema/framereel/internal/domain"

type RunStore interface {
	SaveReport(r *domain.Report) error
	GetReport(id string) (*domain.Report, error)
	ListReports() ([]*domain.Report, error)
	Close() error
}
