package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/hillkeeper/hillkeeper/internal/domain/entity"
	"gorm.io/gorm"
)

type ReportStorage struct {
	db *gorm.DB
}

func NewReportStorage(db *gorm.DB) *ReportStorage {
	return &ReportStorage{
		db: db,
	}
}

// Create is a function that archives one evening run outcome in the database.
func (s *ReportStorage) Create(ctx context.Context, report *entity.AttendanceReport) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	return s.db.WithContext(ctx).Create(report).Error
}

// GetByDate is a function that gets all archived reports for a date.
func (s *ReportStorage) GetByDate(ctx context.Context, date string) ([]entity.AttendanceReport, error) {
	var reports []entity.AttendanceReport
	err := s.db.WithContext(ctx).Where("date = ?", date).Find(&reports).Error
	return reports, err
}
