package postgres

import "github.com/hillkeeper/hillkeeper/internal/domain/entity"

// Migrations is a list of all gorm migrations for the database.
var Migrations = []interface{}{
	&entity.AttendanceReport{},
}
