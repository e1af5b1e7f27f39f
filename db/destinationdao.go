package db

import (
	"context"
	"errors"
	"fmt"

	"destination-travel-api/model"

	"gorm.io/gorm"
)

var ErrDestinationNotFound = errors.New("destination not found")

type DestinationDAO struct {
	db *gorm.DB
}

func NewDestinationDAO(db *gorm.DB) *DestinationDAO {
	return &DestinationDAO{db: db}
}

// GetDestinations returns every row ordered by id, so that listings are
// deterministic.
func (destinationDAO *DestinationDAO) GetDestinations(ctx context.Context) ([]model.Destination, error) {
	destinations := []model.Destination{}
	result := destinationDAO.db.WithContext(ctx).Order("id ASC").Find(&destinations)
	if result.Error != nil {
		return nil, result.Error
	}
	return destinations, nil
}

func (destinationDAO *DestinationDAO) GetDestinationById(ctx context.Context, destinationID int) (model.Destination, error) {
	var destination model.Destination
	result := destinationDAO.db.WithContext(ctx).First(&destination, destinationID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return model.Destination{}, fmt.Errorf("%w: id %d", ErrDestinationNotFound, destinationID)
		}
		return model.Destination{}, result.Error
	}
	return destination, nil
}

// CreateDestination inserts a single row. It takes a pointer so that the
// generated id is written back into the param struct.
func (destinationDAO *DestinationDAO) CreateDestination(ctx context.Context, destination *model.Destination) error {
	// the id is always assigned by storage
	destination.DestinationID = 0
	result := destinationDAO.db.WithContext(ctx).Create(destination)
	return result.Error
}

// UpdateDestinationById overwrites only the columns present in fields and
// returns the row as stored afterwards.
func (destinationDAO *DestinationDAO) UpdateDestinationById(ctx context.Context, destinationID int, fields map[string]interface{}) (model.Destination, error) {
	if len(fields) == 0 {
		return destinationDAO.GetDestinationById(ctx, destinationID)
	}

	result := destinationDAO.db.WithContext(ctx).Model(&model.Destination{}).Where("id = ?", destinationID).Updates(fields)
	if result.Error != nil {
		return model.Destination{}, result.Error
	}

	// MySQL counts changed rows, not matched rows, so existence is decided
	// by the read
	destination, err := destinationDAO.GetDestinationById(ctx, destinationID)
	if err != nil {
		return model.Destination{}, err
	}
	return destination, nil
}

// DeleteDestinationById reports whether a row was removed.
func (destinationDAO *DestinationDAO) DeleteDestinationById(ctx context.Context, destinationID int) (bool, error) {
	result := destinationDAO.db.WithContext(ctx).Delete(&model.Destination{}, destinationID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ResetDestinations empties the table and restarts the id sequence, so the
// next destination created gets id 1 again. Only used against the test
// database.
func (destinationDAO *DestinationDAO) ResetDestinations(ctx context.Context) error {
	tx := destinationDAO.db.WithContext(ctx)

	switch tx.Dialector.Name() {
	case "postgres":
		return tx.Exec(`TRUNCATE TABLE destination RESTART IDENTITY`).Error
	case "mysql":
		return tx.Exec(`TRUNCATE TABLE destination`).Error
	}

	// sqlite has no TRUNCATE; AUTOINCREMENT counters live in sqlite_sequence,
	// which only exists once such a table has been created
	return tx.Transaction(func(tx *gorm.DB) error {
		err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Destination{}).Error
		if err != nil {
			return err
		}

		var sequences int64
		err = tx.Raw(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'`).Scan(&sequences).Error
		if err != nil || sequences == 0 {
			return err
		}
		return tx.Exec(`DELETE FROM sqlite_sequence WHERE name = ?`, model.Destination{}.TableName()).Error
	})
}

func (destinationDAO *DestinationDAO) Ping(ctx context.Context) error {
	sqlDB, err := destinationDAO.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
