package dao

import (
	"errors"

	"navgrid/nav"

	"github.com/vmihailenco/msgpack/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GridGorm struct {
	Identifier string `gorm:"column:identifier;type:varchar(64);primaryKey"`
	Data       []byte `gorm:"column:data;type:longblob"`
}

func (g GridGorm) TableName() string {
	return "grid"
}

func (d *Dao) SaveGridGorm(gridData *nav.GridData) error {
	data, err := msgpack.Marshal(gridData)
	if err != nil {
		return err
	}
	err = d.gormDb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identifier"}},
		UpdateAll: true,
	}).Create(&GridGorm{
		Identifier: gridData.Identifier,
		Data:       data,
	}).Error
	if err != nil {
		return err
	}
	return nil
}

func (d *Dao) QueryGridGorm(identifier string) (*nav.GridData, error) {
	gridGorm := new(GridGorm)
	err := d.gormDb.Where("identifier = ?", identifier).First(gridGorm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	gridData := new(nav.GridData)
	err = msgpack.Unmarshal(gridGorm.Data, gridData)
	if err != nil {
		return nil, err
	}
	return gridData, nil
}

func (d *Dao) QueryGridIdentifierListGorm() ([]string, error) {
	identifierList := make([]string, 0)
	err := d.gormDb.Model(new(GridGorm)).Pluck("identifier", &identifierList).Error
	if err != nil {
		return nil, err
	}
	return identifierList, nil
}

func (d *Dao) DeleteGridGorm(identifier string) error {
	err := d.gormDb.Where("identifier = ?", identifier).Delete(new(GridGorm)).Error
	if err != nil {
		return err
	}
	return nil
}
