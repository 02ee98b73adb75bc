/*
Copyright © 2019 the AquaCrop-Go authors.
This file is part of AquaCrop-Go.

AquaCrop-Go is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

AquaCrop-Go is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with AquaCrop-Go.  If not, see <http://www.gnu.org/licenses/>.
*/


package aquacroputil

import (
	"fmt"
	"os"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/spatialmodel/aquacrop"
	"gorm.io/gorm"
)

// SeasonRecord is a season summary as kept in the summary database.
type SeasonRecord struct {
	gorm.Model   // ID, CreatedAt, UpdatedAt, DeletedAt
	Run          string    `gorm:"index"`
	Season       int
	Crop         string
	PlantingDate time.Time
	HarvestDate  time.Time
	Yield        float64 // [t/ha]
	Irr          float64 // [mm]
	IrrNet       float64 // [mm]
	Mature       bool
	Dead         bool
}

// SummaryStore keeps the season summaries of many runs in a SQLite
// database.
type SummaryStore struct{ db *gorm.DB }

// OpenSummaryStore opens or creates the database at path.
func OpenSummaryStore(path string) (*SummaryStore, error) {
	db, err := gorm.Open(sqlite.Open(os.ExpandEnv(path)), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("aquacrop: opening summary database: %v", err)
	}
	if err := db.AutoMigrate(&SeasonRecord{}); err != nil {
		return nil, fmt.Errorf("aquacrop: migrating summary database: %v", err)
	}
	return &SummaryStore{db: db}, nil
}

// Save stores the summaries of one run, replacing any earlier records
// with the same run name.
func (s *SummaryStore) Save(run string, seasons []aquacrop.SeasonSummary) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("run = ?", run).Delete(&SeasonRecord{}).Error; err != nil {
			return err
		}
		if len(seasons) == 0 {
			return nil
		}
		recs := make([]SeasonRecord, len(seasons))
		for i, ss := range seasons {
			recs[i] = SeasonRecord{
				Run:          run,
				Season:       ss.Season,
				Crop:         ss.Crop,
				PlantingDate: ss.PlantingDate,
				HarvestDate:  ss.HarvestDate,
				Yield:        ss.Yield,
				Irr:          ss.Irr,
				IrrNet:       ss.IrrNet,
				Mature:       ss.Mature,
				Dead:         ss.Dead,
			}
		}
		return tx.Create(&recs).Error
	})
}

// Seasons returns the stored summaries of a run in season order.
func (s *SummaryStore) Seasons(run string) ([]SeasonRecord, error) {
	var list []SeasonRecord
	return list, s.db.Where("run = ?", run).Order("season asc, id asc").Find(&list).Error
}

// Runs returns the names of the stored runs.
func (s *SummaryStore) Runs() ([]string, error) {
	var runs []string
	err := s.db.Model(&SeasonRecord{}).Distinct("run").Order("run asc").Pluck("run", &runs).Error
	return runs, err
}

// Close closes the database.
func (s *SummaryStore) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
