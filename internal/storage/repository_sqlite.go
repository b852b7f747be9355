package storage

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) SaveGame(rec *GameRecord) error {
	return r.db.Create(rec).Error
}

func (r *sqliteRepository) GetGamesByOwner(email string) ([]GameRecord, error) {
	var games []GameRecord
	err := r.db.Where("owner_email = ?", email).
		Order("start_time DESC").
		Find(&games).Error
	return games, err
}

func (r *sqliteRepository) GetGameByID(id uint, email string) (*GameRecord, error) {
	var rec GameRecord
	err := r.db.Preload("Guesses", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("timestamp ASC")
	}).Where("owner_email = ?", email).First(&rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *sqliteRepository) GetTopGames(limit int) ([]GameRecord, error) {
	var games []GameRecord
	err := r.db.Where("completed = ?", true).
		Order("score DESC").
		Limit(limit).
		Find(&games).Error
	return games, err
}

func (r *sqliteRepository) UpsertProfile(email, displayName string) error {
	p := PlayerProfile{Email: email, DisplayName: displayName}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name"}),
	}).Create(&p).Error
}

func (r *sqliteRepository) GetProfileByEmail(email string) (*PlayerProfile, error) {
	var p PlayerProfile
	err := r.db.Where("email = ?", email).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) UpdateAniListUsername(email, username string) error {
	return r.db.Model(&PlayerProfile{}).
		Where("email = ?", email).
		Update("ani_list_username", username).Error
}

func (r *sqliteRepository) UpdateStatsOnGameEnd(rec *GameRecord) error {
	var p PlayerProfile
	err := r.db.Where("email = ?", rec.OwnerEmail).First(&p).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		p = PlayerProfile{Email: rec.OwnerEmail}
	}
	p.GamesPlayed++
	p.TotalScore += rec.Score
	if rec.Score > p.BestScore {
		p.BestScore = rec.Score
	}
	return r.db.Save(&p).Error
}
