package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"accountability/internal/model"
)

// SettingsRepository handles per-user delivery and suppression state.
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns a user's settings, creating the row on first access.
func (r *SettingsRepository) Get(ctx context.Context, userID string) (*model.UserSettings, error) {
	var settings model.UserSettings
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ?", userID).First(&settings).Error
	switch {
	case err == nil:
		return &settings, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		settings = model.UserSettings{UserID: userID}
		if err := db.Create(&settings).Error; err != nil {
			return nil, fmt.Errorf("create settings: %w", err)
		}
		return &settings, nil
	default:
		return nil, fmt.Errorf("find settings: %w", err)
	}
}

func (r *SettingsRepository) FindByChatID(ctx context.Context, chatID int64) (*model.UserSettings, error) {
	var settings model.UserSettings
	if err := r.db.WithContext(ctx).Where("telegram_chat_id = ?", chatID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// LinkChat connects a Telegram chat to a user as delivery target,
// creating the settings row when needed.
func (r *SettingsRepository) LinkChat(ctx context.Context, userID string, chatID int64) (*model.UserSettings, error) {
	settings, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings.TelegramChatID = &chatID
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, fmt.Errorf("link chat: %w", err)
	}
	return settings, nil
}

// UnlinkChat disconnects whichever user the chat was linked to.
func (r *SettingsRepository) UnlinkChat(ctx context.Context, chatID int64) error {
	if err := r.db.WithContext(ctx).Model(&model.UserSettings{}).
		Where("telegram_chat_id = ?", chatID).
		Update("telegram_chat_id", nil).Error; err != nil {
		return fmt.Errorf("unlink chat: %w", err)
	}
	return nil
}

// ListLinked returns all users with a delivery target configured.
func (r *SettingsRepository) ListLinked(ctx context.Context) ([]model.UserSettings, error) {
	var settings []model.UserSettings
	if err := r.db.WithContext(ctx).Where("telegram_chat_id IS NOT NULL").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings *model.UserSettings) error {
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
