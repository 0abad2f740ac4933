package db

import (
	"errors"
	"gorm.io/gorm"
)

func GetUserById(id int64) (*User, error) {
	var user User
	result := db.Take(&user, id)

	if result.Error == nil && result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return &user, result.Error
}

func GetAllUsers() ([]User, error) {
	var users []User
	result := db.Order("created_at DESC").Find(&users)
	return users, result.Error
}

// UpsertUser creates the user on first contact, and opportunistically refreshes
// the display fields afterwards. Telegram may omit any of them, so empty
// incoming values never clobber stored ones. The primary key resolves a race
// between two first contacts, the loser simply re-reads.
func UpsertUser(incoming User) (*User, error) {
	var user User
	result := db.Take(&user, incoming.ID)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, result.Error
		}
		user = incoming
		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isPgError(err, "ERROR", "23505") {
				return GetUserById(incoming.ID)
			}
			return nil, err
		}
		return &user, nil
	}

	updates := map[string]interface{}{}
	if incoming.FirstName != "" && incoming.FirstName != user.FirstName {
		updates["first_name"] = incoming.FirstName
	}
	if incoming.LastName != "" && incoming.LastName != user.LastName {
		updates["last_name"] = incoming.LastName
	}
	if incoming.Username != "" && incoming.Username != user.Username {
		updates["username"] = incoming.Username
	}
	if len(updates) == 0 {
		return &user, nil
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func SetUserRegistered(id int64, registered bool) error {
	result := db.Model(&User{}).Where("id = ?", id).Update("registered", registered)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ToggleUserRegistered flips the flag and reports the new value.
func ToggleUserRegistered(id int64) (bool, error) {
	var user User
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Take(&user, id)
		if result.Error != nil {
			return result.Error
		}
		user.Registered = !user.Registered
		return tx.Model(&user).Update("registered", user.Registered).Error
	})
	return user.Registered, err
}

// DeleteUserCascade hard-deletes a user together with their runs, answers and
// live poll votes. Admin operation, never part of the run lifecycle.
func DeleteUserCascade(id int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var user User
		result := tx.Take(&user, id)
		if result.Error != nil {
			return result.Error
		}

		var runIDs []uint
		if err := tx.Model(&SurveyRun{}).Where("user_id = ?", id).Pluck("id", &runIDs).Error; err != nil {
			return err
		}
		if len(runIDs) > 0 {
			if err := tx.Unscoped().Where("run_id IN ?", runIDs).Delete(&SurveyAnswer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("user_id = ?", id).Delete(&SurveyRun{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", id).Delete(&LivePollVote{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&user).Error
	})
}
