package database

import (
	"gorm.io/gorm"

	"github.com/avoron/groupchat/internal/models"
)

func (d *Database) SaveUser(user *models.User) error {
	return translate(d.db.Create(user).Error)
}

func (d *Database) GetUser(id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (d *Database) FindUserByName(name string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("name = ?", name).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (d *Database) GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := d.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (d *Database) UpdateUser(user *models.User) error {
	return translate(d.db.Save(user).Error)
}

// DeleteUser удаляет пользователя и каскадом все созданные им чаты
// вместе с их сообщениями и членствами. Чаты, куда он лишь вступил,
// теряют только запись членства.
func (d *Database) DeleteUser(id string) error {
	return translate(d.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}

		var chatIDs []string
		if err := tx.Model(&models.Chat{}).Where("creator_id = ?", id).Pluck("id", &chatIDs).Error; err != nil {
			return err
		}

		if len(chatIDs) > 0 {
			if err := tx.Delete(&models.Message{}, "chat_id IN ?", chatIDs).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.ChatMember{}, "chat_id IN ?", chatIDs).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Chat{}, "id IN ?", chatIDs).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&models.ChatMember{}, "user_id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	}))
}
