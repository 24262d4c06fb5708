package repository

import (
	"greenbites/internal/app/ds"
	"greenbites/internal/app/lifecycle"
)

// Методы для пользователей (ORM)

func (r *Repository) GetUserByID(id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *Repository) GetUserByLogin(login string) (*ds.User, error) {
	var user ds.User
	err := r.db.Where("login = ?", login).First(&user).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *Repository) UserExistsByLogin(login string) (bool, error) {
	var count int64
	err := r.db.Model(&ds.User{}).Where("login = ?", login).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateUser(user *ds.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) UpdateUser(id uint, fullName, password, phone, city *string) error {
	updates := map[string]interface{}{}
	if fullName != nil {
		updates["full_name"] = *fullName
	}
	if password != nil {
		updates["password"] = *password
	}
	if phone != nil {
		updates["phone"] = *phone
	}
	if city != nil {
		updates["city"] = *city
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&ds.User{}).Where("id = ?", id).Updates(updates).Error
}

// AdminUpdateUser правит учетную запись от имени администратора,
// включая роль и флаг активности
func (r *Repository) AdminUpdateUser(id uint, fullName, phone, city *string, userRole *int, isActive *bool) error {
	updates := map[string]interface{}{}
	if fullName != nil {
		updates["full_name"] = *fullName
	}
	if phone != nil {
		updates["phone"] = *phone
	}
	if city != nil {
		updates["city"] = *city
	}
	if userRole != nil {
		updates["role"] = *userRole
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}
	if len(updates) == 0 {
		return nil
	}
	result := r.db.Model(&ds.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}

// DeleteUser удаляет учетную запись
func (r *Repository) DeleteUser(id uint) error {
	result := r.db.Delete(&ds.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}

func (r *Repository) ListUsers() ([]ds.User, error) {
	var users []ds.User
	err := r.db.Order("id").Find(&users).Error
	return users, err
}

// SetUserActive включает или отключает учетную запись
func (r *Repository) SetUserActive(id uint, active bool) error {
	result := r.db.Model(&ds.User{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}
