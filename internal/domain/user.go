package domain

import "time"

// User — зарегистрированный участник маркетплейса.
type User struct {
	// ID — ключ аккаунта вызывающей стороны, неизменяем после регистрации.
	ID      string
	Name    string
	Surname string
	Email   string
	Role    Role
	// ListingIDs — публикации продавца в порядке создания.
	ListingIDs []int64
	// OrderIDs — заказы, где пользователь покупатель или продавец.
	OrderIDs  []int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone возвращает копию пользователя без общих срезов.
func (u User) Clone() User {
	u.ListingIDs = append([]int64(nil), u.ListingIDs...)
	u.OrderIDs = append([]int64(nil), u.OrderIDs...)
	return u
}
