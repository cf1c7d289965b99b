package domain

// Role описывает набор возможностей участника маркетплейса.
//
// Роли образуют небольшую решётку: Buyer и Seller несравнимы, Both покрывает обе.
// Роль пользователя меняется только через Join, поэтому возможности никогда не теряются.
type Role string

const (
	// RoleBuyer — участник может оформлять заказы.
	RoleBuyer Role = "buyer"
	// RoleSeller — участник может создавать товары и публикации.
	RoleSeller Role = "seller"
	// RoleBoth — участник одновременно покупатель и продавец.
	RoleBoth Role = "both"
)

// Valid проверяет, что роль относится к поддерживаемым значениям.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleBoth:
		return true
	default:
		return false
	}
}

// IsSeller истинно для Seller и Both.
func (r Role) IsSeller() bool {
	return r == RoleSeller || r == RoleBoth
}

// IsBuyer истинно для Buyer и Both.
func (r Role) IsBuyer() bool {
	return r == RoleBuyer || r == RoleBoth
}

// Covers сообщает, включает ли r все возможности other.
func (r Role) Covers(other Role) bool {
	return r == other || r == RoleBoth
}

// Join возвращает наименьшую роль, покрывающую обе роли.
func (r Role) Join(other Role) Role {
	switch {
	case r.Covers(other):
		return r
	case other.Covers(r):
		return other
	default:
		return RoleBoth
	}
}
