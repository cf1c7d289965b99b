package domain

import "errors"

var (
	// ErrAlreadyRegistered — аккаунт уже зарегистрирован.
	ErrAlreadyRegistered = errors.New("user already registered")
	// ErrNotRegistered — аккаунт не найден.
	ErrNotRegistered = errors.New("user not registered")
	// ErrInvalidRole — роль вне перечня buyer/seller/both.
	ErrInvalidRole = errors.New("invalid role")

	// ErrNotSeller — операция доступна только продавцам.
	ErrNotSeller = errors.New("user is not a seller")
	// ErrNotBuyer — операция доступна только покупателям.
	ErrNotBuyer = errors.New("user is not a buyer")
	// ErrNotAuthorized — вызывающая сторона не участвует в заказе или не имеет права на переход.
	ErrNotAuthorized = errors.New("caller is not authorized for this operation")
	// ErrUnauthenticated — в контексте вызова нет идентификатора аккаунта.
	ErrUnauthenticated = errors.New("caller identity is required")

	// ErrProductNotFound возвращается, если товар не найден.
	ErrProductNotFound = errors.New("product not found")
	// ErrListingNotFound возвращается, если публикация не найдена.
	ErrListingNotFound = errors.New("listing not found")
	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidCategory — категория вне перечня.
	ErrInvalidCategory = errors.New("invalid product category")
	// ErrInvalidPrice — отрицательная цена публикации.
	ErrInvalidPrice = errors.New("listing price must be non-negative")

	// ErrEmptyOrder — заказ без позиций.
	ErrEmptyOrder = errors.New("order must contain at least one item")
	// ErrInvalidQuantity — количество позиции должно быть больше нуля.
	ErrInvalidQuantity = errors.New("item qty must be greater than zero")
	// ErrDuplicateListing — одна публикация встречается в заказе дважды.
	ErrDuplicateListing = errors.New("listing appears more than once in order")
	// ErrMultipleSellers — позиции заказа принадлежат разным продавцам.
	ErrMultipleSellers = errors.New("order items belong to different sellers")
	// ErrSelfPurchase — покупатель пытается купить собственную публикацию.
	ErrSelfPurchase = errors.New("cannot buy own listing")
	// ErrAmountMismatch — сумма заказа не совпадает с суммой позиций.
	ErrAmountMismatch = errors.New("order amount does not match items sum")

	// ErrInsufficientStock — остатка публикации не хватает.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInsufficientFunds — сумма заказа больше доступных средств.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidState — переход не разрешён из текущего статуса заказа.
	ErrInvalidState = errors.New("transition is not allowed in current order status")
	// ErrAlreadyRequested — та же сторона повторно запросила отмену.
	ErrAlreadyRequested = errors.New("cancellation already requested by caller")
	// ErrOverflow — переполнение при расчёте суммы или выдаче идентификатора.
	ErrOverflow = errors.New("arithmetic overflow")

	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// kinds задаёт стабильные имена видов ошибок для API и метрик.
var kinds = []struct {
	err  error
	kind string
}{
	{ErrAlreadyRegistered, "AlreadyRegistered"},
	{ErrNotRegistered, "NotRegistered"},
	{ErrInvalidRole, "InvalidRole"},
	{ErrNotSeller, "NotSeller"},
	{ErrNotBuyer, "NotBuyer"},
	{ErrNotAuthorized, "NotAuthorized"},
	{ErrUnauthenticated, "Unauthenticated"},
	{ErrProductNotFound, "ProductNotFound"},
	{ErrListingNotFound, "ListingNotFound"},
	{ErrOrderNotFound, "OrderNotFound"},
	{ErrInvalidCategory, "InvalidCategory"},
	{ErrInvalidPrice, "InvalidPrice"},
	{ErrEmptyOrder, "EmptyOrder"},
	{ErrInvalidQuantity, "InvalidQuantity"},
	{ErrDuplicateListing, "DuplicateListing"},
	{ErrMultipleSellers, "MultipleSellers"},
	{ErrSelfPurchase, "SelfPurchase"},
	{ErrAmountMismatch, "AmountMismatch"},
	{ErrInsufficientStock, "InsufficientStock"},
	{ErrInsufficientFunds, "InsufficientFunds"},
	{ErrInvalidState, "InvalidState"},
	{ErrAlreadyRequested, "AlreadyRequested"},
	{ErrOverflow, "Overflow"},
	{ErrOutboxPublish, "OutboxPublish"},
}

// KindInternal — вид для ошибок, не относящихся к бизнес-правилам.
const KindInternal = "Internal"

// Kind возвращает имя вида ошибки: "" для nil, KindInternal для неизвестных ошибок.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// IsBusiness сообщает, является ли ошибка нарушением бизнес-правила (а не сбоем инфраструктуры).
func IsBusiness(err error) bool {
	kind := Kind(err)
	return kind != "" && kind != KindInternal && kind != "OutboxPublish"
}
