package domain

import "errors"

var (
	// ErrProductNotFound возвращается, если товар не найден или помечен удалённым.
	ErrProductNotFound = errors.New("product not found")
	// ErrCategoryNotFound возвращается, если категория не найдена.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrSellerNotFound возвращается, если продавец не найден.
	ErrSellerNotFound = errors.New("seller not found")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")

	// ErrOutOfStock — бизнес-ошибка: запрошенное количество превышает доступный остаток.
	ErrOutOfStock = errors.New("product is out of stock")
	// ErrStockNegative сигнализирует о попытке списания, уводящей остаток в минус.
	// Проверка выполняется строго под блокировкой строки товара.
	ErrStockNegative = errors.New("stock quantity would become negative")
	// ErrLockTimeout возвращается, когда блокировку строки товара не удалось
	// получить за отведённое время. Вызов можно безопасно повторить целиком.
	ErrLockTimeout = errors.New("stock lock timeout")
	// ErrPersistence — ошибка слоя хранения при записи/коммите. Не повторяется автоматически.
	ErrPersistence = errors.New("persistence failure")

	// Ошибка отсутствующего имени покупателя.
	ErrCustomerNameRequired = errors.New("customer_name is required")
	// Ошибка отсутствующего email покупателя.
	ErrCustomerEmailRequired = errors.New("customer_email is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrOrderLinesRequired = errors.New("order must contain at least one line")
	// Ошибка при некорректном количестве в позиции (<= 0).
	ErrLineQtyInvalid = errors.New("line quantity must be greater than zero")
	// Ошибка отсутствующего идентификатора товара в позиции.
	ErrLineProductRequired = errors.New("line product_id is required")
	// Ошибка неподдерживаемого статуса заказа.
	ErrOrderStatusInvalid = errors.New("unsupported order status")
	// Ошибка неподдерживаемого статуса оплаты.
	ErrPaymentStatusInvalid = errors.New("unsupported payment status")

	// Ошибка отсутствующего имени (категория/продавец/товар/пользователь).
	ErrNameRequired = errors.New("name is required")
	// Ошибка отрицательной цены товара.
	ErrPriceNegative = errors.New("price_minor must be non-negative")
	// Ошибка отрицательного остатка при создании/обновлении товара.
	ErrQuantityNegative = errors.New("quantity must be non-negative")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrTotalMismatch = errors.New("order total does not match lines sum")

	// ErrEmailRequired — отсутствует email в запросе регистрации/логина.
	ErrEmailRequired = errors.New("email is required")
	// ErrEmailTaken — пользователь с таким email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already exists")
	// ErrPasswordRequired — отсутствует пароль.
	ErrPasswordRequired = errors.New("password is required")
	// ErrPasswordMismatch — пароль и подтверждение не совпадают.
	ErrPasswordMismatch = errors.New("password mismatched")
	// ErrInvalidCredentials — неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("invalid user credentials")

	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsRetryable сообщает, имеет ли смысл повторить операцию размещения заказа целиком.
// Повторяется только таймаут блокировки: бизнес-отказы и ошибки записи — нет.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLockTimeout)
}
