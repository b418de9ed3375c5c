package domain

import "context"

// PageRequest описывает параметры страничной выборки. Значения нормализуются
// на границе HTTP из единожды загруженной конфигурации, а не из окружения.
type PageRequest struct {
	Page    int
	Limit   int
	OrderBy string
	Desc    bool
	// Search — подстрока для поиска по имени (только товары).
	Search string
	// Category — фильтр по имени категории (только товары).
	Category string
}

// PageMeta описывает метаданные страничной выборки.
type PageMeta struct {
	Page       int
	Limit      int
	TotalItems int
	TotalPages int
}

// ProductPage — страница товаров.
type ProductPage struct {
	Items []Product
	Meta  PageMeta
}

// OrderPage — страница заказов.
type OrderPage struct {
	Items []Order
	Meta  PageMeta
}

// ProductRepository описывает требования к хранилищу каталога товаров.
// Все читающие методы не видят записи с ненулевым deleted_at.
type ProductRepository interface {
	Create(ctx context.Context, product Product) (Product, error)
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context) ([]Product, error)
	// Update применяет изменения каталога; остаток товара этим методом не меняется.
	Update(ctx context.Context, product Product) (Product, error)
	// SoftDelete помечает товар удалённым, не затирая строку.
	SoftDelete(ctx context.Context, id string) error
	Paginate(ctx context.Context, req PageRequest) (ProductPage, error)
}

// CategoryRepository описывает требования к хранилищу категорий.
type CategoryRepository interface {
	Create(ctx context.Context, category Category) (Category, error)
	Get(ctx context.Context, id string) (Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, category Category) (Category, error)
	SoftDelete(ctx context.Context, id string) error
}

// SellerRepository описывает требования к хранилищу продавцов.
type SellerRepository interface {
	Create(ctx context.Context, seller Seller) (Seller, error)
	Get(ctx context.Context, id string) (Seller, error)
	List(ctx context.Context) ([]Seller, error)
	Update(ctx context.Context, seller Seller) (Seller, error)
	SoftDelete(ctx context.Context, id string) error
}

// UserRepository описывает требования к хранилищу учётных записей.
type UserRepository interface {
	// Create сохраняет пользователя; ErrEmailTaken при повторном email.
	Create(ctx context.Context, user User) (User, error)
	Get(ctx context.Context, id string) (User, error)
	// GetByEmail возвращает пользователя по email или ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (User, error)
}

// OrderRepository описывает операции над уже размещёнными заказами.
// Создание заказа сюда не входит: оно выполняется только через PlacementUnitOfWork.
type OrderRepository interface {
	// Get возвращает заказ с позициями или ErrOrderNotFound.
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
	Paginate(ctx context.Context, req PageRequest) (OrderPage, error)
	// UpdateStatus меняет стадию исполнения; домен статусов фиксирован.
	UpdateStatus(ctx context.Context, id string, status OrderStatus) (Order, error)
	// UpdatePaymentStatus меняет состояние оплаты вне транзакции размещения.
	UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus) (Order, error)
	SoftDelete(ctx context.Context, id string) error
}
