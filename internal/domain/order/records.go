package order

import (
	"time"

	"github.com/example/vendor-ops/internal/infrastructure/store"
	"github.com/shopspring/decimal"
)

// Collection names in the document store
const (
	CollectionTransactions   = "transactions"
	CollectionUsers          = "users"
	CollectionProducts       = "products"
	CollectionVendorProducts = "vendor_products"
	CollectionShipperOrders  = "shipper_orders"
)

// Transaction is the stored source of truth for an order
type Transaction struct {
	ID          string
	UserID      string
	StoreName   string
	Items       []TransactionItem
	TotalAmount decimal.Decimal
	Status      Status
	CreatedAt   time.Time
	HasCreated  bool
	UpdatedAt   time.Time
	HasUpdated  bool
	PhoneNumber string
}

type TransactionItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

type User struct {
	ID       string
	FullName string
	Username string
	Phone    string
	Address  string
}

// Product is the subset of a catalogue product used to enrich line items
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
}

// TransactionFromDocument decodes a transaction. Missing fields decode to
// zero values; it never fails.
func TransactionFromDocument(doc store.Document) Transaction {
	t := Transaction{
		ID:          doc.ID(),
		UserID:      doc.String("userId"),
		StoreName:   doc.String("storeName"),
		TotalAmount: doc.Decimal("totalAmount"),
		Status:      Status(doc.String("status")),
		PhoneNumber: doc.String("phoneNumber"),
	}
	t.CreatedAt, t.HasCreated = doc.Time("createdAt")
	t.UpdatedAt, t.HasUpdated = doc.Time("updatedAt")

	for _, item := range doc.Documents("items") {
		t.Items = append(t.Items, TransactionItem{
			ProductID:   item.String("productId"),
			ProductName: item.String("productName"),
			Quantity:    item.Int("quantity"),
			Price:       item.Decimal("price"),
		})
	}
	return t
}

func UserFromDocument(doc store.Document) User {
	return User{
		ID:       doc.ID(),
		FullName: doc.String("fullName"),
		Username: doc.String("username"),
		Phone:    doc.String("phone"),
		Address:  doc.String("address"),
	}
}

func ProductFromDocument(doc store.Document) Product {
	return Product{
		ID:          doc.ID(),
		Name:        doc.String("name"),
		Description: doc.String("description"),
		Price:       doc.Decimal("price"),
	}
}

// FromTransaction builds the order view. user is nil when the owning user
// does not exist; products maps product id to product.
func FromTransaction(t Transaction, user *User, products map[string]Product, now time.Time) Order {
	o := Order{
		ID:              t.ID,
		CustomerID:      t.UserID,
		CustomerName:    Unknown,
		CustomerEmail:   Unknown,
		CustomerPhone:   firstNonEmpty(t.PhoneNumber, Unknown),
		Items:           make([]OrderItem, len(t.Items)),
		TotalAmount:     t.TotalAmount,
		Status:          t.Status,
		CreatedAt:       now,
		UpdatedAt:       now,
		ShippingAddress: Unknown,
		PhoneNumber:     t.PhoneNumber,
	}
	if t.HasCreated {
		o.CreatedAt = t.CreatedAt
	}
	if t.HasUpdated {
		o.UpdatedAt = t.UpdatedAt
	}

	if user != nil {
		o.CustomerName = firstNonEmpty(user.FullName, Unknown)
		o.CustomerEmail = firstNonEmpty(user.Username, Unknown)
		o.CustomerPhone = firstNonEmpty(user.Phone, t.PhoneNumber, Unknown)
		o.ShippingAddress = firstNonEmpty(user.Address, Unknown)
	}

	for i, item := range t.Items {
		o.Items[i] = OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
		if p, ok := products[item.ProductID]; ok {
			o.Items[i].ProductDetails = &ProductDetails{
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price,
			}
		}
	}
	return o
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
