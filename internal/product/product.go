package product

import "context"

// Product is read-only reference data with no lifecycle beyond
// static initialization.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Repository is the products collection.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
}

// MemoryRepository serves the seeded catalog.
type MemoryRepository struct {
	products []Product
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		products: []Product{
			{ID: 1, Name: "chicken breasts", Price: 6.99},
			{ID: 2, Name: "salmon", Price: 12.99},
		},
	}
}

func (m *MemoryRepository) List(_ context.Context) ([]Product, error) {
	out := make([]Product, len(m.products))
	copy(out, m.products)
	return out, nil
}
