package products

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository wires together catalog persistence helpers for products,
// variants, and categories.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductDetail fetches a product with its category and variants.
func (r *Repository) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug fetches an active product by its slug with category and active variants.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("name ASC")
		}).
		First(&product, "slug = ? AND is_active = ?", slug, true).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID. Variants cascade at the DB level.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// FindVariantByID loads a variant row.
func (r *Repository) FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// CreateVariant inserts a variant row.
func (r *Repository) CreateVariant(ctx context.Context, variant *models.ProductVariant) (*models.ProductVariant, error) {
	if err := r.db.WithContext(ctx).Create(variant).Error; err != nil {
		return nil, err
	}
	return variant, nil
}

// UpdateVariant updates a variant row.
func (r *Repository) UpdateVariant(ctx context.Context, variant *models.ProductVariant) (*models.ProductVariant, error) {
	if err := r.db.WithContext(ctx).Save(variant).Error; err != nil {
		return nil, err
	}
	return variant, nil
}

// DeleteVariant removes a variant by ID.
func (r *Repository) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProductVariant{}).Error
}

// ListCategories returns categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	qb := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		qb = qb.Where("is_active = ?", true)
	}
	var rows []models.Category
	if err := qb.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindCategoryByID loads a category row.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindCategoryBySlug loads a category row by slug.
func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a category row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory updates a category row.
func (r *Repository) UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// ListSummaries pages through catalog rows newest-first with keyset cursors.
func (r *Repository) ListSummaries(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Table("products p").
		Select(strings.Join([]string{
			"p.id",
			"p.name",
			"p.slug",
			"p.sku",
			"p.price",
			"p.compare_price",
			"p.inventory_quantity",
			"p.track_inventory",
			"p.is_featured",
			"p.created_at",
			"c.slug AS category_slug",
		}, ", ")).
		Joins("LEFT JOIN categories c ON c.id = p.category_id")

	filter := input.Filters
	if filter.CategorySlug != nil {
		qb = qb.Where("c.slug = ?", *filter.CategorySlug)
	}
	if filter.Featured != nil {
		qb = qb.Where("p.is_featured = ?", *filter.Featured)
	}
	if filter.PriceMin != nil {
		qb = qb.Where("p.price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		qb = qb.Where("p.price <= ?", *filter.PriceMax)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(p.name) LIKE ? OR LOWER(p.sku) LIKE ?)", pattern, pattern)
	}
	if !input.IncludeInactive {
		qb = qb.Where("p.is_active = ?", true)
		qb = qb.Where("(c.id IS NULL OR c.is_active = ?)", true)
	}

	if cursor != nil {
		qb = qb.Where("(p.created_at < ?) OR (p.created_at = ? AND p.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("p.created_at DESC").Order("p.id DESC").Limit(limitWithBuffer)

	var records []productSummaryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > pageSize {
		resultRows = records[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	summaries := make([]ProductSummary, 0, len(resultRows))
	for _, record := range resultRows {
		summaries = append(summaries, record.toSummary())
	}

	return &ProductListResult{
		Products:   summaries,
		NextCursor: nextCursor,
	}, nil
}

type productSummaryRecord struct {
	ID                uuid.UUID
	Name              string
	Slug              string
	SKU               string
	Price             decimal.Decimal
	ComparePrice      decimal.NullDecimal
	InventoryQuantity int
	TrackInventory    bool
	IsFeatured        bool
	CategorySlug      sql.NullString
	CreatedAt         time.Time
}

func (r productSummaryRecord) toSummary() ProductSummary {
	inStock := !r.TrackInventory || r.InventoryQuantity > 0
	return ProductSummary{
		ID:           r.ID,
		Name:         r.Name,
		Slug:         r.Slug,
		SKU:          r.SKU,
		Price:        r.Price,
		ComparePrice: nullDecimalPtr(r.ComparePrice),
		CategorySlug: nullStringPtr(r.CategorySlug),
		IsFeatured:   r.IsFeatured,
		InStock:      inStock,
		CreatedAt:    r.CreatedAt,
	}
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func nullDecimalPtr(value decimal.NullDecimal) *decimal.Decimal {
	if !value.Valid {
		return nil
	}
	v := value.Decimal
	return &v
}
