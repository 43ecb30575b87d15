package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ── Categories ──

const listCategoriesSQL = `
	SELECT id, name, sort_order, is_active, created_at, updated_at
	FROM categories
	WHERE is_active = true
	ORDER BY sort_order, name`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const getCategorySQL = `
	SELECT id, name, sort_order, is_active, created_at, updated_at
	FROM categories
	WHERE id = $1 AND is_active = true`

func (q *Queries) GetCategory(ctx context.Context, id uuid.UUID) (Category, error) {
	var c Category
	err := q.db.QueryRow(ctx, getCategorySQL, id).
		Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const createCategorySQL = `
	INSERT INTO categories (name, sort_order)
	VALUES ($1, $2)
	RETURNING id, name, sort_order, is_active, created_at, updated_at`

type CreateCategoryParams struct {
	Name      string
	SortOrder int32
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	var c Category
	err := q.db.QueryRow(ctx, createCategorySQL, arg.Name, arg.SortOrder).
		Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const updateCategorySQL = `
	UPDATE categories
	SET name = $2, sort_order = $3, updated_at = NOW()
	WHERE id = $1 AND is_active = true
	RETURNING id, name, sort_order, is_active, created_at, updated_at`

type UpdateCategoryParams struct {
	ID        uuid.UUID
	Name      string
	SortOrder int32
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	var c Category
	err := q.db.QueryRow(ctx, updateCategorySQL, arg.ID, arg.Name, arg.SortOrder).
		Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const softDeleteCategorySQL = `
	UPDATE categories
	SET is_active = false, updated_at = NOW()
	WHERE id = $1 AND is_active = true
	RETURNING id`

func (q *Queries) SoftDeleteCategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var out uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteCategorySQL, id).Scan(&out)
	return out, err
}

// ── Products ──

const listProductsSQL = `
	SELECT id, category_id, name, description, price, image_url, is_active, created_at, updated_at
	FROM products
	WHERE is_active = true
	  AND ($1::uuid IS NULL OR category_id = $1)
	  AND ($2::text IS NULL OR name ILIKE '%' || $2 || '%')
	ORDER BY name
	LIMIT $3 OFFSET $4`

type ListProductsParams struct {
	CategoryID pgtype.UUID
	Search     pgtype.Text
	Limit      int32
	Offset     int32
}

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProductsSQL, arg.CategoryID, arg.Search, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price,
			&p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

const getProductSQL = `
	SELECT id, category_id, name, description, price, image_url, is_active, created_at, updated_at
	FROM products
	WHERE id = $1 AND is_active = true`

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	var p Product
	err := q.db.QueryRow(ctx, getProductSQL, id).
		Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price,
			&p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const createProductSQL = `
	INSERT INTO products (category_id, name, description, price, image_url)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, category_id, name, description, price, image_url, is_active, created_at, updated_at`

type CreateProductParams struct {
	CategoryID  pgtype.UUID
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	ImageURL    pgtype.Text
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	var p Product
	err := q.db.QueryRow(ctx, createProductSQL,
		arg.CategoryID, arg.Name, arg.Description, arg.Price, arg.ImageURL).
		Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price,
			&p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const updateProductSQL = `
	UPDATE products
	SET category_id = $2, name = $3, description = $4, price = $5, image_url = $6, updated_at = NOW()
	WHERE id = $1 AND is_active = true
	RETURNING id, category_id, name, description, price, image_url, is_active, created_at, updated_at`

type UpdateProductParams struct {
	ID          uuid.UUID
	CategoryID  pgtype.UUID
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	ImageURL    pgtype.Text
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	var p Product
	err := q.db.QueryRow(ctx, updateProductSQL,
		arg.ID, arg.CategoryID, arg.Name, arg.Description, arg.Price, arg.ImageURL).
		Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price,
			&p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const softDeleteProductSQL = `
	UPDATE products
	SET is_active = false, updated_at = NOW()
	WHERE id = $1 AND is_active = true
	RETURNING id`

func (q *Queries) SoftDeleteProduct(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var out uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteProductSQL, id).Scan(&out)
	return out, err
}

// ── Customizations ──

const listCustomizationsByProductSQL = `
	SELECT id, product_id, name, price, is_active, created_at
	FROM customizations
	WHERE product_id = $1 AND is_active = true
	ORDER BY name`

func (q *Queries) ListCustomizationsByProduct(ctx context.Context, productID uuid.UUID) ([]Customization, error) {
	rows, err := q.db.Query(ctx, listCustomizationsByProductSQL, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customizations []Customization
	for rows.Next() {
		var c Customization
		if err := rows.Scan(&c.ID, &c.ProductID, &c.Name, &c.Price, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		customizations = append(customizations, c)
	}
	return customizations, rows.Err()
}

const getCustomizationSQL = `
	SELECT id, product_id, name, price, is_active, created_at
	FROM customizations
	WHERE id = $1 AND is_active = true`

func (q *Queries) GetCustomization(ctx context.Context, id uuid.UUID) (Customization, error) {
	var c Customization
	err := q.db.QueryRow(ctx, getCustomizationSQL, id).
		Scan(&c.ID, &c.ProductID, &c.Name, &c.Price, &c.IsActive, &c.CreatedAt)
	return c, err
}

const createCustomizationSQL = `
	INSERT INTO customizations (product_id, name, price)
	VALUES ($1, $2, $3)
	RETURNING id, product_id, name, price, is_active, created_at`

type CreateCustomizationParams struct {
	ProductID uuid.UUID
	Name      string
	Price     pgtype.Numeric
}

func (q *Queries) CreateCustomization(ctx context.Context, arg CreateCustomizationParams) (Customization, error) {
	var c Customization
	err := q.db.QueryRow(ctx, createCustomizationSQL, arg.ProductID, arg.Name, arg.Price).
		Scan(&c.ID, &c.ProductID, &c.Name, &c.Price, &c.IsActive, &c.CreatedAt)
	return c, err
}

const softDeleteCustomizationSQL = `
	UPDATE customizations
	SET is_active = false
	WHERE id = $1 AND product_id = $2 AND is_active = true
	RETURNING id`

type SoftDeleteCustomizationParams struct {
	ID        uuid.UUID
	ProductID uuid.UUID
}

func (q *Queries) SoftDeleteCustomization(ctx context.Context, arg SoftDeleteCustomizationParams) (uuid.UUID, error) {
	var out uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteCustomizationSQL, arg.ID, arg.ProductID).Scan(&out)
	return out, err
}
