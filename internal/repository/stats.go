package repository

import (
	"context"
	"fmt"

	"github.com/01moynul/innowood/internal/models"
)

// recentProductsLimit is the number of newest products shown on the dashboard.
const recentProductsLimit = 5

// DashboardStats returns KPI data for the admin dashboard.
func (r *Repository) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	stats := models.DashboardStats{}

	// 1. Products and stock
	query := "SELECT COUNT(*), COALESCE(SUM(CASE WHEN in_stock THEN 1 ELSE 0 END), 0) FROM products"
	if err := r.db.QueryRowContext(ctx, r.q(query)).Scan(&stats.TotalProducts, &stats.InStockProducts); err != nil {
		return models.DashboardStats{}, fmt.Errorf("count products: %w", err)
	}
	stats.OutOfStockProducts = stats.TotalProducts - stats.InStockProducts

	// 2. Categories
	if err := r.db.QueryRowContext(ctx, r.q("SELECT COUNT(*) FROM categories")).Scan(&stats.Categories); err != nil {
		return models.DashboardStats{}, fmt.Errorf("count categories: %w", err)
	}

	// 3. Newest products
	page := r.ListFilteredProducts(ctx, models.ProductFilter{Page: 1, Limit: recentProductsLimit})
	stats.RecentProducts = page.Products

	return stats, nil
}
