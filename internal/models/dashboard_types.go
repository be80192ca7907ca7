package models

// DashboardStats holds KPI data for the admin dashboard.
type DashboardStats struct {
	TotalProducts      int       `json:"totalProducts"`
	InStockProducts    int       `json:"inStockProducts"`
	OutOfStockProducts int       `json:"outOfStockProducts"`
	Categories         int       `json:"categories"`
	RecentProducts     []Product `json:"recentProducts"`
}
