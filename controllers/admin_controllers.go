package controllers

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dimsumluna/ordering-backend/models"
	"github.com/dimsumluna/ordering-backend/services"
	"github.com/dimsumluna/ordering-backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats -> order counts by status plus today's revenue
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	type stats struct {
		TotalOrders      int64   `json:"total_orders"`
		ProcessingOrders int64   `json:"processing_orders"`
		PreparingOrders  int64   `json:"preparing_orders"`
		ShippingOrders   int64   `json:"shipping_orders"`
		DeliveredOrders  int64   `json:"delivered_orders"`
		CancelledOrders  int64   `json:"cancelled_orders"`
		TodayRevenue     float64 `json:"today_revenue"`
	}

	var s stats
	ac.DB.Model(&models.Order{}).Count(&s.TotalOrders)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.StatusProcessing).Count(&s.ProcessingOrders)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.StatusPreparing).Count(&s.PreparingOrders)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.StatusShipping).Count(&s.ShippingOrders)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.StatusDelivered).Count(&s.DeliveredOrders)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.StatusCancelled).Count(&s.CancelledOrders)

	today := time.Now().Truncate(24 * time.Hour)
	ac.DB.Model(&models.Order{}).
		Where("status <> ? AND created_at >= ?", models.StatusCancelled, today).
		Select("COALESCE(SUM(total), 0)").
		Scan(&s.TodayRevenue)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", s)
}

type productStat struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// GetAnalytics aggregates KPIs over all non-cancelled orders:
// revenue, product rankings, sales by city, orders per hour, payment
// mix and per-category revenue.
func (ac *AdminController) GetAnalytics(c *gin.Context) {
	var orders []models.Order
	if err := ac.DB.Preload("Items").
		Where("status <> ?", models.StatusCancelled).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	totalRevenue := 0.0
	productCounts := make(map[string]*productStat)
	salesByCity := make(map[string]float64)
	hourCounts := make([]int, 24)
	paymentCounts := make(map[string]int)
	categoryTotals := make(map[string]float64)

	for i := range orders {
		order := &orders[i]

		totalRevenue += order.Total
		hourCounts[order.CreatedAt.Hour()]++

		label := services.ResolvePaymentLabel(&services.PaymentFields{
			MethodName: order.PaymentMethodName,
			MethodID:   order.PaymentMethodID,
		})
		paymentCounts[label]++

		city := cityFromSnapshot(order.AddressSnapshot)
		salesByCity[city] += order.Total

		for _, item := range order.Items {
			stat, ok := productCounts[item.Name]
			if !ok {
				stat = &productStat{Name: item.Name}
				productCounts[item.Name] = stat
			}
			stat.Quantity += item.Quantity
			stat.Revenue += item.Price * float64(item.Quantity)

			categoryTotals[canonicalCategory(item.Category)] += item.Price * float64(item.Quantity)
		}
	}

	totalOrders := len(orders)
	avgOrderValue := 0.0
	if totalOrders > 0 {
		avgOrderValue = utils.Round2(totalRevenue / float64(totalOrders))
	}

	products := make([]productStat, 0, len(productCounts))
	for _, stat := range productCounts {
		stat.Revenue = utils.Round2(stat.Revenue)
		products = append(products, *stat)
	}
	sortProductsByQuantity(products)

	bestSelling := products
	if len(bestSelling) > 5 {
		bestSelling = bestSelling[:5]
	}

	leastSelling := make([]productStat, len(products))
	copy(leastSelling, products)
	reverseProducts(leastSelling)
	if len(leastSelling) > 5 {
		leastSelling = leastSelling[:5]
	}

	for city, revenue := range salesByCity {
		salesByCity[city] = utils.Round2(revenue)
	}
	for category, revenue := range categoryTotals {
		categoryTotals[category] = utils.Round2(revenue)
	}

	utils.RespondJSON(c, http.StatusOK, "Analytics", gin.H{
		"total_orders":    totalOrders,
		"total_revenue":   utils.Round2(totalRevenue),
		"avg_order_value": avgOrderValue,
		"best_selling":    bestSelling,
		"least_selling":   leastSelling,
		"sales_by_city":   salesByCity,
		"orders_by_hour":  hourCounts,
		"payment_mix":     paymentCounts,
		"category_totals": categoryTotals,
	})
}

// GetSalesReport -> daily revenue over the requested number of days
func (ac *AdminController) GetSalesReport(c *gin.Context) {
	days := 7
	if c.Query("days") == "30" {
		days = 30
	}

	type dailySales struct {
		Date    string  `json:"date"`
		Orders  int     `json:"orders"`
		Revenue float64 `json:"revenue"`
	}

	since := time.Now().AddDate(0, 0, -days)

	var orders []models.Order
	if err := ac.DB.
		Where("status <> ? AND created_at >= ?", models.StatusCancelled, since).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	byDay := make(map[string]*dailySales)
	for _, order := range orders {
		day := order.CreatedAt.Format("2006-01-02")
		entry, ok := byDay[day]
		if !ok {
			entry = &dailySales{Date: day}
			byDay[day] = entry
		}
		entry.Orders++
		entry.Revenue = utils.Round2(entry.Revenue + order.Total)
	}

	report := make([]dailySales, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := time.Now().AddDate(0, 0, -i).Format("2006-01-02")
		if entry, ok := byDay[day]; ok {
			report = append(report, *entry)
		} else {
			report = append(report, dailySales{Date: day})
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Sales report", report)
}

// cityFromSnapshot reads the city out of a stored address snapshot,
// degrading to "Unknown" on malformed data.
func cityFromSnapshot(snapshot string) string {
	if snapshot == "" {
		return "Unknown"
	}

	var address struct {
		City string `json:"city"`
	}
	if err := json.Unmarshal([]byte(snapshot), &address); err != nil || address.City == "" {
		return "Unknown"
	}
	return address.City
}

// canonicalCategory maps a free-form category to the canonical set by
// loose substring matching, "Uncategorized" otherwise.
func canonicalCategory(category string) string {
	norm := alnumLower(category)
	if norm == "" {
		return "Uncategorized"
	}

	for _, canonical := range models.CanonicalCategories {
		cn := alnumLower(canonical)
		if strings.Contains(norm, cn) || strings.Contains(cn, norm) {
			return canonical
		}
	}
	return "Uncategorized"
}

func alnumLower(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func sortProductsByQuantity(products []productStat) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Quantity > products[j].Quantity
	})
}

func reverseProducts(products []productStat) {
	for i, j := 0, len(products)-1; i < j; i, j = i+1, j-1 {
		products[i], products[j] = products[j], products[i]
	}
}
