package shopify

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/kurtosis-tech/stacktrace"
)

type benchmark struct {
	good    float64
	great   float64
	warning float64
}

// benchmarks are industry reference values for e-commerce stores, in the
// metric's natural unit (percent, currency, or count).
var benchmarks = map[string]benchmark{
	"conversion_rate":        {good: 2.5, great: 4.0, warning: 1.5},
	"aov":                    {good: 60, great: 100, warning: 30},
	"returning_customer_pct": {good: 25, great: 40, warning: 15},
	"cart_completion_rate":   {good: 45, great: 60, warning: 30},
	"orders_per_day":         {good: 10, great: 50, warning: 3},
	"product_count":          {good: 20, great: 100, warning: 5},
	"active_product_pct":     {good: 80, great: 95, warning: 50},
	"discount_rate":          {good: 10, great: 5, warning: 25},
}

// Analyzer runs store-level analyses over data fetched from the Shopify
// Admin API.
type Analyzer struct {
	client *Client
}

// NewAnalyzer builds an analyzer on top of an API client.
func NewAnalyzer(client *Client) *Analyzer {
	return &Analyzer{client: client}
}

// Recommendation is one prioritized action item tied to a store area.
type Recommendation struct {
	Priority       string `json:"priority"`
	Area           string `json:"area"`
	Action         string `json:"action"`
	ExpectedImpact string `json:"expected_impact"`
}

// MetricAssessment grades a metric value against its benchmark.
type MetricAssessment struct {
	Status         string  `json:"status"`
	Value          float64 `json:"value"`
	BenchmarkGood  float64 `json:"benchmark_good,omitempty"`
	BenchmarkGreat float64 `json:"benchmark_great,omitempty"`
}

// StoreInfo is the store's identity as reported in the health audit.
type StoreInfo struct {
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Plan     string `json:"plan"`
	Currency string `json:"currency"`
	Country  string `json:"country"`
}

// OrderHealth summarizes order volume.
type OrderHealth struct {
	TotalAllTime   int              `json:"total_all_time"`
	OpenOrders     int              `json:"open_orders"`
	Last30Days     int              `json:"last_30_days"`
	PaidLast30Days int              `json:"paid_last_30_days"`
	OrdersPerDay   float64          `json:"orders_per_day"`
	Assessment     MetricAssessment `json:"assessment"`
}

// RevenueHealth summarizes recent revenue and average order value.
type RevenueHealth struct {
	Last30Days    float64          `json:"last_30_days"`
	AOV           float64          `json:"aov"`
	AOVAssessment MetricAssessment `json:"aov_assessment"`
}

// ProductHealth summarizes the catalog and its stock levels.
type ProductHealth struct {
	TotalActive   int              `json:"total_active"`
	TotalVariants int              `json:"total_variants"`
	InStock       int              `json:"in_stock"`
	OutOfStock    int              `json:"out_of_stock"`
	ActivePct     float64          `json:"active_pct"`
	Assessment    MetricAssessment `json:"assessment"`
}

// CustomerHealth summarizes the customer base.
type CustomerHealth struct {
	Total int `json:"total"`
}

// StoreHealth is the result of the store health audit: shop info, order
// volume, product catalog, and customer base.
type StoreHealth struct {
	Store           StoreInfo        `json:"store"`
	Orders          OrderHealth      `json:"orders"`
	Revenue         RevenueHealth    `json:"revenue"`
	Products        ProductHealth    `json:"products"`
	Customers       CustomerHealth   `json:"customers"`
	Recommendations []Recommendation `json:"recommendations"`
}

// AuditStoreHealth audits the store across orders, revenue, catalog, and
// customers, grading the key metrics against benchmarks.
func (a *Analyzer) AuditStoreHealth(ctx context.Context) (*StoreHealth, error) {
	shop, err := a.client.GetShop(ctx)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch shop info")
	}
	orderCount, err := a.client.GetOrderCount(ctx, "any")
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to count orders")
	}
	openOrders, err := a.client.GetOrderCount(ctx, "open")
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to count open orders")
	}
	customerCount, err := a.client.GetCustomerCount(ctx)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to count customers")
	}
	recentOrders, err := a.client.GetOrders(ctx, OrderParams{
		Status:       "any",
		CreatedAtMin: sinceTimestamp(30),
		Limit:        maxPageSize,
	})
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch recent orders")
	}
	products, err := a.client.GetProducts(ctx, "active", maxPageSize)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch products")
	}

	var revenue30d float64
	paidOrders := 0
	for _, order := range recentOrders {
		if isPaid(order) {
			revenue30d += priceValue(order.TotalPrice)
			paidOrders++
		}
	}
	var aov float64
	if paidOrders > 0 {
		aov = revenue30d / float64(paidOrders)
	}

	inStock := 0
	totalVariants := 0
	for _, product := range products {
		totalVariants += len(product.Variants)
		for _, variant := range product.Variants {
			if variant.InventoryQuantity > 0 {
				inStock++
				break
			}
		}
	}
	var activePct float64
	if len(products) > 0 {
		activePct = float64(inStock) / float64(len(products)) * 100
	}

	ordersPerDay := float64(len(recentOrders)) / 30

	audit := &StoreHealth{
		Store: StoreInfo{
			Name:     fallback(shop.Name, "Unknown"),
			Domain:   fallback(shop.Domain, "Unknown"),
			Plan:     fallback(shop.PlanName, "Unknown"),
			Currency: fallback(shop.Currency, "USD"),
			Country:  fallback(shop.CountryName, "Unknown"),
		},
		Orders: OrderHealth{
			TotalAllTime:   orderCount,
			OpenOrders:     openOrders,
			Last30Days:     len(recentOrders),
			PaidLast30Days: paidOrders,
			OrdersPerDay:   round1(ordersPerDay),
			Assessment:     assessMetric("orders_per_day", ordersPerDay),
		},
		Revenue: RevenueHealth{
			Last30Days:    round2(revenue30d),
			AOV:           round2(aov),
			AOVAssessment: assessMetric("aov", aov),
		},
		Products: ProductHealth{
			TotalActive:   len(products),
			TotalVariants: totalVariants,
			InStock:       inStock,
			OutOfStock:    len(products) - inStock,
			ActivePct:     round1(activePct),
			Assessment:    assessMetric("product_count", float64(len(products))),
		},
		Customers: CustomerHealth{Total: customerCount},
	}
	audit.Recommendations = recommendStoreHealth(audit)
	return audit, nil
}

func recommendStoreHealth(audit *StoreHealth) []Recommendation {
	var recs []Recommendation

	if audit.Orders.Assessment.Status == "warning" {
		recs = append(recs, Recommendation{
			Priority:       "HIGH",
			Area:           "Order Volume",
			Action:         "Increase traffic and conversion — order volume is below average",
			ExpectedImpact: "2-3x order volume with paid acquisition + CRO",
		})
	}

	if audit.Revenue.AOVAssessment.Status == "warning" {
		recs = append(recs, Recommendation{
			Priority:       "HIGH",
			Area:           "AOV",
			Action:         "Implement AOV-boosting tactics: bundles, upsells, free shipping threshold",
			ExpectedImpact: "+20-40% AOV increase",
		})
	}

	outOfStock := audit.Products.OutOfStock
	total := audit.Products.TotalActive
	if total > 0 && float64(outOfStock)/float64(total) > 0.2 {
		pct := int(math.Round(float64(outOfStock) / float64(total) * 100))
		recs = append(recs, Recommendation{
			Priority:       "MEDIUM",
			Area:           "Inventory",
			Action:         fmt.Sprintf("%d products out of stock (%d%%) — review inventory planning", outOfStock, pct),
			ExpectedImpact: "Recover lost sales from stockouts",
		})
	}

	return recs
}

// FunnelSummary counts orders by outcome.
type FunnelSummary struct {
	TotalOrders      int     `json:"total_orders"`
	PaidOrders       int     `json:"paid_orders"`
	CancelledOrders  int     `json:"cancelled_orders"`
	RefundedOrders   int     `json:"refunded_orders"`
	CancellationRate float64 `json:"cancellation_rate"`
}

// FunnelRevenue summarizes revenue over the funnel period.
type FunnelRevenue struct {
	Total          float64          `json:"total"`
	AOV            float64          `json:"aov"`
	AOVAssessment  MetricAssessment `json:"aov_assessment"`
	TotalDiscounts float64          `json:"total_discounts"`
	DiscountRate   float64          `json:"discount_rate"`
}

// FunnelCustomers splits buyers into new and returning.
type FunnelCustomers struct {
	UniqueBuyers    int     `json:"unique_buyers"`
	ReturningBuyers int     `json:"returning_buyers"`
	ReturningPct    float64 `json:"returning_pct"`
}

// FunnelDailyTrend summarizes daily order volume over the period.
type FunnelDailyTrend struct {
	AvgOrdersPerDay  float64 `json:"avg_orders_per_day"`
	AvgRevenuePerDay float64 `json:"avg_revenue_per_day"`
	PeakDay          string  `json:"peak_day"`
	PeakOrders       int     `json:"peak_orders"`
}

// ConversionFunnel is the order-level funnel analysis. The full funnel
// (sessions through add-to-cart) needs Shopify Analytics access; this works
// from order data alone.
type ConversionFunnel struct {
	Period          string           `json:"period"`
	Summary         FunnelSummary    `json:"summary"`
	Revenue         FunnelRevenue    `json:"revenue"`
	Customers       FunnelCustomers  `json:"customers"`
	DailyTrend      FunnelDailyTrend `json:"daily_trend"`
	Recommendations []Recommendation `json:"recommendations"`
}

// AnalyzeFunnel analyzes order outcomes, AOV, and buyer mix over the last
// days days.
func (a *Analyzer) AnalyzeFunnel(ctx context.Context, days int) (*ConversionFunnel, error) {
	orders, err := a.client.GetOrders(ctx, OrderParams{
		Status:       "any",
		CreatedAtMin: sinceTimestamp(days),
		Limit:        maxPageSize,
	})
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch orders")
	}

	var paid []Order
	cancelled := 0
	refunded := 0
	for _, order := range orders {
		if isPaid(order) {
			paid = append(paid, order)
		}
		if order.CancelledAt != "" {
			cancelled++
		}
		if order.FinancialStatus == "refunded" {
			refunded++
		}
	}

	var revenue, discounts float64
	for _, order := range paid {
		revenue += priceValue(order.TotalPrice)
		discounts += priceValue(order.TotalDiscounts)
	}
	var aov float64
	if len(paid) > 0 {
		aov = revenue / float64(len(paid))
	}

	emailCount := 0
	uniqueBuyers := map[string]bool{}
	for _, order := range paid {
		if order.Email == "" {
			continue
		}
		emailCount++
		uniqueBuyers[order.Email] = true
	}
	returning := emailCount - len(uniqueBuyers)

	// Track first-seen day order so ties for the peak break the same way
	// between runs.
	dailyOrders := map[string]int{}
	var dayOrder []string
	for _, order := range paid {
		day := dateKey(order.CreatedAt)
		if _, ok := dailyOrders[day]; !ok {
			dayOrder = append(dayOrder, day)
		}
		dailyOrders[day]++
	}
	peakDay := "N/A"
	peakOrders := 0
	for _, day := range dayOrder {
		if dailyOrders[day] > peakOrders {
			peakDay = day
			peakOrders = dailyOrders[day]
		}
	}

	windowDays := days
	if windowDays < 1 {
		windowDays = 1
	}
	var cancellationRate float64
	if len(orders) > 0 {
		cancellationRate = float64(cancelled) / float64(len(orders)) * 100
	}
	var discountRate float64
	if revenue > 0 {
		discountRate = discounts / revenue * 100
	}
	var returningPct float64
	if emailCount > 0 {
		returningPct = float64(returning) / float64(emailCount) * 100
	}

	funnel := &ConversionFunnel{
		Period: fmt.Sprintf("Last %d days", days),
		Summary: FunnelSummary{
			TotalOrders:      len(orders),
			PaidOrders:       len(paid),
			CancelledOrders:  cancelled,
			RefundedOrders:   refunded,
			CancellationRate: round2(cancellationRate),
		},
		Revenue: FunnelRevenue{
			Total:          round2(revenue),
			AOV:            round2(aov),
			AOVAssessment:  assessMetric("aov", aov),
			TotalDiscounts: round2(discounts),
			DiscountRate:   round2(discountRate),
		},
		Customers: FunnelCustomers{
			UniqueBuyers:    len(uniqueBuyers),
			ReturningBuyers: returning,
			ReturningPct:    round2(returningPct),
		},
		DailyTrend: FunnelDailyTrend{
			AvgOrdersPerDay:  round1(float64(len(paid)) / float64(windowDays)),
			AvgRevenuePerDay: round2(revenue / float64(windowDays)),
			PeakDay:          peakDay,
			PeakOrders:       peakOrders,
		},
	}
	funnel.Recommendations = recommendConversion(funnel)
	return funnel, nil
}

func recommendConversion(funnel *ConversionFunnel) []Recommendation {
	var recs []Recommendation

	cancelRate := funnel.Summary.CancellationRate
	if cancelRate > 5 {
		recs = append(recs, Recommendation{
			Priority:       "HIGH",
			Area:           "Cancellations",
			Action:         fmt.Sprintf("Cancellation rate is %s%% — investigate causes and reduce friction", trimFloat(cancelRate)),
			ExpectedImpact: "Recover 30-50% of cancelled orders",
		})
	}

	discountRate := funnel.Revenue.DiscountRate
	if discountRate > 25 {
		recs = append(recs, Recommendation{
			Priority:       "MEDIUM",
			Area:           "Discount Strategy",
			Action:         fmt.Sprintf("Discount rate at %s%% — risk of margin erosion. Shift to value-add offers", trimFloat(discountRate)),
			ExpectedImpact: "+5-10% margin improvement",
		})
	}

	if funnel.Customers.ReturningPct < 15 {
		recs = append(recs, Recommendation{
			Priority:       "HIGH",
			Area:           "Retention",
			Action:         "Low repeat purchase rate — implement post-purchase flows and loyalty program",
			ExpectedImpact: "+25-40% customer retention",
		})
	}

	return recs
}

// ProductSales is one product's sales over the analysis period.
type ProductSales struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	UnitsSold int     `json:"units_sold"`
	Revenue   float64 `json:"revenue"`
	Orders    int     `json:"orders"`
}

// SlowMover is an active product with zero sales in the period.
type SlowMover struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Variants  int    `json:"variants"`
	CreatedAt string `json:"created_at"`
}

// SlowMoverReport lists the slowest movers.
type SlowMoverReport struct {
	Count    int         `json:"count"`
	Products []SlowMover `json:"products"`
}

// LowStockItem is a variant at critically low stock.
type LowStockItem struct {
	Product  string `json:"product"`
	Variant  string `json:"variant"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// InventoryAlerts lists variants that need reordering.
type InventoryAlerts struct {
	LowStockCount int            `json:"low_stock_count"`
	Items         []LowStockItem `json:"items"`
}

// PerformanceSummary relates products sold to the active catalog.
type PerformanceSummary struct {
	TotalProductsSold   int     `json:"total_products_sold"`
	TotalActiveProducts int     `json:"total_active_products"`
	CatalogSellThrough  float64 `json:"catalog_sell_through"`
}

// ProductPerformance is the product-level sales analysis: top sellers, slow
// movers, and inventory alerts.
type ProductPerformance struct {
	Period          string             `json:"period"`
	TopSellers      []ProductSales     `json:"top_sellers"`
	SlowMovers      SlowMoverReport    `json:"slow_movers"`
	InventoryAlerts InventoryAlerts    `json:"inventory_alerts"`
	Summary         PerformanceSummary `json:"summary"`
	Recommendations []Recommendation   `json:"recommendations"`
}

// AnalyzeProducts aggregates paid order line items per product and compares
// the result against the active catalog.
func (a *Analyzer) AnalyzeProducts(ctx context.Context, days int) (*ProductPerformance, error) {
	orders, err := a.client.GetOrders(ctx, OrderParams{
		Status:          "any",
		CreatedAtMin:    sinceTimestamp(days),
		FinancialStatus: "paid",
		Limit:           maxPageSize,
	})
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch orders")
	}
	products, err := a.client.GetProducts(ctx, "active", maxPageSize)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch products")
	}

	type productTally struct {
		key     string
		title   string
		units   int
		revenue float64
		orders  int
	}

	// First-seen key order keeps the revenue sort stable between runs.
	tallies := map[string]*productTally{}
	var keyOrder []string
	for _, order := range orders {
		countedInOrder := map[string]bool{}
		for _, item := range order.LineItems {
			key := productKey(item.ProductID)
			tally, ok := tallies[key]
			if !ok {
				tally = &productTally{key: key}
				tallies[key] = tally
				keyOrder = append(keyOrder, key)
			}
			tally.units += item.Quantity
			tally.revenue += priceValue(item.Price) * float64(item.Quantity)
			tally.title = item.Title
			if !countedInOrder[key] {
				tally.orders++
				countedInOrder[key] = true
			}
		}
	}

	ranked := make([]*productTally, 0, len(keyOrder))
	for _, key := range keyOrder {
		ranked = append(ranked, tallies[key])
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].revenue > ranked[j].revenue })

	topSellers := make([]ProductSales, 0, 10)
	for _, tally := range ranked {
		if len(topSellers) == 10 {
			break
		}
		topSellers = append(topSellers, ProductSales{
			ProductID: tally.key,
			Title:     fallback(tally.title, "Unknown"),
			UnitsSold: tally.units,
			Revenue:   round2(tally.revenue),
			Orders:    tally.orders,
		})
	}

	var slowMovers []SlowMover
	for _, product := range products {
		if _, sold := tallies[strconv.FormatInt(product.ID, 10)]; sold {
			continue
		}
		if len(slowMovers) == 20 {
			break
		}
		slowMovers = append(slowMovers, SlowMover{
			ProductID: strconv.FormatInt(product.ID, 10),
			Title:     fallback(product.Title, "Unknown"),
			Variants:  len(product.Variants),
			CreatedAt: dateKey(product.CreatedAt),
		})
	}

	var lowStock []LowStockItem
	for _, product := range products {
		for _, variant := range product.Variants {
			qty := variant.InventoryQuantity
			if qty > 0 && qty <= 5 {
				lowStock = append(lowStock, LowStockItem{
					Product:  fallback(product.Title, "Unknown"),
					Variant:  fallback(variant.Title, "Default"),
					SKU:      fallback(variant.SKU, "N/A"),
					Quantity: qty,
				})
			}
		}
	}

	var sellThrough float64
	if len(products) > 0 {
		sellThrough = float64(len(tallies)) / float64(len(products)) * 100
	}

	analysis := &ProductPerformance{
		Period:     fmt.Sprintf("Last %d days", days),
		TopSellers: topSellers,
		SlowMovers: SlowMoverReport{
			Count:    len(slowMovers),
			Products: capSlowMovers(slowMovers, 10),
		},
		InventoryAlerts: InventoryAlerts{
			LowStockCount: len(lowStock),
			Items:         capLowStock(lowStock, 10),
		},
		Summary: PerformanceSummary{
			TotalProductsSold:   len(tallies),
			TotalActiveProducts: len(products),
			CatalogSellThrough:  round2(sellThrough),
		},
	}
	analysis.Recommendations = recommendProducts(analysis)
	return analysis, nil
}

func capSlowMovers(movers []SlowMover, limit int) []SlowMover {
	if len(movers) > limit {
		return movers[:limit]
	}
	return movers
}

func capLowStock(items []LowStockItem, limit int) []LowStockItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func recommendProducts(analysis *ProductPerformance) []Recommendation {
	var recs []Recommendation

	sellThrough := analysis.Summary.CatalogSellThrough
	if sellThrough < 50 {
		recs = append(recs, Recommendation{
			Priority:       "HIGH",
			Area:           "Catalog Efficiency",
			Action:         fmt.Sprintf("Only %s%% of catalog had sales — prune or promote underperformers", trimFloat(sellThrough)),
			ExpectedImpact: "Improved catalog focus and inventory turns",
		})
	}

	if analysis.SlowMovers.Count > 10 {
		recs = append(recs, Recommendation{
			Priority:       "MEDIUM",
			Area:           "Slow Movers",
			Action:         fmt.Sprintf("%d products with zero sales — consider clearance, bundles, or removal", analysis.SlowMovers.Count),
			ExpectedImpact: "Free up working capital and reduce catalog clutter",
		})
	}

	if analysis.InventoryAlerts.LowStockCount > 5 {
		recs = append(recs, Recommendation{
			Priority:       "HIGH",
			Area:           "Inventory",
			Action:         fmt.Sprintf("%d items at critically low stock — reorder to avoid stockouts", analysis.InventoryAlerts.LowStockCount),
			ExpectedImpact: "Prevent lost sales from popular items going OOS",
		})
	}

	return recs
}

// CohortSummary splits the customer base into one-time and repeat buyers.
type CohortSummary struct {
	TotalUniqueCustomers int              `json:"total_unique_customers"`
	OneTimeBuyers        int              `json:"one_time_buyers"`
	RepeatBuyers         int              `json:"repeat_buyers"`
	RepeatRate           float64          `json:"repeat_rate"`
	RepeatAssessment     MetricAssessment `json:"repeat_assessment"`
}

// PurchaseFrequency breaks down how often customers buy.
type PurchaseFrequency struct {
	AverageOrdersPerCustomer float64 `json:"average_orders_per_customer"`
	SinglePurchase           int     `json:"single_purchase"`
	TwoPurchases             int     `json:"two_purchases"`
	ThreePlus                int     `json:"three_plus"`
}

// LifetimeValue compares spend across the cohorts.
type LifetimeValue struct {
	AverageLTV      float64 `json:"average_ltv"`
	OneTimeAvgSpend float64 `json:"one_time_avg_spend"`
	RepeatAvgSpend  float64 `json:"repeat_avg_spend"`
}

// TopCustomer is one of the highest-spending repeat buyers. Emails are
// deliberately left out of the report.
type TopCustomer struct {
	Orders     int     `json:"orders"`
	TotalSpent float64 `json:"total_spent"`
	AvgOrder   float64 `json:"avg_order"`
}

// CustomerCohorts is the customer cohort analysis: one-time vs repeat
// buyers, purchase frequency, and lifetime value.
type CustomerCohorts struct {
	Period            string            `json:"period"`
	Summary           CohortSummary     `json:"summary"`
	PurchaseFrequency PurchaseFrequency `json:"purchase_frequency"`
	LifetimeValue     LifetimeValue     `json:"lifetime_value"`
	TopCustomers      []TopCustomer     `json:"top_customers"`
	Recommendations   []Recommendation  `json:"recommendations"`
}

// AnalyzeCohorts groups paid orders by customer email and reports repeat
// rates, purchase frequency, and lifetime value over the last days days.
func (a *Analyzer) AnalyzeCohorts(ctx context.Context, days int) (*CustomerCohorts, error) {
	orders, err := a.client.GetOrders(ctx, OrderParams{
		Status:          "any",
		CreatedAtMin:    sinceTimestamp(days),
		FinancialStatus: "paid",
		Limit:           maxPageSize,
	})
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch orders")
	}

	type customerTally struct {
		orders int
		spent  float64
	}

	customers := map[string]*customerTally{}
	var emailOrder []string
	for _, order := range orders {
		if order.Email == "" {
			continue
		}
		tally, ok := customers[order.Email]
		if !ok {
			tally = &customerTally{}
			customers[order.Email] = tally
			emailOrder = append(emailOrder, order.Email)
		}
		tally.orders++
		tally.spent += priceValue(order.TotalPrice)
	}

	var oneTime, repeat []*customerTally
	var totalSpend, oneTimeSpend, repeatSpend float64
	totalOrders := 0
	for _, email := range emailOrder {
		tally := customers[email]
		totalSpend += tally.spent
		totalOrders += tally.orders
		if tally.orders == 1 {
			oneTime = append(oneTime, tally)
			oneTimeSpend += tally.spent
		} else {
			repeat = append(repeat, tally)
			repeatSpend += tally.spent
		}
	}
	sort.SliceStable(repeat, func(i, j int) bool { return repeat[i].spent > repeat[j].spent })

	totalCustomers := len(customers)
	var repeatPct, avgLTV, avgFrequency float64
	if totalCustomers > 0 {
		repeatPct = float64(len(repeat)) / float64(totalCustomers) * 100
		avgLTV = totalSpend / float64(totalCustomers)
		avgFrequency = float64(totalOrders) / float64(totalCustomers)
	}
	var oneTimeAvg float64
	if len(oneTime) > 0 {
		oneTimeAvg = oneTimeSpend / float64(len(oneTime))
	}
	var repeatAvg float64
	if len(repeat) > 0 {
		repeatAvg = repeatSpend / float64(len(repeat))
	}

	twoPurchases := 0
	threePlus := 0
	for _, tally := range repeat {
		if tally.orders == 2 {
			twoPurchases++
		}
		if tally.orders >= 3 {
			threePlus++
		}
	}

	topCustomers := make([]TopCustomer, 0, 10)
	for _, tally := range repeat {
		if len(topCustomers) == 10 {
			break
		}
		topCustomers = append(topCustomers, TopCustomer{
			Orders:     tally.orders,
			TotalSpent: round2(tally.spent),
			AvgOrder:   round2(tally.spent / float64(tally.orders)),
		})
	}

	cohorts := &CustomerCohorts{
		Period: fmt.Sprintf("Last %d days", days),
		Summary: CohortSummary{
			TotalUniqueCustomers: totalCustomers,
			OneTimeBuyers:        len(oneTime),
			RepeatBuyers:         len(repeat),
			RepeatRate:           round2(repeatPct),
			RepeatAssessment:     assessMetric("returning_customer_pct", repeatPct),
		},
		PurchaseFrequency: PurchaseFrequency{
			AverageOrdersPerCustomer: round2(avgFrequency),
			SinglePurchase:           len(oneTime),
			TwoPurchases:             twoPurchases,
			ThreePlus:                threePlus,
		},
		LifetimeValue: LifetimeValue{
			AverageLTV:      round2(avgLTV),
			OneTimeAvgSpend: round2(oneTimeAvg),
			RepeatAvgSpend:  round2(repeatAvg),
		},
		TopCustomers: topCustomers,
	}
	cohorts.Recommendations = recommendCohorts(cohorts)
	return cohorts, nil
}

func recommendCohorts(cohorts *CustomerCohorts) []Recommendation {
	var recs []Recommendation

	repeatRate := cohorts.Summary.RepeatRate
	if repeatRate < 20 {
		recs = append(recs, Recommendation{
			Priority:       "HIGH",
			Area:           "Repeat Purchase Rate",
			Action:         "Implement win-back flows, loyalty rewards, and subscription options",
			ExpectedImpact: "+10-20pp repeat purchase rate",
		})
	} else if repeatRate >= 40 {
		recs = append(recs, Recommendation{
			Priority:       "INFO",
			Area:           "Repeat Purchase Rate",
			Action:         fmt.Sprintf("Strong repeat rate at %s%% — focus on scaling acquisition", trimFloat(repeatRate)),
			ExpectedImpact: "Leverage loyal base for referrals and reviews",
		})
	}

	ltv := cohorts.LifetimeValue.AverageLTV
	oneTimeAvg := cohorts.LifetimeValue.OneTimeAvgSpend
	if oneTimeAvg != 0 && ltv < oneTimeAvg*1.5 {
		recs = append(recs, Recommendation{
			Priority:       "MEDIUM",
			Area:           "LTV Growth",
			Action:         "LTV barely above first purchase — improve second-purchase rate with post-purchase flows",
			ExpectedImpact: "+30-50% LTV increase",
		})
	}

	return recs
}

// RevenueTotals summarizes revenue over the period.
type RevenueTotals struct {
	Revenue      float64 `json:"revenue"`
	Orders       int     `json:"orders"`
	AOV          float64 `json:"aov"`
	Discounts    float64 `json:"discounts"`
	DiscountRate float64 `json:"discount_rate"`
}

// DailyRevenue is one day's revenue and order volume.
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
	AOV     float64 `json:"aov"`
}

// DayOfWeekRevenue aggregates revenue per weekday, best day first.
type DayOfWeekRevenue struct {
	Day        string  `json:"day"`
	Revenue    float64 `json:"revenue"`
	Orders     int     `json:"orders"`
	AvgRevenue float64 `json:"avg_revenue"`
}

// DiscountImpact grades how much revenue is being given away in discounts.
type DiscountImpact struct {
	TotalDiscounts float64          `json:"total_discounts"`
	DiscountRate   float64          `json:"discount_rate"`
	Assessment     MetricAssessment `json:"assessment"`
}

// RevenueAnalysis is the revenue trend analysis: daily pattern, day-of-week
// pattern, and discount impact.
type RevenueAnalysis struct {
	Period          string             `json:"period"`
	Totals          RevenueTotals      `json:"totals"`
	DailyTrend      []DailyRevenue     `json:"daily_trend"`
	DayOfWeek       []DayOfWeekRevenue `json:"day_of_week"`
	DiscountImpact  DiscountImpact     `json:"discount_impact"`
	Recommendations []Recommendation   `json:"recommendations"`
}

// AnalyzeRevenue breaks paid-order revenue down by day and by weekday over
// the last days days.
func (a *Analyzer) AnalyzeRevenue(ctx context.Context, days int) (*RevenueAnalysis, error) {
	orders, err := a.client.GetOrders(ctx, OrderParams{
		Status:          "any",
		CreatedAtMin:    sinceTimestamp(days),
		FinancialStatus: "paid",
		Limit:           maxPageSize,
	})
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch orders")
	}

	type dayTally struct {
		revenue   float64
		orders    int
		discounts float64
	}
	type weekdayTally struct {
		day     string
		revenue float64
		orders  int
	}

	daily := map[string]*dayTally{}
	weekdays := map[string]*weekdayTally{}
	var weekdayOrder []string

	for _, order := range orders {
		created := order.CreatedAt
		if created == "" {
			continue
		}

		day := dateKey(created)
		tally, ok := daily[day]
		if !ok {
			tally = &dayTally{}
			daily[day] = tally
		}
		tally.revenue += priceValue(order.TotalPrice)
		tally.orders++
		tally.discounts += priceValue(order.TotalDiscounts)

		// Orders with unparseable timestamps still count toward the daily
		// totals, just not the weekday pattern.
		parsed, err := time.Parse(time.RFC3339, created)
		if err != nil {
			continue
		}
		name := parsed.Weekday().String()
		weekday, ok := weekdays[name]
		if !ok {
			weekday = &weekdayTally{day: name}
			weekdays[name] = weekday
			weekdayOrder = append(weekdayOrder, name)
		}
		weekday.revenue += priceValue(order.TotalPrice)
		weekday.orders++
	}

	var totalRevenue, totalDiscounts float64
	totalOrders := 0
	for _, tally := range daily {
		totalRevenue += tally.revenue
		totalDiscounts += tally.discounts
		totalOrders += tally.orders
	}
	var aov float64
	if totalOrders > 0 {
		aov = totalRevenue / float64(totalOrders)
	}
	var discountRate float64
	if totalRevenue > 0 {
		discountRate = totalDiscounts / totalRevenue * 100
	}

	dates := make([]string, 0, len(daily))
	for day := range daily {
		dates = append(dates, day)
	}
	sort.Strings(dates)
	if len(dates) > 14 {
		dates = dates[len(dates)-14:]
	}
	trend := make([]DailyRevenue, 0, len(dates))
	for _, day := range dates {
		tally := daily[day]
		var dayAOV float64
		if tally.orders > 0 {
			dayAOV = tally.revenue / float64(tally.orders)
		}
		trend = append(trend, DailyRevenue{
			Date:    day,
			Revenue: round2(tally.revenue),
			Orders:  tally.orders,
			AOV:     round2(dayAOV),
		})
	}

	ranked := make([]*weekdayTally, 0, len(weekdayOrder))
	for _, name := range weekdayOrder {
		ranked = append(ranked, weekdays[name])
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].revenue > ranked[j].revenue })

	weeks := days / 7
	if weeks < 1 {
		weeks = 1
	}
	dayOfWeek := make([]DayOfWeekRevenue, 0, len(ranked))
	for _, weekday := range ranked {
		dayOfWeek = append(dayOfWeek, DayOfWeekRevenue{
			Day:        weekday.day,
			Revenue:    round2(weekday.revenue),
			Orders:     weekday.orders,
			AvgRevenue: round2(weekday.revenue / float64(weeks)),
		})
	}

	analysis := &RevenueAnalysis{
		Period: fmt.Sprintf("Last %d days", days),
		Totals: RevenueTotals{
			Revenue:      round2(totalRevenue),
			Orders:       totalOrders,
			AOV:          round2(aov),
			Discounts:    round2(totalDiscounts),
			DiscountRate: round2(discountRate),
		},
		DailyTrend: trend,
		DayOfWeek:  dayOfWeek,
		DiscountImpact: DiscountImpact{
			TotalDiscounts: round2(totalDiscounts),
			DiscountRate:   round2(discountRate),
			Assessment:     assessMetric("discount_rate", discountRate),
		},
	}
	analysis.Recommendations = recommendRevenue(analysis)
	return analysis, nil
}

func recommendRevenue(analysis *RevenueAnalysis) []Recommendation {
	var recs []Recommendation

	if analysis.DiscountImpact.Assessment.Status == "warning" {
		recs = append(recs, Recommendation{
			Priority:       "HIGH",
			Area:           "Discount Dependency",
			Action:         "High discount rate eroding margins — transition to value-add offers",
			ExpectedImpact: "+5-15% margin improvement",
		})
	}

	if len(analysis.DayOfWeek) > 0 {
		recs = append(recs, Recommendation{
			Priority:       "LOW",
			Area:           "Timing Optimization",
			Action:         fmt.Sprintf("Best sales day is %s — align campaigns and promotions accordingly", analysis.DayOfWeek[0].Day),
			ExpectedImpact: "+5-10% campaign performance",
		})
	}

	return recs
}

// FullAudit combines every analysis into one report.
type FullAudit struct {
	AuditDate          string              `json:"audit_date"`
	StoreHealth        *StoreHealth        `json:"store_health"`
	ConversionFunnel   *ConversionFunnel   `json:"conversion_funnel"`
	ProductPerformance *ProductPerformance `json:"product_performance"`
	CustomerCohorts    *CustomerCohorts    `json:"customer_cohorts"`
	RevenueAnalysis    *RevenueAnalysis    `json:"revenue_analysis"`
}

// FullAudit runs every analysis and combines the results.
func (a *Analyzer) FullAudit(ctx context.Context) (*FullAudit, error) {
	storeHealth, err := a.AuditStoreHealth(ctx)
	if err != nil {
		return nil, err
	}
	funnel, err := a.AnalyzeFunnel(ctx, 30)
	if err != nil {
		return nil, err
	}
	products, err := a.AnalyzeProducts(ctx, 30)
	if err != nil {
		return nil, err
	}
	cohorts, err := a.AnalyzeCohorts(ctx, 90)
	if err != nil {
		return nil, err
	}
	revenue, err := a.AnalyzeRevenue(ctx, 30)
	if err != nil {
		return nil, err
	}
	return &FullAudit{
		AuditDate:          time.Now().UTC().Format("2006-01-02 15:04 UTC"),
		StoreHealth:        storeHealth,
		ConversionFunnel:   funnel,
		ProductPerformance: products,
		CustomerCohorts:    cohorts,
		RevenueAnalysis:    revenue,
	}, nil
}

// assessMetric compares a metric value, in its natural unit, against its
// benchmark. Discounts are the one metric where lower is better.
func assessMetric(name string, value float64) MetricAssessment {
	bench, ok := benchmarks[name]
	if !ok {
		return MetricAssessment{Status: "no_benchmark", Value: round2(value)}
	}

	var status string
	if name == "discount_rate" {
		switch {
		case value <= bench.great:
			status = "great"
		case value <= bench.good:
			status = "good"
		case value >= bench.warning:
			status = "warning"
		default:
			status = "ok"
		}
	} else {
		switch {
		case value >= bench.great:
			status = "great"
		case value >= bench.good:
			status = "good"
		case value <= bench.warning:
			status = "warning"
		default:
			status = "ok"
		}
	}

	return MetricAssessment{
		Status:         status,
		Value:          round2(value),
		BenchmarkGood:  bench.good,
		BenchmarkGreat: bench.great,
	}
}

func isPaid(order Order) bool {
	return order.FinancialStatus == "paid" || order.FinancialStatus == "partially_paid"
}

// productKey keys sales tallies by product ID; line items without one (e.g.
// custom sale items) share the "unknown" bucket.
func productKey(productID int64) string {
	if productID == 0 {
		return "unknown"
	}
	return strconv.FormatInt(productID, 10)
}

// sinceTimestamp returns the ISO 8601 timestamp for the given number of
// days ago, used for created_at_min filters.
func sinceTimestamp(days int) string {
	return time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
}

// dateKey trims an ISO 8601 timestamp to its date part.
func dateKey(timestamp string) string {
	if len(timestamp) > 10 {
		return timestamp[:10]
	}
	return timestamp
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

// trimFloat renders an already-rounded metric without trailing zeros
// ("7.5", "20").
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
