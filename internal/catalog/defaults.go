package catalog

// Built-in definitions. Operators extend or replace these through the
// CATALOG_FILE overlay without rebuilding the binary.

func defaultQueries() []QueryDefinition {
	return []QueryDefinition{
		{
			ID:   "test_query",
			Name: "Test Query - NYC Taxi Data",
			SQL: `
SELECT
    pickup_zip,
    COUNT(*) as trip_count,
    AVG(fare_amount) as avg_fare,
    AVG(trip_distance) as avg_distance
FROM samples.nyctaxi.trips
WHERE pickup_zip IS NOT NULL
GROUP BY pickup_zip
ORDER BY trip_count DESC
LIMIT 20`,
			Description: "Test query using NYC taxi sample data",
			Category:    "Analytics",
		},
		{
			ID:   "supplier_performance",
			Name: "Supplier Performance Metrics",
			SQL: `
SELECT
    supplier_name,
    on_time_delivery_pct,
    quality_score,
    cost_rating,
    status,
    total_orders,
    region,
    last_order_date
FROM supply_chain.supplier_performance
ORDER BY on_time_delivery_pct DESC
LIMIT 100`,
			Description:     "Real-time supplier performance metrics and ratings",
			Category:        "Analytics",
			RefreshInterval: 300,
		},
		{
			ID:   "inventory_trends",
			Name: "Inventory Trends",
			SQL: `
SELECT
    date,
    product_name,
    inventory_level,
    region
FROM supply_chain.inventory_daily
WHERE date >= CURRENT_DATE - INTERVAL 30 DAYS
ORDER BY date, product_name`,
			Description:     "30-day inventory level trends by product and region",
			Category:        "Analytics",
			RefreshInterval: 600,
			ChartConfig: map[string]any{
				"type":      "line",
				"x_axis":    "date",
				"y_axis":    "inventory_level",
				"series_by": "product_name",
			},
		},
		{
			ID:   "shipment_status",
			Name: "Shipment Status Overview",
			SQL: `
SELECT
    shipment_id,
    origin,
    destination,
    status,
    expected_delivery,
    actual_delivery,
    carrier,
    tracking_number
FROM supply_chain.shipments
WHERE status IN ('In Transit', 'Delayed', 'Pending')
ORDER BY expected_delivery`,
			Description:     "Current status of active shipments",
			Category:        "Logistics",
			RefreshInterval: 180,
		},
		{
			ID:   "regional_sales",
			Name: "Regional Sales Analysis",
			SQL: `
SELECT
    region,
    product_category,
    SUM(sales_amount) as total_sales,
    COUNT(DISTINCT order_id) as order_count,
    AVG(sales_amount) as avg_order_value
FROM supply_chain.sales
WHERE date >= '{start_date}'
  AND date <= '{end_date}'
  AND region = '{region}'
GROUP BY region, product_category
ORDER BY total_sales DESC`,
			Description: "Sales analysis by region and product category",
			Category:    "Analytics",
			Parameters: []Parameter{
				{Name: "start_date", Label: "Start Date", Type: "date", Default: "2024-01-01"},
				{Name: "end_date", Label: "End Date", Type: "date", Default: "2024-12-31"},
				{
					Name:    "region",
					Label:   "Region",
					Type:    "select",
					Default: "North America",
					Options: []string{"North America", "Europe", "Asia-Pacific", "Latin America"},
				},
			},
		},
	}
}

func defaultWorkflows() []WorkflowDefinition {
	// No workflows ship by default; operators register their webhook
	// endpoints via the overlay file.
	return nil
}

func defaultDashboards() []DashboardDefinition {
	return nil
}

func defaultAssistants() []AssistantDefinition {
	return []AssistantDefinition{
		{
			ID:          "supply_chain_genie",
			Name:        "Supply Chain Genie",
			SpaceID:     "01f106b447c7129b8f1dc466a177d9d7",
			Description: "AI assistant for supply chain analytics and insights",
			Icon:        "bot",
			Category:    "AI & Automation",
		},
	}
}
