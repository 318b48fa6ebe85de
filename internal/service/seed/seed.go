// Package seed holds the starter catalog and order history a fresh store
// is populated with.
package seed

import (
	"time"

	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
	"github.com/corray333/backend-labs/dukan/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/dukan/internal/service/models/product"
	"github.com/shopspring/decimal"
)

// Products returns a fresh copy of the starter catalog.
func Products() []product.Product {
	return []product.Product{
		{
			ID:        "prod1",
			Name:      "product_maggi",
			Price:     "₹96",
			Stock:     50,
			StockUnit: "packs",
			ImageURL:  "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANdGcR_1iA8T9T2B4zO_VtrJoSA0vQbbfxWd_2n-A&s",
		},
		{
			ID:        "prod2",
			Name:      "product_amul_milk",
			Price:     "₹68",
			Stock:     30,
			StockUnit: "cartons",
			ImageURL:  "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANdGcT6y-n52J2bMMz0sA4D2HQzDXs2oKqv4i-pSQ&s",
		},
		{
			ID:        "prod3",
			Name:      "product_parle_g",
			Price:     "₹80",
			Stock:     100,
			StockUnit: "packs",
			ImageURL:  "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANdGcT3Y8naCsO5Xg3A9D-M6h_3_4c-w-QjX_p4zQ&s",
		},
		{
			ID:        "prod4",
			Name:      "product_tata_salt",
			Price:     "₹28",
			Stock:     80,
			StockUnit: "packs",
			ImageURL:  "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANdGcRz-a6f9f-0J4p-W8yBf_2h2Kj9Z-J5Gq8r-g&s",
		},
	}
}

// Orders returns the starter order history, newest first, with timestamps
// relative to now.
func Orders(now time.Time) []order.Order {
	return []order.Order{
		{
			ID: "B2C-8375",
			Customer: order.Customer{
				Name:           "Rohan Sharma",
				WhatsappNumber: "+919876543210",
				Address:        "A-101, Rose Apartments, Malviya Nagar, New Delhi",
			},
			Items: []orderitem.OrderItem{
				{ProductID: "prod1", Name: "product_maggi", Quantity: 2, Price: "₹96"},
				{ProductID: "prod3", Name: "product_parle_g", Quantity: 1, Price: "₹80"},
			},
			Total:         decimal.NewFromInt(272),
			PaymentMethod: order.PaymentCOD,
			Status:        order.StatusNew,
			Timestamp:     now.Add(-5 * time.Minute),
		},
		{
			ID: "B2C-8374",
			Customer: order.Customer{
				Name:           "Priya Patel",
				WhatsappNumber: "+919123456789",
				Address:        "B-20, Greenfield Colony, Saket, New Delhi",
			},
			Items: []orderitem.OrderItem{
				{ProductID: "prod2", Name: "product_amul_milk", Quantity: 4, Price: "₹68"},
			},
			Total:         decimal.NewFromInt(272),
			PaymentMethod: order.PaymentUPI,
			Status:        order.StatusNew,
			Timestamp:     now.Add(-15 * time.Minute),
		},
		{
			ID: "B2C-8372",
			Customer: order.Customer{
				Name:           "Anjali Verma",
				WhatsappNumber: "+919988776655",
				Address:        "House No. 5, Sector 15, Gurugram, Haryana",
			},
			Items: []orderitem.OrderItem{
				{ProductID: "prod4", Name: "product_tata_salt", Quantity: 1, Price: "₹28"},
			},
			Total:         decimal.NewFromInt(28),
			PaymentMethod: order.PaymentCOD,
			Status:        order.StatusPreparing,
			Timestamp:     now.Add(-45 * time.Minute),
		},
		{
			ID: "B2C-8370",
			Customer: order.Customer{
				Name:           "Vikram Singh",
				WhatsappNumber: "+919234567890",
				Address:        "C-404, Sun City, Vasant Kunj, New Delhi",
			},
			Items: []orderitem.OrderItem{
				{ProductID: "prod1", Name: "product_maggi", Quantity: 1, Price: "₹96"},
				{ProductID: "prod2", Name: "product_amul_milk", Quantity: 2, Price: "₹68"},
			},
			Total:         decimal.NewFromInt(232),
			PaymentMethod: order.PaymentCOD,
			Status:        order.StatusCompleted,
			Timestamp:     now.Add(-3 * time.Hour),
		},
	}
}
