package store

import "b2b-catalog/internal/domain"

// SampleProducts returns the built-in catalog used when no product
// snapshot exists yet or the stored one cannot be read.
func SampleProducts() []*domain.Product {
	return []*domain.Product{
		{
			ID:          "prod-sample-001",
			Name:        "Professional Office Laptop X1",
			Category:    domain.CategoryElectronics,
			Price:       1299.99,
			Description: "High-performance laptop for business professionals with a 15 inch display, 16GB RAM and a 512GB SSD.",
			ImageURL:    "https://picsum.photos/seed/laptopx1/600/400",
			Specifications: map[string]string{
				"Processor": "Intel Core i7 12th Gen",
				"RAM":       "16GB DDR5",
				"Storage":   "512GB NVMe SSD",
				"Display":   "15.6\" QHD (2560x1440)",
				"OS":        "Windows 11 Pro",
			},
			Stock: 50,
		},
		{
			ID:          "prod-sample-002",
			Name:        "Enterprise Cloud Suite - Annual",
			Category:    domain.CategorySoftware,
			Price:       499.00,
			Description: "Comprehensive cloud software suite for enterprise collaboration, project management and data analytics.",
			ImageURL:    "https://picsum.photos/seed/cloudsuite/600/400",
			Specifications: map[string]string{
				"Type":     "SaaS",
				"Users":    "Up to 100 users included",
				"Support":  "24/7 premium support",
				"Features": "Document management, CRM, analytics dashboard",
			},
			Stock: 1000,
		},
		{
			ID:          "prod-sample-003",
			Name:        "Heavy Duty Network Router G5",
			Category:    domain.CategoryHardware,
			Price:       349.50,
			Description: "Rugged, secure network router designed for small and medium businesses. Supports up to 100 concurrent devices.",
			ImageURL:    "https://picsum.photos/seed/routerg5/600/400",
			Specifications: map[string]string{
				"WAN ports": "1 x 2.5 Gbps Ethernet",
				"LAN ports": "4 x 1 Gbps Ethernet",
				"Wi-Fi":     "Wi-Fi 6 (802.11ax)",
				"Security":  "WPA3, VPN passthrough, firewall",
			},
			Stock: 75,
		},
		{
			ID:          "prod-sample-004",
			Name:        "IT Support & Maintenance (Monthly)",
			Category:    domain.CategoryServices,
			Price:       250.00,
			Description: "Monthly IT support package including remote assistance, system monitoring and security updates.",
			ImageURL:    "https://picsum.photos/seed/itsupport/600/400",
			Specifications: map[string]string{
				"Response time": "Within 4 hours",
				"Coverage":      "Desktop, server, network",
				"Contract":      "Monthly, cancel anytime",
				"Includes":      "Proactive monitoring, help desk access",
			},
			Stock: 100,
		},
		{
			ID:          "prod-sample-005",
			Name:        "Eco-Friendly Printer Paper (Bulk)",
			Category:    domain.CategoryOfficeSupplies,
			Price:       45.99,
			Description: "10 reams of high-quality eco-friendly printer paper, 500 sheets per ream.",
			ImageURL:    "https://picsum.photos/seed/paperbulk/600/400",
			Specifications: map[string]string{
				"Brightness": "92",
				"Size":       "8.5\" x 11\"",
				"Material":   "30% recycled content",
				"Quantity":   "5000 sheets (10 reams)",
			},
			Stock: 200,
		},
		{
			ID:          "prod-sample-006",
			Name:        "Advanced Ergonomic Office Chair",
			Category:    domain.CategoryOfficeSupplies,
			Price:       399.00,
			Description: "Fully adjustable ergonomic chair designed for maximum comfort and support during long working hours.",
			ImageURL:    "https://picsum.photos/seed/officechair/600/400",
			Specifications: map[string]string{
				"Material":        "Breathable mesh, aluminum base",
				"Adjustments":     "Lumbar, armrests, height, tilt",
				"Weight capacity": "135 kg",
				"Warranty":        "5 years",
			},
			Stock: 30,
		},
		{
			ID:          "prod-sample-007",
			Name:        "Ultra Wide Business Monitor 34\"",
			Category:    domain.CategoryElectronics,
			Price:       599.00,
			Description: "34 inch ultra wide QHD monitor, ideal for multitasking and increased productivity.",
			ImageURL:    "https://picsum.photos/seed/monitoruw/600/400",
			Specifications: map[string]string{
				"Resolution":   "3440x1440 (WQHD)",
				"Panel":        "IPS",
				"Refresh rate": "75Hz",
				"Ports":        "HDMI, DisplayPort, USB-C",
			},
			Stock: 40,
		},
		{
			ID:          "prod-sample-008",
			Name:        "Cybersecurity Training Platform",
			Category:    domain.CategorySoftware,
			Price:       999.00,
			Description: "Online platform for employee cybersecurity awareness training with modules and phishing simulations.",
			ImageURL:    "https://picsum.photos/seed/cybertrain/600/400",
			Specifications: map[string]string{
				"Type":    "Subscription (annual)",
				"Users":   "Up to 250 employees",
				"Content": "Interactive modules, quizzes, reporting",
				"Updates": "New content monthly",
			},
			Stock: 500,
		},
		{
			ID:          "prod-sample-009",
			Name:        "Front Brake Pad Set (XYZ Brand)",
			Category:    domain.CategoryAutomotive,
			Price:       79.90,
			Description: "High-quality front brake pad set for XYZ brand vehicles. Excellent stopping power and long service life.",
			ImageURL:    "https://picsum.photos/seed/brakepad/600/400",
			Specifications: map[string]string{
				"OEM":               "12345-XYZ-OEM",
				"Vehicle brand":     "XYZ",
				"Compatible models": "Model A (2018-2022), Model B (2019-2023)",
				"Position":          "Front axle",
				"Material":          "Ceramic",
			},
			Stock: 120,
		},
	}
}

// DefaultUsers returns the built-in accounts used when no user snapshot
// exists yet. The roster always contains at least one super admin so the
// storefront can be administered on first run.
func DefaultUsers() []*domain.User {
	return []*domain.User{
		{
			ID:                   "superadmin-001",
			Email:                "admin@example.com",
			Username:             "admin",
			Name:                 "Default Super Admin",
			Role:                 domain.RoleSuperAdmin,
			DiscountRate:         0.1,
			AccessibleCategories: append([]domain.Category(nil), domain.Categories...),
			IsActive:             true,
			Password:             "admin123",
			CanSetUserDiscounts:  true,
			CanCreateNewUsers:    true,
			CanManageAllProducts: true,
			CompanyName:          "B2B Solutions",
			TaxID:                "1234567890",
			PhoneNumber:          "+15551234567",
		},
		{
			ID:                   "manager-001",
			Email:                "manager@example.com",
			Username:             "manager",
			Name:                 "Default Manager",
			Role:                 domain.RoleManager,
			DiscountRate:         0.05,
			AccessibleCategories: append([]domain.Category(nil), domain.Categories...),
			IsActive:             true,
			Password:             "manager123",
			CanSetUserDiscounts:  true,
			CanCreateNewUsers:    true,
			CanManageAllProducts: true,
			CompanyName:          "Example Inc.",
			TaxID:                "0987654321",
			PhoneNumber:          "+15559876543",
		},
	}
}
