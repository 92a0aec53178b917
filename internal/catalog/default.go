package catalog

import "storefront/internal/domain"

// Default returns the storefront's launch menu.
func Default() []domain.Product {
	return []domain.Product{
		{
			ID:          "1",
			Name:        "Jollof Rice",
			Description: "Traditional Nigerian jollof rice with rich tomato base, spices, and vegetables. A beloved West African staple.",
			PriceCents:  1299,
			Image:       "/images/jollof-rice.jpg",
			Category:    "Rice Dishes",
			InStock:     true,
		},
		{
			ID:          "2",
			Name:        "Pounded Yam & Egusi",
			Description: "Authentic pounded yam served with rich egusi soup made with ground melon seeds and vegetables.",
			PriceCents:  1899,
			Image:       "/images/pounded-yam.png",
			Category:    "Traditional Meals",
			InStock:     true,
		},
		{
			ID:          "3",
			Name:        "Suya Platter",
			Description: "Spiced grilled beef skewers seasoned with ground peanuts, chili peppers, and traditional spices.",
			PriceCents:  1549,
			Image:       "/images/suya.png",
			Category:    "Grilled",
			InStock:     true,
		},
		{
			ID:          "4",
			Name:        "Pepper Soup",
			Description: "Spicy and aromatic Nigerian pepper soup with assorted meat, perfect for warming the soul.",
			PriceCents:  1399,
			Image:       "/images/pepper-soup.png",
			Category:    "Soups",
			InStock:     true,
		},
		{
			ID:          "5",
			Name:        "Fried Plantain (Dodo)",
			Description: "Sweet fried plantain slices, golden and caramelized to perfection. A popular Nigerian side dish.",
			PriceCents:  899,
			Image:       "/images/fried-plantain.png",
			Category:    "Sides",
			InStock:     true,
		},
		{
			ID:          "6",
			Name:        "Egusi Soup",
			Description: "Traditional Nigerian soup made with ground melon seeds, leafy vegetables, and assorted meat.",
			PriceCents:  1699,
			Image:       "/images/egusi-soup.png",
			Category:    "Soups",
			InStock:     true,
		},
		{
			ID:          "7",
			Name:        "Zobo Drink",
			Description: "Refreshing hibiscus drink infused with natural spices, ginger, and fruits. A healthy Nigerian beverage.",
			PriceCents:  499,
			Image:       "/images/zobo.png",
			Category:    "Drinks",
			InStock:     true,
		},
		{
			ID:          "8",
			Name:        "Kunu Drink",
			Description: "Traditional Nigerian millet-based drink, creamy and nutritious with a hint of ginger and spices.",
			PriceCents:  399,
			Image:       "/images/kunu.png",
			Category:    "Drinks",
			InStock:     true,
		},
		{
			ID:          "9",
			Name:        "Palm Wine",
			Description: "Traditional fermented palm sap wine, naturally sweet with a unique taste. An authentic African drink.",
			PriceCents:  699,
			Image:       "/images/palm-wine.png",
			Category:    "Drinks",
			InStock:     true,
		},
		{
			ID:          "10",
			Name:        "Fura da Nono",
			Description: "Traditional Hausa drink made with millet balls (fura) and fresh cow milk (nono). Creamy and nutritious.",
			PriceCents:  549,
			Image:       "/images/fura-da-nono.png",
			Category:    "Drinks",
			InStock:     true,
		},
	}
}
