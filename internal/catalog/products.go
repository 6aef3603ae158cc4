package catalog

import "yoolivery/internal/domain/model"

func ptr(v float64) *float64 { return &v }

// 初期カタログ。価格はパイサ。
func Default() []model.Product {
	return []model.Product{
		{
			ID:          "beer-kingfisher-650",
			Name:        "Kingfisher Strong 650ml",
			Brand:       "Kingfisher",
			Category:    model.CategoryBeer,
			VolumeMl:    650,
			PricePaise:  19000,
			Origin:      "India",
			Rating:      ptr(4.2),
			Description: "Crisp Indian lager with a strong profile. Great with spicy snacks.",
		},
		{
			ID:          "whisky-mc-750",
			Name:        "McDowell's No.1 750ml",
			Brand:       "McDowell's",
			Category:    model.CategoryWhisky,
			VolumeMl:    750,
			PricePaise:  68000,
			Origin:      "India",
			Rating:      ptr(4.0),
			Description: "Smooth and balanced Indian whisky with hints of caramel and oak.",
		},
		{
			ID:          "rum-oldmonk-750",
			Name:        "Old Monk 750ml",
			Brand:       "Old Monk",
			Category:    model.CategoryRum,
			VolumeMl:    750,
			PricePaise:  56000,
			Origin:      "India",
			Rating:      ptr(4.5),
			Description: "Iconic dark rum with rich vanilla notes. A North-East favorite.",
		},
		{
			ID:          "beer-dry-imphal-500",
			Name:        "Imphal Dry Lager 500ml",
			Brand:       "Imphal Breweries",
			Category:    model.CategoryBeer,
			VolumeMl:    500,
			PricePaise:  18000,
			Origin:      "Manipur",
			Rating:      ptr(4.1),
			Description: "Clean, refreshing lager inspired by the valley climate of Manipur.",
		},
		{
			ID:          "brandy-hills-750",
			Name:        "Hills Brandy 750ml",
			Brand:       "Hills Distillers",
			Category:    model.CategoryBrandy,
			VolumeMl:    750,
			PricePaise:  64000,
			Origin:      "North-East India",
			Rating:      ptr(4.0),
			Description: "Warm brandy with fruity aromas, popular in the hills during winters.",
		},
	}
}
