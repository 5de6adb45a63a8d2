package themes

import (
	"sync"

	"pagebuilder/internal/domain"
)

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog with the built-in community themes.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = NewCatalog(builtinThemes()...)
	})
	return defaultCatalog
}

func block(id string, t domain.BlockType, values map[string]any) domain.Block {
	return domain.Block{ID: id, Type: t, Props: domain.DecodeProps(t, values)}
}

func starter(headline, lead, cta, productsTitle string, columns int) domain.Composition {
	return domain.Composition{
		block("hero", domain.BlockTypeHero, map[string]any{"title": headline, "subtitle": lead}),
		block("products", domain.BlockTypeProducts, map[string]any{"title": productsTitle, "linkText": "See all", "columns": columns}),
		block("cta", domain.BlockTypeCTA, map[string]any{"title": "Stay in the loop", "buttonText": cta}),
	}
}

func builtinThemes() []Theme {
	return []Theme{
		{
			ID:          "minimal",
			Name:        "Minimal Studio",
			Description: "Clean theme with strong typography and short copy.",
			Accent:      "#111827",
			Author:      "Core team",
			Tags:        []string{"landing", "portfolio", "products"},
			PageType:    PageTypeLanding,
			Headline:    "Launch your idea with clarity",
			Lead:        "Lean hero, focused cards and an always visible call to action.",
			CTA:         "Get started",
			Components:  starter("Launch your idea with clarity", "Lean hero, focused cards and an always visible call to action.", "Get started", "Featured", 3),
		},
		{
			ID:          "elegant",
			Name:        "Elegant Commerce",
			Description: "Elegant grid for digital or physical products.",
			Accent:      "#7C3AED",
			Author:      "Community",
			Tags:        []string{"ecommerce", "products", "saas"},
			PageType:    PageTypeEcommerce,
			Headline:    "A premium catalog without the effort",
			Lead:        "Cards with photo, price and a quick action for your digital store.",
			CTA:         "Browse the shop",
			Components:  starter("A premium catalog without the effort", "Cards with photo, price and a quick action for your digital store.", "Browse the shop", "New arrivals", 4),
		},
		{
			ID:          "bold",
			Name:        "Bold Launch",
			Description: "Strong colors, a prominent call to action and a metrics section.",
			Accent:      "#F97316",
			Author:      "Community",
			Tags:        []string{"startup", "landing", "course"},
			PageType:    PageTypeLanding,
			Headline:    "Launch without the hassle",
			Lead:        "A direct page with metrics, a sticky call to action and room for testimonials.",
			CTA:         "Publish page",
			Components:  starter("Launch without the hassle", "A direct page with metrics, a sticky call to action and room for testimonials.", "Publish page", "What you get", 3),
		},
		{
			ID:          "neo",
			Name:        "Neo Cards",
			Description: "Card layout with a modern, lively feel.",
			Accent:      "#22C55E",
			Author:      "Community",
			Tags:        []string{"community", "portfolio", "collections"},
			PageType:    PageTypeSoftware,
			Headline:    "Show your work in blocks",
			Lead:        "Great for theme collections, lessons or community showcases.",
			CTA:         "Clone theme",
			Components:  starter("Show your work in blocks", "Great for theme collections, lessons or community showcases.", "Clone theme", "Collections", 2),
		},
	}
}
