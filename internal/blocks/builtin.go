package blocks

import (
	"fmt"

	"pagebuilder/internal/domain"
)

func builtins() []*Descriptor {
	return []*Descriptor{
		{
			Type:  domain.BlockTypeHero,
			Label: "Hero banner",
			Fields: []Field{
				{Key: "title", Label: "Title", Kind: FieldText, Placeholder: "Main headline"},
				{Key: "subtitle", Label: "Subtitle", Kind: FieldText, Placeholder: "Section description"},
			},
			view: heroView,
		},
		{
			Type:  domain.BlockTypeProducts,
			Label: "Product grid",
			Fields: []Field{
				{Key: "title", Label: "Title", Kind: FieldText, Placeholder: "Featured products"},
				{Key: "linkText", Label: "Link text", Kind: FieldText, Placeholder: "See all"},
				{Key: "columns", Label: "Columns", Kind: FieldNumber, Placeholder: "4"},
			},
			view: productsView,
		},
		{
			Type:  domain.BlockTypeCTA,
			Label: "Lead capture",
			Fields: []Field{
				{Key: "title", Label: "Title", Kind: FieldText, Placeholder: "Get news and offers"},
				{Key: "subtitle", Label: "Subtitle", Kind: FieldText, Placeholder: "Sign up to receive promotions"},
				{Key: "buttonText", Label: "Button text", Kind: FieldText, Placeholder: "Keep me posted"},
			},
			view: ctaView,
		},
	}
}

type heroData struct {
	Title, Subtitle string
}

func heroView(p domain.Props, _ RenderContext) any {
	h, _ := p.(domain.HeroProps)
	return heroData{
		Title:    domain.StringOr(h.Title, "Main headline"),
		Subtitle: domain.StringOr(h.Subtitle, "Section description"),
	}
}

type productCard struct {
	Name, Description, Price string
}

type productsData struct {
	Title, LinkText string
	Columns         int
	Cards           []productCard
}

const sampleCards = 4

func productsView(p domain.Props, rc RenderContext) any {
	pp, _ := p.(domain.ProductsProps)
	data := productsData{
		Title:    domain.StringOr(pp.Title, "Featured products"),
		LinkText: domain.StringOr(pp.LinkText, "See all"),
		Columns:  domain.IntOr(pp.Columns, 4),
	}
	for _, prod := range rc.Products {
		if !prod.Visible {
			continue
		}
		data.Cards = append(data.Cards, productCard{
			Name:        prod.Name,
			Description: prod.Description,
			Price:       formatPrice(prod.PriceCents, rc.Currency),
		})
	}
	if len(data.Cards) == 0 {
		for i := 0; i < sampleCards; i++ {
			data.Cards = append(data.Cards, productCard{
				Name:        "Sample product",
				Description: "Short description",
				Price:       formatPrice(19900, rc.Currency),
			})
		}
	}
	return data
}

type ctaData struct {
	Title, Subtitle, ButtonText string
}

func ctaView(p domain.Props, _ RenderContext) any {
	c, _ := p.(domain.CTAProps)
	return ctaData{
		Title:      domain.StringOr(c.Title, "Get news and offers"),
		Subtitle:   domain.StringOr(c.Subtitle, "Sign up to receive promotions"),
		ButtonText: domain.StringOr(c.ButtonText, "Keep me posted"),
	}
}

func formatPrice(cents int64, currency string) string {
	if currency == "" {
		currency = "$"
	}
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%s %d.%02d", sign, currency, cents/100, cents%100)
}
