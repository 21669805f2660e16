// Package graphql exposes a read-only view of the catalog and receipts.
package graphql

import (
	"time"

	"github.com/graphql-go/graphql"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/collection"
	gql "github.com/shashiranjanraj/storefront/pkg/graphql"
)

var unitCountsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "UnitCounts",
	Fields: graphql.Fields{
		"total":      &graphql.Field{Type: graphql.Int},
		"available":  &graphql.Field{Type: graphql.Int},
		"comingSoon": &graphql.Field{Type: graphql.Int},
		"taken":      &graphql.Field{Type: graphql.Int},
	},
})

var unitType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Unit",
	Fields: graphql.Fields{
		"id":     &graphql.Field{Type: graphql.Int},
		"tag":    &graphql.Field{Type: graphql.String},
		"status": &graphql.Field{Type: graphql.String},
	},
})

var specType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Specification",
	Fields: graphql.Fields{
		"key":   &graphql.Field{Type: graphql.String},
		"value": &graphql.Field{Type: graphql.String},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.Int},
		"name":           &graphql.Field{Type: graphql.String},
		"slug":           &graphql.Field{Type: graphql.String},
		"brand":          &graphql.Field{Type: graphql.String},
		"category":       &graphql.Field{Type: graphql.String},
		"description":    &graphql.Field{Type: graphql.String},
		"price":          &graphql.Field{Type: graphql.Int},
		"featured":       &graphql.Field{Type: graphql.Boolean},
		"images":         &graphql.Field{Type: graphql.NewList(graphql.String)},
		"videos":         &graphql.Field{Type: graphql.NewList(graphql.String)},
		"specifications": &graphql.Field{Type: graphql.NewList(specType)},
		"unitCounts":     &graphql.Field{Type: unitCountsType},
		"units":          &graphql.Field{Type: graphql.NewList(unitType)},
	},
})

var receiptType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Receipt",
	Fields: graphql.Fields{
		"receiptId":     &graphql.Field{Type: graphql.String},
		"productName":   &graphql.Field{Type: graphql.String},
		"unitTag":       &graphql.Field{Type: graphql.String},
		"customerName":  &graphql.Field{Type: graphql.String},
		"customerPhone": &graphql.Field{Type: graphql.String},
		"customerEmail": &graphql.Field{Type: graphql.String},
		"price":         &graphql.Field{Type: graphql.Int},
		"date":          &graphql.Field{Type: graphql.String},
		"status":        &graphql.Field{Type: graphql.String},
		"notes":         &graphql.Field{Type: graphql.String},
	},
})

// NewSchema builds the query root over the inventory and sale services.
func NewSchema(inventory *services.InventoryService, sales *services.SaleService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"brand":    &graphql.ArgumentConfig{Type: graphql.String},
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"minPrice": &graphql.ArgumentConfig{Type: graphql.Int},
					"maxPrice": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f := repositories.ProductFilter{}
					f.Brand, _ = p.Args["brand"].(string)
					f.Category, _ = p.Args["category"].(string)
					f.MinPrice = int64Arg(p.Args, "minPrice")
					f.MaxPrice = int64Arg(p.Args, "maxPrice")

					rows, err := inventory.ListProductsWithCounts(p.Context, f)
					if err != nil {
						return nil, err
					}
					return collection.Map(rows, func(r services.ProductWithCounts) map[string]interface{} {
						out := productFields(r.Product)
						out["unitCounts"] = countsFields(r.UnitCounts)
						return out
					}), nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					if id <= 0 {
						return nil, services.ErrProductNotFound
					}
					detail, err := inventory.GetProductWithUnits(p.Context, uint(id))
					if err != nil {
						return nil, err
					}
					out := productFields(detail.Product)
					var counts models.UnitCounts
					out["units"] = collection.Map(detail.Units, func(u services.UnitSummary) map[string]interface{} {
						counts.Add(u.Status, 1)
						return map[string]interface{}{"id": int(u.ID), "tag": u.Tag, "status": string(u.Status)}
					})
					out["unitCounts"] = countsFields(counts)
					return out, nil
				},
			},
			"receipt": &graphql.Field{
				Type: receiptType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					o, err := sales.GetReceipt(p.Context, id)
					if err != nil {
						return nil, err
					}
					return receiptFields(o), nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}

func int64Arg(args map[string]interface{}, key string) *int64 {
	v, ok := args[key].(int)
	if !ok {
		return nil
	}
	n := int64(v)
	return &n
}

func productFields(p models.Product) map[string]interface{} {
	media := p.MediaURLs()
	specs := make([]map[string]interface{}, 0, len(p.Specs()))
	for k, v := range p.Specs() {
		specs = append(specs, map[string]interface{}{"key": k, "value": v})
	}
	return map[string]interface{}{
		"id":             int(p.ID),
		"name":           p.Name,
		"slug":           p.Slug,
		"brand":          p.Brand,
		"category":       string(p.Category),
		"description":    p.Description,
		"price":          p.Price,
		"featured":       p.Featured,
		"images":         media.Images,
		"videos":         media.Videos,
		"specifications": specs,
	}
}

func countsFields(c models.UnitCounts) map[string]interface{} {
	return map[string]interface{}{
		"total":      c.Total,
		"available":  c.Available,
		"comingSoon": c.ComingSoon,
		"taken":      c.Taken,
	}
}

func receiptFields(o models.Order) map[string]interface{} {
	out := map[string]interface{}{
		"receiptId":    o.ReceiptID,
		"productName":  o.ProductName,
		"unitTag":      o.UnitTag,
		"customerName": o.CustomerName,
		"price":        o.Price,
		"date":         o.CreatedAt.UTC().Format(time.RFC3339),
		"status":       string(o.Status),
	}
	if o.CustomerPhone != nil {
		out["customerPhone"] = *o.CustomerPhone
	}
	if o.CustomerEmail != nil {
		out["customerEmail"] = *o.CustomerEmail
	}
	if o.Notes != nil {
		out["notes"] = *o.Notes
	}
	return out
}
