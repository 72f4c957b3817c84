// Package graph exposes a read-only GraphQL view of the catalog at /graphql.
// Mutations stay on the REST surface.
package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/pkg/catalog"
	"github.com/citizenjaivik/jaivik/pkg/graphqlx"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		// The document id field is tagged "_id", which the default resolver
		// will not find under "id".
		"id": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if product, ok := p.Source.(models.Product); ok {
					return product.ID, nil
				}
				return nil, nil
			},
		},
		"name":           &graphql.Field{Type: graphql.String},
		"category":       &graphql.Field{Type: graphql.String},
		"subCategory":    &graphql.Field{Type: graphql.String},
		"price":          &graphql.Field{Type: graphql.Float},
		"unit":           &graphql.Field{Type: graphql.String},
		"farmerName":     &graphql.Field{Type: graphql.String},
		"farmerDetails":  &graphql.Field{Type: graphql.String},
		"productDetails": &graphql.Field{Type: graphql.String},
		"image":          &graphql.Field{Type: graphql.String},
		"inStock":        &graphql.Field{Type: graphql.Boolean},
	},
})

// NewSchema builds the catalog query schema over the given source.
func NewSchema(source catalog.Source) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"category":    &graphql.ArgumentConfig{Type: graphql.String},
					"subCategory": &graphql.ArgumentConfig{Type: graphql.String},
					"search":      &graphql.ArgumentConfig{Type: graphql.String},
					"inStock":     &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					products := source.AllProducts(p.Context)
					if category, ok := p.Args["category"].(string); ok && category != "" {
						products = catalog.ByCategory(products, category)
					}
					if sub, ok := p.Args["subCategory"].(string); ok && sub != "" {
						products = catalog.BySubCategory(products, sub)
					}
					if q, ok := p.Args["search"].(string); ok && q != "" {
						products = catalog.Search(products, q)
					}
					if inStock, ok := p.Args["inStock"].(bool); ok && inStock {
						products = catalog.InStock(products)
					}
					return products, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					product, ok := source.ProductByID(p.Context, id)
					if !ok {
						return nil, nil
					}
					return product, nil
				},
			},
			"featured": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.Featured(source.AllProducts(p.Context)), nil
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.Categories(source.AllProducts(p.Context)), nil
				},
			},
			"subCategories": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					category, _ := p.Args["category"].(string)
					return catalog.SubCategories(source.AllProducts(p.Context), category), nil
				},
			},
		},
	})

	return graphqlx.NewSchema(query)
}
