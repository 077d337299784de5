// Package recommender embeds the product recommendation engine in a Go
// process without the HTTP service.
//
// Products are encoded once when the Recommender is built; each query is
// lower-cased, encoded and ranked by cosine similarity against every product.
// Ties keep catalog order. When filters leave nothing, the first three
// catalog products are returned with Result.Fallback set.
//
//	rec, _ := recommender.New(ctx, products,
//	    recommender.WithDimensions(512),
//	    recommender.WithLogger(slog.Default()),
//	)
//	res, _ := rec.Recommend(ctx, recommender.Query{
//	    Text:     "silk saree",
//	    Category: "ethnic",
//	    MaxPrice: recommender.Int64(5000),
//	})
//	for _, r := range res.Items {
//	    fmt.Println(r.Product.Name, r.Score)
//	}
//
// A custom model plugs in through WithEncoder; it must return vectors of one
// fixed length for every input.
package recommender
