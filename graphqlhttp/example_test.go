package graphqlhttp_test

import (
	"context"
	"log"
	"net/http"

	"graphloom.dev/graphql/graphql"
	"graphloom.dev/graphql/graphqlhttp"
)

func Example() {
	// Set up the server.
	query := graphql.NewObject("Query", "", map[string]*graphql.Field{
		"greeting": {
			Name: "greeting",
			Type: graphql.NonNullOf(graphql.StringType),
			Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *graphql.ResolveInfo) (interface{}, error) {
				return "Hello, World!", nil
			},
		},
	}, []string{"greeting"}, nil, nil)
	schema, err := graphql.NewSchema(query, nil, nil)
	if err != nil {
		log.Fatal(err)
	}
	server := graphql.NewServer(schema, nil)

	// Serve over HTTP using NewHandler.
	http.Handle("/graphql", graphqlhttp.NewHandler(server))
	http.ListenAndServe(":8080", nil)
}
