package graphql_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"graphloom.dev/graphql/graphql"
)

// GraphQL requests and responses can be converted to JSON using the
// standard encoding/json package.
func Example_json() {
	server := newExampleServer()

	// Use json.Unmarshal to parse a GraphQL request from JSON.
	var request graphql.Request
	err := json.Unmarshal([]byte(`{
		"query": "{ genericGreeting }"
	}`), &request)
	if err != nil {
		log.Fatal(err)
	}

	// Use json.Marshal to serialize a GraphQL server response to JSON.
	// We use json.MarshalIndent here for easier display.
	response := server.Execute(context.Background(), request)
	responseJSON, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(responseJSON))
	// Output:
	// {
	//   "data": {
	//     "genericGreeting": "Hiya!"
	//   }
	// }
}

func newExampleServer() *graphql.Server {
	query := graphql.NewObject("Query", "", map[string]*graphql.Field{
		"genericGreeting": {
			Name: "genericGreeting",
			Type: graphql.NonNullOf(graphql.StringType),
			Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *graphql.ResolveInfo) (interface{}, error) {
				return "Hiya!", nil
			},
		},
	}, []string{"genericGreeting"}, nil, nil)
	schema, err := graphql.NewSchema(query, nil, nil)
	if err != nil {
		panic(err)
	}
	return graphql.NewServer(schema, nil)
}
