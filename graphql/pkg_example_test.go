package graphql_test

import (
	"context"
	"fmt"
	"log"

	"graphloom.dev/graphql/graphql"
)

// greetArgs holds the arguments passed to the Query.greet field. ConvertArgs
// coerces the validated argument map into this struct before the resolver
// runs, honoring a "graphql" struct tag to rename fields where needed.
type greetArgs struct {
	Subject string
}

func Example() {
	// Build the schema directly from Go types rather than an SDL document:
	// every type, field, and resolver is constructed with the builder
	// functions in this package.
	query := graphql.NewObject("Query", "", map[string]*graphql.Field{
		"genericGreeting": {
			Name: "genericGreeting",
			Type: graphql.NonNullOf(graphql.StringType),
		},
		"greet": {
			Name: "greet",
			Type: graphql.NonNullOf(graphql.StringType),
			Args: map[string]*graphql.Argument{
				"subject": {Name: "subject", Type: graphql.NonNullOf(graphql.StringType)},
			},
			ArgOrder: []string{"subject"},
			Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *graphql.ResolveInfo) (interface{}, error) {
				var a greetArgs
				if err := graphql.ConvertArgs(args, &a); err != nil {
					return nil, err
				}
				return fmt.Sprintf("Hello, %s!", a.Subject), nil
			},
		},
	}, []string{"genericGreeting", "greet"}, nil, nil)
	schema, err := graphql.NewSchema(query, nil, nil)
	if err != nil {
		log.Fatal(err)
	}

	// A root value backs fields with no explicit Resolve: genericGreeting
	// is read directly off this struct by the default field resolver.
	root := &struct {
		GenericGreeting string
	}{GenericGreeting: "Hiya!"}
	server := graphql.NewServer(schema, root)

	// Once created, a *graphql.Server can execute requests.
	response := server.Execute(context.Background(), graphql.Request{
		Query: `
			query($subject: String!) {
				genericGreeting
				greet(subject: $subject)
			}
		`,
		Variables: map[string]interface{}{
			"subject": "World",
		},
	})

	// GraphQL responses can be serialized however you want. Typically,
	// you would use JSON, but this example displays the results directly.
	if len(response.Errors) > 0 {
		log.Fatal(response.Errors)
	}
	fmt.Println(response.Data.ValueFor("genericGreeting").Scalar())
	fmt.Println(response.Data.ValueFor("greet").Scalar())
	// Output:
	// Hiya!
	// Hello, World!
}
