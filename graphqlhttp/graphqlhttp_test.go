package graphqlhttp

import (
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"graphloom.dev/graphql/graphql"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string

		method      string
		query       url.Values
		contentType string
		body        string

		want          graphql.Request
		wantErrStatus int
	}{
		{
			name:   "HEAD",
			method: http.MethodHead,
			query:  url.Values{"query": {"{me{name}}"}},
			want: graphql.Request{
				Query: "{me{name}}",
			},
		},
		{
			name:   "GET/JustQuery",
			method: http.MethodGet,
			query:  url.Values{"query": {"{me{name}}"}},
			want: graphql.Request{
				Query: "{me{name}}",
			},
		},
		{
			name:   "GET/AllFields",
			method: http.MethodGet,
			query: url.Values{
				"query":         {"query Baz{me{name}}"},
				"variables":     {`{"foo":"bar"}`},
				"operationName": {"Baz"},
			},
			want: graphql.Request{
				Query:         "query Baz{me{name}}",
				OperationName: "Baz",
				Variables:     map[string]interface{}{"foo": "bar"},
			},
		},
		{
			name:   "GET/Mutation",
			method: http.MethodGet,
			query: url.Values{
				"query":     {"mutation {me{name}}"},
				"variables": {`{"foo":"bar"}`},
			},
			wantErrStatus: http.StatusBadRequest,
		},
		{
			name:        "POST/JustQuery",
			method:      http.MethodPost,
			contentType: "application/json; charset=utf-8",
			body:        `{"query": "{me{name}}"}`,
			want: graphql.Request{
				Query: "{me{name}}",
			},
		},
		{
			name:        "POST/AllFields",
			method:      http.MethodPost,
			contentType: "application/json; charset=utf-8",
			body:        `{"query": "{me{name}}", "variables": {"foo":"bar"}, "operationName": "Baz"}`,
			want: graphql.Request{
				Query:         "{me{name}}",
				OperationName: "Baz",
				Variables:     map[string]interface{}{"foo": "bar"},
			},
		},
		{
			name:        "POST/FormEncoded",
			method:      http.MethodPost,
			contentType: "application/x-www-form-urlencoded",
			body:        "query=%7Bme%7Bname%7D%7D",
			want: graphql.Request{
				Query: "{me{name}}",
			},
		},
		{
			name:        "POST/GraphQLContentType",
			method:      http.MethodPost,
			contentType: "application/graphql; charset=utf-8",
			body:        "{me{name}}",
			want: graphql.Request{
				Query: "{me{name}}",
			},
		},
		{
			name:        "POST/MalformedJSON",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"query": `,

			wantErrStatus: http.StatusBadRequest,
		},
		{
			name:        "POST/UnsupportedContentType",
			method:      http.MethodPost,
			contentType: "text/plain",
			body:        "{me{name}}",

			wantErrStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:   "PUT/NotAllowed",
			method: http.MethodPut,

			wantErrStatus: http.StatusMethodNotAllowed,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := &http.Request{
				Method: test.method,
				URL: &url.URL{
					RawQuery: test.query.Encode(),
				},
				Header: make(http.Header),
				Body:   ioutil.NopCloser(strings.NewReader(test.body)),
			}
			if test.contentType != "" {
				req.Header.Set("Content-Type", test.contentType)
			}
			got, err := Parse(req)
			if err != nil {
				if test.wantErrStatus == 0 {
					t.Fatalf("Parse error = %v; want <nil>", err)
				}
				if StatusCode(err) != test.wantErrStatus {
					t.Fatalf("Parse error = %v, status code = %d; want status code = %d", err, StatusCode(err), test.wantErrStatus)
				}
				return
			}
			if test.wantErrStatus != 0 {
				t.Fatalf("Parse(...) = %+v, <nil>; want error status code = %d", got, test.wantErrStatus)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Parse(...) (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	if got := StatusCode(nil); got != http.StatusOK {
		t.Errorf("StatusCode(nil) = %d; want %d", got, http.StatusOK)
	}
	_, err := Parse(&http.Request{
		Method: http.MethodPut,
		URL:    &url.URL{},
		Header: make(http.Header),
		Body:   ioutil.NopCloser(strings.NewReader("")),
	})
	if got := StatusCode(err); got != http.StatusMethodNotAllowed {
		t.Errorf("StatusCode(PUT error) = %d; want %d", got, http.StatusMethodNotAllowed)
	}
}
