package graphql

import (
	"testing"

	"graphloom.dev/graphql/internal/lang"
)

func TestValidateDocument(t *testing.T) {
	schema := newFixtureSchema()

	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{
			name:    "Valid",
			source:  `query getName { myDog { name } }`,
			wantErr: false,
		},
		{
			name:    "UnknownField",
			source:  `{ myDog { meowVolume } }`,
			wantErr: true,
		},
		{
			name: "DuplicateOperationName",
			source: `
				query getName { myDog { name } }
				query getName { myDog { barkVolume } }
			`,
			wantErr: true,
		},
		{
			name: "AnonymousWithNamed",
			source: `
				{ myDog { name } }
				query getName { myDog { name } }
			`,
			wantErr: true,
		},
		{
			name:    "LeafWithSelectionSet",
			source:  `{ myDog { barkVolume { sinceWhen } } }`,
			wantErr: true,
		},
		{
			name:    "CompositeWithoutSelectionSet",
			source:  `{ myDog }`,
			wantErr: true,
		},
		{
			name:    "UnknownFragmentType",
			source:  `{ myDog { ... frag } } fragment frag on NoSuchType { name }`,
			wantErr: true,
		},
		{
			name: "FragmentCycle",
			source: `
				{ myDog { ...frag } }
				fragment frag on Dog { name ...frag }
			`,
			wantErr: true,
		},
		{
			name:    "UnusedFragment",
			source:  `{ myDog { name } } fragment unused on Dog { name }`,
			wantErr: true,
		},
		{
			name:    "UnknownVariable",
			source:  `{ requiredArg(echo: $missing) }`,
			wantErr: true,
		},
		{
			name:    "MergeableFieldsSameAlias",
			source:  `{ myDog { name name } }`,
			wantErr: false,
		},
		{
			name:    "ConflictingAlias",
			source:  `{ dog: myDog { name } dog: myNilDog { name } }`,
			wantErr: true,
		},
		{
			name:    "SkipDirective",
			source:  `{ myString @skip(if: true) }`,
			wantErr: false,
		},
		{
			// Directives other than @skip/@include are not recognized anywhere
			// in the pipeline and are silently ignored rather than rejected.
			name:    "UnknownDirectiveIsIgnored",
			source:  `{ myString @bogus }`,
			wantErr: false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc, perrs := lang.Parse(test.source)
			if len(perrs) > 0 {
				t.Fatalf("parse errors: %v", perrs)
			}
			errs := validateDocument(schema, test.source, doc)
			if len(errs) > 0 {
				t.Logf("errors: %v", errs)
				if !test.wantErr {
					t.Fail()
				}
				return
			}
			if test.wantErr {
				t.Error("validateDocument returned no errors; want at least one")
			}
		})
	}
}

func TestValidateDocumentErrorLocations(t *testing.T) {
	schema := newFixtureSchema()
	const source = `{ myDog { meowVolume } }`
	doc, perrs := lang.Parse(source)
	if len(perrs) > 0 {
		t.Fatalf("parse errors: %v", perrs)
	}
	errs := validateDocument(schema, source, doc)
	if len(errs) == 0 {
		t.Fatal("validateDocument returned no errors; want at least one")
	}
	respErrs := toResponseErrors(source, errs)
	for _, re := range respErrs {
		if len(re.Locations) == 0 {
			t.Errorf("error %q has no location", re.Message)
		}
	}
}
