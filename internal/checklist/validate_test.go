package checklist

import "testing"

func TestValidate_CleanDocument(t *testing.T) {
	text := "# Tasks\n" +
		"- [x] Set up project\n" +
		"  - [ ] Write tests [!]\n" +
		"    * [ ] Table cases\n" +
		"1. [ ] Ship it\n" +
		"Some prose with [brackets] in it.\n"

	v := Validate(text)
	if !v.Valid {
		t.Fatalf("Valid = false, issues: %+v", v.Issues)
	}
	if v.Issues == nil {
		t.Error("Issues should be an empty slice, not nil")
	}
}

func TestValidate_Findings(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []IssueKind
	}{
		{"unknown box character", "- [?] Decide later", []IssueKind{IssueMalformed}},
		{"number without dot", "1 [ ] Missing dot", []IssueKind{IssueMalformed}},
		{"empty text", "- [ ]", []IssueKind{IssueMalformed}},
		{"odd indentation", "   - [ ] Three spaces", []IssueKind{IssueIndentation}},
		{"malformed and odd", " + [y] Both", []IssueKind{IssueMalformed, IssueIndentation}},
		{"plain bullet", "- not a task", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate("- [ ] First\n" + tt.line + "\n")

			if len(v.Issues) != len(tt.want) {
				t.Fatalf("issues = %+v, want kinds %v", v.Issues, tt.want)
			}
			for i, is := range v.Issues {
				if is.Kind != tt.want[i] {
					t.Errorf("issue %d kind = %s, want %s", i, is.Kind, tt.want[i])
				}
				if is.Line != 2 {
					t.Errorf("issue %d line = %d, want 2", i, is.Line)
				}
				if is.Message == "" || is.Suggestion == "" {
					t.Errorf("issue %d missing message or suggestion: %+v", i, is)
				}
			}
			if v.Valid != (len(tt.want) == 0) {
				t.Errorf("Valid = %v with %d issues", v.Valid, len(v.Issues))
			}
		})
	}
}

func TestValidate_DoesNotAffectParse(t *testing.T) {
	text := "   - [ ] Odd but counted\n- [?] Not counted\n"

	if v := Validate(text); v.Valid {
		t.Fatal("expected issues")
	}
	if res := Parse(text); res.Total != 1 {
		t.Errorf("Total = %d, want 1", res.Total)
	}
}
