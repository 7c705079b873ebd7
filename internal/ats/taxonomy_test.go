package ats

import "testing"

func TestDefaultTaxonomySize(t *testing.T) {
	expected := map[KeywordCategory]int{
		CategoryTechnical:   46,
		CategorySoftSkills:  19,
		CategoryActionVerbs: 22,
		CategoryBusiness:    18,
	}

	for category, count := range expected {
		if got := len(DefaultTaxonomy[category]); got != count {
			t.Fatalf("category %s: expected %d keywords, got %d", category, count, got)
		}
	}

	if DefaultTaxonomy.Len() != 105 {
		t.Fatalf("expected 105 keywords, got %d", DefaultTaxonomy.Len())
	}

	if len(DefaultTaxonomy.All()) != DefaultTaxonomy.Len() {
		t.Fatalf("flattened taxonomy length mismatch")
	}
}

func TestDefaultTaxonomyHasNoDuplicates(t *testing.T) {
	seen := make(map[string]KeywordCategory)
	for _, category := range Categories {
		for _, keyword := range DefaultTaxonomy[category] {
			if prev, ok := seen[keyword]; ok {
				t.Fatalf("keyword %q appears in %s and %s", keyword, prev, category)
			}
			seen[keyword] = category
		}
	}
}

func TestTaxonomyAllKeepsCategoryOrder(t *testing.T) {
	all := DefaultTaxonomy.All()

	if all[0] != "python" {
		t.Fatalf("expected first keyword python, got %q", all[0])
	}

	if all[46] != "leadership" {
		t.Fatalf("expected soft skills to start at index 46, got %q", all[46])
	}

	if all[len(all)-1] != "consulting" {
		t.Fatalf("expected last keyword consulting, got %q", all[len(all)-1])
	}
}

func TestTaxonomyHead(t *testing.T) {
	head := DefaultTaxonomy.Head(CategoryTechnical, 20)
	if len(head) != 20 || head[19] != "docker" {
		t.Fatalf("unexpected technical head: %v", head)
	}

	if got := DefaultTaxonomy.Head(CategoryBusiness, 100); len(got) != 18 {
		t.Fatalf("expected whole list when n exceeds length, got %d", len(got))
	}
}
