package compose

import (
	"strings"
	"testing"

	"policy-chat-be/internal/config"
	"policy-chat-be/internal/constant"
	"policy-chat-be/pkg/rag/gate"
	"policy-chat-be/pkg/store"
)

func newComposer() *Composer {
	return NewComposer(config.DefaultPipeline())
}

func inScope() store.Classification {
	return store.Classification{Category: store.CategoryInScope}
}

func TestTemplateResult(t *testing.T) {
	c := newComposer()
	cls := store.Classification{
		Category:        store.CategoryOffScope,
		Subtag:          "sports",
		Template:        store.TemplateOffScopeSports,
		BypassRetrieval: true,
	}

	got := c.Template(cls, cls.Template)

	if got.Text != constant.TemplateText(store.TemplateOffScopeSports) {
		t.Errorf("text = %q, want the canned sports refusal", got.Text)
	}
	if len(got.Citations) != 0 {
		t.Errorf("template answers carry no citations, got %d", len(got.Citations))
	}
	if got.Flag != store.FlagRefused {
		t.Errorf("flag = %v, want refused", got.Flag)
	}
	if got.Classification.Tag() != "off_scope:sports" {
		t.Errorf("classification tag = %q", got.Classification.Tag())
	}
}

func TestComposeCitationsDedupedAndCapped(t *testing.T) {
	c := newComposer()
	pack := &store.ContextPack{Passages: []store.Passage{
		{Text: "a", Page: 14},
		{Text: "b", Page: 14},
		{Text: "c", Page: 7},
		{Text: "d", Page: 90},
		{Text: "e", Page: 31},
	}}

	got := c.Compose(inScope(), pack, "The limit is Rs. 75 million.", gate.Result{Pass: true})

	if len(got.Citations) != 3 {
		t.Fatalf("citations = %d, want cap of 3", len(got.Citations))
	}
	if got.Citations[0].Page != 14 || got.Citations[1].Page != 7 || got.Citations[2].Page != 90 {
		t.Errorf("citation pages = %v, want first-occurrence order 14 7 90", got.Citations)
	}
	for _, cit := range got.Citations {
		if cit.Source != constant.CitationSourceLabel {
			t.Errorf("source = %q", cit.Source)
		}
	}
}

func TestComposeAttachesWarnFlag(t *testing.T) {
	c := newComposer()
	pack := &store.ContextPack{Passages: []store.Passage{{Text: "a", Page: 1}}}

	got := c.Compose(inScope(), pack, "Answer.", gate.Result{Pass: true, Warn: true})
	if got.Flag != store.FlagLowConfidence {
		t.Errorf("flag = %v, want low_confidence on gate warn", got.Flag)
	}

	got = c.Compose(inScope(), pack, "Answer.", gate.Result{Pass: true})
	if got.Flag != store.FlagNormal {
		t.Errorf("flag = %v, want normal", got.Flag)
	}
}

func TestTruncateStopsAtStructuralBreak(t *testing.T) {
	c := newComposer()
	pack := &store.ContextPack{Passages: []store.Passage{{Text: "a", Page: 1}}}

	text := "The approval flow has three stages.\n\nExtra commentary after the break."
	got := c.Compose(inScope(), pack, text, gate.Result{Pass: true})

	if got.Text != "The approval flow has three stages." {
		t.Errorf("text = %q, want cut at blank line", got.Text)
	}
}

func TestTruncateStopsAtListMarker(t *testing.T) {
	c := newComposer()
	pack := &store.ContextPack{Passages: []store.Passage{{Text: "a", Page: 1}}}

	text := "The proforma requires the following.\n- first item\n- second item"
	got := c.Compose(inScope(), pack, text, gate.Result{Pass: true})

	if got.Text != "The proforma requires the following." {
		t.Errorf("text = %q, want cut before the list", got.Text)
	}
}

func TestTruncateKeepsWholeSentencesWithinBudget(t *testing.T) {
	cfg := config.DefaultPipeline()
	cfg.WordBudget = 12
	c := NewComposer(cfg)
	pack := &store.ContextPack{Passages: []store.Passage{{Text: "a", Page: 1}}}

	text := "The limit is Rs. 75 million for the departmental forum. Larger projects go to the provincial forum for clearance."
	got := c.Compose(inScope(), pack, text, gate.Result{Pass: true})

	if got.Text != "The limit is Rs. 75 million for the departmental forum." {
		t.Errorf("text = %q, want first whole sentence only", got.Text)
	}
	if n := len(strings.Fields(got.Text)); n > cfg.WordBudget {
		t.Errorf("word count %d exceeds budget %d", n, cfg.WordBudget)
	}
}

func TestTruncateHardCutWhenNoSentenceFits(t *testing.T) {
	cfg := config.DefaultPipeline()
	cfg.WordBudget = 5
	c := NewComposer(cfg)
	pack := &store.ContextPack{Passages: []store.Passage{{Text: "a", Page: 1}}}

	text := "This single sentence runs far past the configured budget without any punctuation break at all"
	got := c.Compose(inScope(), pack, text, gate.Result{Pass: true})

	if n := len(strings.Fields(got.Text)); n != 5 {
		t.Errorf("word count = %d, want hard cut to 5", n)
	}
}
