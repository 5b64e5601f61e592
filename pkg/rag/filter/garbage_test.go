package filter

import (
	"strings"
	"testing"

	"policy-chat-be/internal/config"
	"policy-chat-be/pkg/store"
)

func newFilter() *GarbageFilter {
	return NewGarbageFilter(config.DefaultPipeline())
}

func mainText(text string) store.Passage {
	return store.Passage{Text: text, ChunkType: store.ChunkTypeMainText}
}

func TestRejectRules(t *testing.T) {
	f := newFilter()

	tests := []struct {
		name    string
		passage store.Passage
		query   string
		want    string
	}{
		{
			name:    "clean passage survives",
			passage: mainText("The Departmental Development Working Party may approve development projects costing up to the prescribed financial limit subject to clearance."),
			query:   "approval limit",
			want:    "",
		},
		{
			name:    "short fragment rejected",
			passage: mainText("subject to clearance"),
			query:   "approval limit",
			want:    "fragment",
		},
		{
			name:    "oversized dump rejected",
			passage: mainText(strings.Repeat("cell value ", 150)),
			query:   "approval limit",
			want:    "table_dump",
		},
		{
			name:    "figure header rejected",
			passage: mainText("Figure 3: Approval flow of development projects through the working parties and committees"),
			query:   "approval limit",
			want:    "boilerplate",
		},
		{
			name:    "notification code rejected",
			passage: mainText("Vide S.R.O. 1234 dated the first of June the following amendments are notified to all concerned departments accordingly"),
			query:   "approval limit",
			want:    "boilerplate",
		},
		{
			name:    "page footer rejected",
			passage: mainText("Development project approval procedures continue in the following chapter page 14 of 220 as maintained by the commission"),
			query:   "approval limit",
			want:    "boilerplate",
		},
		{
			name:    "acronym soup rejected",
			passage: mainText("DDWP PDWP CDWP ECNEC PSDP ADP PC-I PC-II PC-III PC-IV the above forums and forms"),
			query:   "approval limit",
			want:    "acronym_soup",
		},
		{
			name:    "checklist type rejected by default",
			passage: store.Passage{Text: "Ensure the following items are attached before submission of the proforma to the forum secretariat for placement", ChunkType: store.ChunkTypeChecklist},
			query:   "approval limit",
			want:    "excluded_type",
		},
		{
			name:    "checklist type kept when query asks for it",
			passage: store.Passage{Text: "Ensure the following items are attached before submission of the proforma to the forum secretariat for placement", ChunkType: store.ChunkTypeChecklist},
			query:   "what is on the submission checklist?",
			want:    "",
		},
		{
			name:    "boilerplate type always rejected",
			passage: store.Passage{Text: "This document is the property of the commission and may not be reproduced without prior written permission thereof", ChunkType: store.ChunkTypeBoilerplate},
			query:   "can I reproduce the boilerplate?",
			want:    "excluded_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Reject(tt.passage, tt.query); got != tt.want {
				t.Errorf("Reject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRejectEnumeration(t *testing.T) {
	f := newFilter()

	var b strings.Builder
	b.WriteString("The proforma requires the following items\n")
	for i := 0; i < 15; i++ {
		b.WriteString("- item with a few words here\n")
	}
	p := mainText(b.String())

	if got := f.Reject(p, "requirements"); got != "enumeration" {
		t.Errorf("Reject() = %q, want enumeration", got)
	}
}

func TestApplyPreservesOrder(t *testing.T) {
	f := newFilter()

	passages := []store.Passage{
		{ID: "1", Text: "The working party shall record its decision in the minutes of the meeting for onward circulation to departments.", ChunkType: store.ChunkTypeMainText},
		{ID: "2", Text: "too short", ChunkType: store.ChunkTypeMainText},
		{ID: "3", Text: "Projects exceeding the departmental limit shall be referred to the next higher forum together with the appraisal note.", ChunkType: store.ChunkTypeMainText},
	}

	got := f.Apply(passages, "what happens above the limit")

	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("Apply() = %v, want passages 1 and 3 in order", got)
	}
}
