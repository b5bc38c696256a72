package classify

import (
	"reflect"
	"testing"

	"github.com/indexedakki/vectors-medtech/internal/record"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		rec      record.Record
		wantKind Kind
		wantTags []Tag
		wantErr  bool
	}{
		{
			name: "Given a .001 commercial record When classified Then it is a master agreement",
			rec: record.Record{
				ArticleNo:  "001018471~00073572.001",
				Title:      "Contract - Master IDN Consignment Agreement MC687",
				RecordType: record.RecordTypeCommercial,
			},
			wantKind: KindMasterAgreement,
		},
		{
			name: "Given a .001 PA record with the product phrase When classified Then it is a product agreement",
			rec: record.Record{
				ArticleNo:  "001018471~00091011.001",
				Title:      "Amendment, Add Prod Agree NeuWave",
				RecordType: record.RecordTypePA,
			},
			wantKind: KindProductAgreement,
		},
		{
			name: "Given a non-root title with the product phrase When classified Then it is a product agreement",
			rec: record.Record{
				ArticleNo:  "001018471~00091011.004",
				Title:      "Add Prod Agree Cerenovus",
				RecordType: record.RecordTypePA,
			},
			wantKind: KindProductAgreement,
		},
		{
			name: "Given a .001 PA record without the product phrase When classified Then it falls through to amendment",
			rec: record.Record{
				ArticleNo:  "001018471~00091011.001",
				Title:      "Notice of Assignment",
				RecordType: record.RecordTypePA,
			},
			wantKind: KindAmendment,
			wantTags: []Tag{TagNotice},
		},
		{
			name: "Given an extension title When classified Then the ext tag is set",
			rec: record.Record{
				ArticleNo:  "001018471~00073572.002",
				Title:      "Extension to 3/31/2030",
				RecordType: record.RecordTypeCommercial,
			},
			wantKind: KindAmendment,
			wantTags: []Tag{TagExt},
		},
		{
			name: "Given an address change title When classified Then add, chg and address all match",
			rec: record.Record{
				ArticleNo:  "001018471~00073572.005",
				Title:      "Chg of Address",
				RecordType: record.RecordTypeCommercial,
			},
			wantKind: KindAmendment,
			wantTags: []Tag{TagAdd, TagChg, TagAddress},
		},
		{
			name: "Given an add prod agree amendment title on the commercial stream When classified Then it is a product agreement by rule 2",
			rec: record.Record{
				ArticleNo:  "001018471~00073572.007",
				Title:      "Amendment, Add Prod Agree Mentor",
				RecordType: record.RecordTypeCommercial,
			},
			wantKind: KindProductAgreement,
		},
		{
			name: "Given a plain title with no keywords When classified Then the amendment has no tags",
			rec: record.Record{
				ArticleNo:  "001018471~00073572.009",
				Title:      "Pricing Schedule Update",
				RecordType: record.RecordTypeCommercial,
			},
			wantKind: KindAmendment,
		},
		{
			name: "Given an unparseable article number When classified Then it is rejected",
			rec: record.Record{
				ArticleNo:  "not-an-article-number",
				Title:      "Extension",
				RecordType: record.RecordTypeCommercial,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.rec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Classify() expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Classify() unexpected error: %v", err)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.wantKind)
			}
			if !reflect.DeepEqual(got.Tags, tt.wantTags) {
				t.Errorf("Tags = %v, want %v", got.Tags, tt.wantTags)
			}
		})
	}
}

func TestTagsFromTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  []Tag
	}{
		{
			name:  "Given an extension with product wording When scanned Then ext and add_prod_agree coexist",
			title: "Ext Amendment, Add Prod Agree NeuWave",
			want:  []Tag{TagExt, TagAdd, TagAddProdAgree},
		},
		{
			name:  "Given a deletion and replacement title When scanned Then both tags match",
			title: "Repl and Del of Exhibit B",
			want:  []Tag{TagRepl, TagDel},
		},
		{
			name:  "Given no keywords When scanned Then no tags match",
			title: "Pricing Schedule",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TagsFromTitle(tt.title); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TagsFromTitle(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}
