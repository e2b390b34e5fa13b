package scope

import "testing"

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		fileIds []string
		want    []string
	}{
		{
			name:    "nil input",
			fileIds: nil,
			want:    nil,
		},
		{
			name:    "blank ids dropped",
			fileIds: []string{"", "  ", "file-a"},
			want:    []string{"file-a"},
		},
		{
			name:    "duplicates collapsed",
			fileIds: []string{"file-a", "file-b", "file-a"},
			want:    []string{"file-a", "file-b"},
		},
		{
			name:    "all blank is empty",
			fileIds: []string{"", ""},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := Build(tt.fileIds)

			got := sc.FileIds()
			if len(got) != len(tt.want) {
				t.Fatalf("FileIds = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("FileIds[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}

			if sc.IsEmpty() != (len(tt.want) == 0) {
				t.Errorf("IsEmpty = %v with %d ids", sc.IsEmpty(), len(tt.want))
			}
		})
	}
}

func TestScopeContains(t *testing.T) {
	sc := Build([]string{"file-a", "file-b"})

	if !sc.Contains("file-a") {
		t.Error("expected scope to contain file-a")
	}
	if sc.Contains("file-c") {
		t.Error("did not expect scope to contain file-c")
	}
	if Build(nil).Contains("file-a") {
		t.Error("empty scope must not contain anything")
	}
}

func TestFileIdsReturnsCopy(t *testing.T) {
	sc := Build([]string{"file-a"})

	ids := sc.FileIds()
	ids[0] = "mutated"

	if got := sc.FileIds()[0]; got != "file-a" {
		t.Errorf("scope mutated through returned slice: %q", got)
	}
}
