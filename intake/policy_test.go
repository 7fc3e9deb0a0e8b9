package intake

import (
	"slices"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		field  string
		expect MimeClass
	}{
		{"photos", ClassImage},
		{"photos[]", ClassImage},
		{"photos[0]", ClassImage},
		{"photosMain", ClassImage},
		{"videoTour", ClassVideo},
		{"documents", ClassDocument},
		{"documents[3]", ClassDocument},
		{"videoTours", ClassUnknown},
		{"avatar", ClassUnknown},
		{"", ClassUnknown},
	}

	for _, tc := range cases {
		if got := Classify(tc.field); got != tc.expect {
			t.Errorf("Classify(%q) = %v, expected %v", tc.field, got, tc.expect)
		}
	}
}

func TestSingular(t *testing.T) {
	if !Singular("videoTour") {
		t.Fatal("videoTour should be singular")
	}

	for _, field := range []string{"photos", "documents", "nonsense"} {
		if Singular(field) {
			t.Errorf("%q should not be singular", field)
		}
	}
}

func TestIsAllowed_AllConfiguredPairs(t *testing.T) {
	for class, list := range allowLists {
		for _, ct := range list {
			if !IsAllowed(class, ct) {
				t.Errorf("IsAllowed(%v, %q) = false, expected true", class, ct)
			}
		}
	}
}

func TestIsAllowed_RejectsAbsentTypes(t *testing.T) {
	cases := []struct {
		class MimeClass
		ct    string
	}{
		{ClassImage, "image/gif"},
		{ClassImage, "video/mp4"},
		{ClassVideo, "image/png"},
		{ClassDocument, "application/zip"},
		{ClassUnknown, "image/jpeg"},
	}

	for _, tc := range cases {
		if IsAllowed(tc.class, tc.ct) {
			t.Errorf("IsAllowed(%v, %q) = true, expected false", tc.class, tc.ct)
		}
	}
}

func TestAllowed_UnknownFallsBackToImageList(t *testing.T) {
	if got := Allowed(ClassUnknown); !slices.Equal(got, allowLists[ClassImage]) {
		t.Fatalf("Allowed(ClassUnknown) = %v, expected the image allow-list", got)
	}
}

func TestAllowed_ReturnsCopy(t *testing.T) {
	got := Allowed(ClassImage)
	got[0] = "changed"

	if allowLists[ClassImage][0] == "changed" {
		t.Fatal("Allowed must not expose the underlying table")
	}
}
