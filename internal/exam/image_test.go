package exam

import "testing"

func TestBuildImageLocation(t *testing.T) {
	a := Archive{
		BaseURL: DefaultImageBase,
		Owner:   "octo",
		Repo:    "jee-pyq",
		Branch:  "main",
		Ext:     "jpg",
	}
	cases := []struct {
		kind     Kind
		year, q  int
		expected string
	}{
		{Main, 2013, 5, "https://raw.githubusercontent.com/octo/jee-pyq/main/images/jee_main/2013/5.jpg"},
		{Advanced, 2020, 50, "https://raw.githubusercontent.com/octo/jee-pyq/main/images/jee_adv/2020/50.jpg"},
	}
	for _, tc := range cases {
		if got := a.BuildImageLocation(tc.kind, tc.year, tc.q); got != tc.expected {
			t.Fatalf("BuildImageLocation(%v, %d, %d) = %q, want %q", tc.kind, tc.year, tc.q, got, tc.expected)
		}
	}
}

func TestBuildImageLocationTrimsBaseSlash(t *testing.T) {
	a := Archive{BaseURL: "https://cdn.example.org/", Owner: "o", Repo: "r", Branch: "b", Ext: "png"}
	want := "https://cdn.example.org/o/r/b/images/jee_adv/2019/3.png"
	if got := a.BuildImageLocation(Advanced, 2019, 3); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
