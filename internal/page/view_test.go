package page

import (
	"testing"
)

const fixture = `<html><head><title> Directory </title></head><body>
<div id="RightColumnMainContent">
  <h1 id="ContentPlaceHolder1_HeadingPlaceHolder_NameLabel"> Jane&nbsp;Doe </h1>
  <ul id="list">
    <li><a href="/a">Harvard</a>, J.D., 2001</li>
    <li>
      Yale <span>B.A.</span></li>
    <li><!-- empty --></li>
  </ul>
</div>
<nav><a href="/x"> Thought Leadership </a></nav>
<img class="bioPhoto other" src=" /img/jane.jpg ">
</body></html>`

func mustView(t *testing.T) *View {
	t.Helper()
	view, err := ParseString("https://example.com/people/jane", fixture)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return view
}

func TestViewLookups(t *testing.T) {
	view := mustView(t)

	if view.Title() != "Directory" {
		t.Fatalf("unexpected title %q", view.Title())
	}
	if view.URL() != "https://example.com/people/jane" {
		t.Fatalf("unexpected url %q", view.URL())
	}

	content, ok := view.ByID("RightColumnMainContent")
	if !ok {
		t.Fatal("content region not found")
	}
	name, ok := TextByID(content, "ContentPlaceHolder1_HeadingPlaceHolder_NameLabel")
	if !ok || name != "Jane Doe" {
		t.Fatalf("unexpected name %q %v", name, ok)
	}
	if _, ok := TextByID(content, "PhoneNumberLabel"); ok {
		t.Fatal("missing phone should be absent")
	}

	if !view.HasLinkText("Thought Leadership") {
		t.Fatal("link text should match after trimming")
	}
	if view.HasLinkText("Thought") {
		t.Fatal("link text must match exactly")
	}
	if !view.HasClass("bioPhoto") || view.HasClass("missing") {
		t.Fatal("unexpected class presence result")
	}

	src, ok := view.Attr("img.bioPhoto", "src")
	if !ok || src != "/img/jane.jpg" {
		t.Fatalf("unexpected src %q", src)
	}
	if _, ok := view.Attr("img.bioPhoto", "alt"); ok {
		t.Fatal("missing attribute should be absent")
	}
}

func TestFirstContentText(t *testing.T) {
	view := mustView(t)
	items := view.Document().Find("#list li")

	cases := []struct {
		index int
		want  string
		ok    bool
	}{
		{0, "Harvard", true},
		{1, "Yale", true},
		{2, "", false},
	}
	for _, tc := range cases {
		got, ok := FirstContentText(items.Eq(tc.index))
		if got != tc.want || ok != tc.ok {
			t.Errorf("item %d: got %q %v, want %q %v", tc.index, got, ok, tc.want, tc.ok)
		}
	}
}

func TestJoinedText(t *testing.T) {
	view := mustView(t)
	got := JoinedText(view.Document().Find("#list li").Eq(1))
	if got != "Yale B.A." {
		t.Fatalf("unexpected joined text %q", got)
	}
}
